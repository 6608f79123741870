package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/sealdrop/internal/server"
	"github.com/dmitrijs2005/sealdrop/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
