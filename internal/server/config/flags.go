package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g. ":50052")
//	-o string   key server object id
//	-k string   hex X25519 master key
//	-p string   seal package id
//	-m string   seal module
//	-t int      max session ttl, minutes
//	-l string   log level
//
// Notes:
//   - os.Args is filtered down to these flags first, so -c (read by
//     parseJson) and anything unknown never reach the flag set.
//   - -t is given in whole minutes and converted to a time.Duration.
func parseFlags(config *Config) {
	// Only the flags handled here survive the filter
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-o", "-k", "-p", "-m", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.ObjectID, "o", config.ObjectID, "key server object id")
	fs.StringVar(&config.MasterKeyHex, "k", config.MasterKeyHex, "hex encoded X25519 master key")
	fs.StringVar(&config.SealPackageID, "p", config.SealPackageID, "seal policy package id")
	fs.StringVar(&config.SealModule, "m", config.SealModule, "seal policy module")
	// Minutes on the command line, Duration in Config
	maxTTL := fs.Int("t", int(config.MaxSessionTTL.Minutes()), "max session ttl (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	// Misuse of a flag at startup is fatal, same as a broken config file
	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MaxSessionTTL = time.Duration(*maxTTL) * time.Minute
}
