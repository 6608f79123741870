package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sealdrop/internal/flagx"
	"github.com/dmitrijs2005/sealdrop/internal/timex"
)

// JsonConfig is the on-disk form of Config. Empty fields leave the current
// value untouched.
type JsonConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	ObjectID         string         `json:"object_id"`
	MasterKeyHex     string         `json:"master_key"`
	SealPackageID    string         `json:"seal_package_id"`
	SealModule       string         `json:"seal_module"`
	MaxSessionTTL    timex.Duration `json:"max_session_ttl"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config/--config, if any.
// It panics when the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// No -c given: defaults (and later flags) are all there is
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	// Case 1: string settings, overridden only when present in the file
	setIfNotEmpty(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIfNotEmpty(&config.ObjectID, c.ObjectID)
	setIfNotEmpty(&config.MasterKeyHex, c.MasterKeyHex)
	setIfNotEmpty(&config.SealPackageID, c.SealPackageID)
	setIfNotEmpty(&config.SealModule, c.SealModule)
	setIfNotEmpty(&config.LogLevel, c.LogLevel)

	// Case 2: durations, a zero value means "not set"
	if c.MaxSessionTTL.Duration > 0 {
		config.MaxSessionTTL = c.MaxSessionTTL.Duration
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
