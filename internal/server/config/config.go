// Package config handles configuration for the key-release server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the key server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC key service.
//   - ObjectID: identifier clients use to match wrapped keys to this server.
//   - MasterKeyHex: hex-encoded X25519 private key. When empty an ephemeral
//     key is generated, which is only useful for local testing.
//   - SealPackageID / SealModule: the policy package whose seal_approve calls
//     are honored.
//   - MaxSessionTTL: upper bound on session certificate lifetimes.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrGRPC string
	ObjectID         string
	MasterKeyHex     string
	SealPackageID    string
	SealModule       string
	MaxSessionTTL    time.Duration
	LogLevel         string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50052"
	c.ObjectID = "0x73d05d62c18d9374e3ea529e8e0ed6161da1a141a94d3f76ae3fe4e99356db75"
	c.MasterKeyHex = ""
	c.SealPackageID = "0xd1d471dd362206f61194c711d9dfcd1f8fd2d3e44df102efc15fa07332996247"
	c.SealModule = "simple_recipient"
	c.MaxSessionTTL = 30 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
