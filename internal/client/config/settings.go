package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "SEALDROP"

// setting ties one Config field to its env key and flag.
type setting struct {
	key   string
	flag  string
	usage string
	field func(c *Config) any
}

var settings = []setting{
	{"publisher_url", "publisher", "walrus publisher url", func(c *Config) any { return &c.PublisherURL }},
	{"aggregator_url", "aggregator", "walrus aggregator url", func(c *Config) any { return &c.AggregatorURL }},
	{"rpc_url", "rpc", "ledger json-rpc url", func(c *Config) any { return &c.RPCURL }},
	{"registry_package", "registry-package", "file registry package id", func(c *Config) any { return &c.RegistryPackageID }},
	{"registry_module", "registry-module", "file registry module", func(c *Config) any { return &c.RegistryModule }},
	{"seal_package", "seal-package", "access policy package id", func(c *Config) any { return &c.SealPackageID }},
	{"seal_module", "seal-module", "access policy module", func(c *Config) any { return &c.SealModule }},
	{"key_servers", "key-servers", "key server addresses, tried in order", func(c *Config) any { return &c.KeyServers }},
	{"session_ttl", "session-ttl", "decryption session lifetime", func(c *Config) any { return &c.SessionTTL }},
	{"default_epochs", "default-epochs", "retention when an upload names none", func(c *Config) any { return &c.DefaultEpochs }},
	{"backend", "backend", "blob backend: walrus or s3", func(c *Config) any { return &c.Backend }},
	{"s3_bucket", "s3-bucket", "s3 bucket", func(c *Config) any { return &c.S3.Bucket }},
	{"s3_region", "s3-region", "s3 region", func(c *Config) any { return &c.S3.Region }},
	{"s3_endpoint", "s3-endpoint", "s3 endpoint for compatible stores", func(c *Config) any { return &c.S3.Endpoint }},
	{"s3_access_key", "s3-access-key", "s3 access key id", func(c *Config) any { return &c.S3.AccessKey }},
	{"s3_secret_key", "s3-secret-key", "s3 secret access key", func(c *Config) any { return &c.S3.SecretKey }},
	{"s3_prefix", "s3-prefix", "key prefix inside the bucket", func(c *Config) any { return &c.S3.Prefix }},
	{"s3_path_style", "s3-path-style", "use path-style s3 addressing", func(c *Config) any { return &c.S3.UsePathStyle }},
	{"db_path", "db", "local database file", func(c *Config) any { return &c.DBPath }},
	{"keystore_path", "keystore", "wallet keystore file", func(c *Config) any { return &c.KeystorePath }},
	{"http_timeout", "http-timeout", "timeout for http and rpc calls", func(c *Config) any { return &c.HTTPTimeout }},
	{"gas_budget", "gas-budget", "gas budget for registration", func(c *Config) any { return &c.GasBudget }},
	{"log_level", "log-level", "debug, info, warn or error", func(c *Config) any { return &c.LogLevel }},
	{"share_base_url", "share-url", "base url of share links", func(c *Config) any { return &c.ShareBaseURL }},
}

// RegisterFlags adds the configuration flags to fs, with defaults taken
// from LoadDefaults for the help text.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP("config", "c", "", "json config file")
	for _, s := range settings {
		switch p := s.field(&d).(type) {
		case *string:
			fs.String(s.flag, *p, s.usage)
		case *[]string:
			fs.StringSlice(s.flag, *p, s.usage)
		case *time.Duration:
			fs.Duration(s.flag, *p, s.usage)
		case *uint64:
			fs.Uint64(s.flag, *p, s.usage)
		case *bool:
			fs.Bool(s.flag, *p, s.usage)
		}
	}
}

// applyEnv overlays SEALDROP_* variables.
func applyEnv(c *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for _, s := range settings {
		if !v.IsSet(s.key) {
			continue
		}
		if err := setFromString(s.field(c), v.GetString(s.key)); err != nil {
			return fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(s.key), err)
		}
	}
	return nil
}

// applyFlags overlays flags the user set explicitly.
func applyFlags(c *Config, fs *pflag.FlagSet) error {
	for _, s := range settings {
		if fs.Lookup(s.flag) == nil || !fs.Changed(s.flag) {
			continue
		}
		var err error
		switch p := s.field(c).(type) {
		case *string:
			*p, err = fs.GetString(s.flag)
		case *[]string:
			*p, err = fs.GetStringSlice(s.flag)
		case *time.Duration:
			*p, err = fs.GetDuration(s.flag)
		case *uint64:
			*p, err = fs.GetUint64(s.flag)
		case *bool:
			*p, err = fs.GetBool(s.flag)
		}
		if err != nil {
			return fmt.Errorf("--%s: %w", s.flag, err)
		}
	}
	return nil
}

func setFromString(field any, raw string) error {
	switch p := field.(type) {
	case *string:
		*p = raw
	case *[]string:
		*p = splitList(raw)
	case *time.Duration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		*p = d
	case *uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		*p = n
	case *bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*p = b
	default:
		return fmt.Errorf("unsupported field type %T", field)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
