package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sealdrop/internal/timex"
)

// JsonConfig is the on-disk form of Config. Zero fields leave the current
// value untouched.
type JsonConfig struct {
	PublisherURL      string         `json:"publisher_url"`
	AggregatorURL     string         `json:"aggregator_url"`
	RPCURL            string         `json:"rpc_url"`
	RegistryPackageID string         `json:"registry_package"`
	RegistryModule    string         `json:"registry_module"`
	SealPackageID     string         `json:"seal_package"`
	SealModule        string         `json:"seal_module"`
	KeyServers        []string       `json:"key_servers"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	DefaultEpochs     uint64         `json:"default_epochs"`
	Backend           string         `json:"backend"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3Endpoint        string         `json:"s3_endpoint"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	S3Prefix          string         `json:"s3_prefix"`
	S3PathStyle       *bool          `json:"s3_path_style"`
	DBPath            string         `json:"db_path"`
	KeystorePath      string         `json:"keystore_path"`
	HTTPTimeout       timex.Duration `json:"http_timeout"`
	GasBudget         uint64         `json:"gas_budget"`
	LogLevel          string         `json:"log_level"`
	ShareBaseURL      string         `json:"share_base_url"`
}

// parseJson overlays config with the file at path.
func parseJson(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIfNotEmpty(&config.PublisherURL, c.PublisherURL)
	setIfNotEmpty(&config.AggregatorURL, c.AggregatorURL)
	setIfNotEmpty(&config.RPCURL, c.RPCURL)
	setIfNotEmpty(&config.RegistryPackageID, c.RegistryPackageID)
	setIfNotEmpty(&config.RegistryModule, c.RegistryModule)
	setIfNotEmpty(&config.SealPackageID, c.SealPackageID)
	setIfNotEmpty(&config.SealModule, c.SealModule)
	setIfNotEmpty(&config.Backend, c.Backend)
	setIfNotEmpty(&config.S3.Bucket, c.S3Bucket)
	setIfNotEmpty(&config.S3.Region, c.S3Region)
	setIfNotEmpty(&config.S3.Endpoint, c.S3Endpoint)
	setIfNotEmpty(&config.S3.AccessKey, c.S3AccessKey)
	setIfNotEmpty(&config.S3.SecretKey, c.S3SecretKey)
	setIfNotEmpty(&config.S3.Prefix, c.S3Prefix)
	setIfNotEmpty(&config.DBPath, c.DBPath)
	setIfNotEmpty(&config.KeystorePath, c.KeystorePath)
	setIfNotEmpty(&config.LogLevel, c.LogLevel)
	setIfNotEmpty(&config.ShareBaseURL, c.ShareBaseURL)

	if len(c.KeyServers) > 0 {
		config.KeyServers = c.KeyServers
	}
	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.HTTPTimeout.Duration > 0 {
		config.HTTPTimeout = c.HTTPTimeout.Duration
	}
	if c.DefaultEpochs > 0 {
		config.DefaultEpochs = c.DefaultEpochs
	}
	if c.GasBudget > 0 {
		config.GasBudget = c.GasBudget
	}
	if c.S3PathStyle != nil {
		config.S3.UsePathStyle = *c.S3PathStyle
	}
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
