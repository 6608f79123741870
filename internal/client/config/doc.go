// Package config loads runtime configuration for the sealdrop CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file (path from SEALDROP_ENV_FILE, default ./.env) and
//     SEALDROP_* environment variables.
//  3. Optional JSON file selected with -c/--config.
//  4. Command-line flags registered by RegisterFlags, when set explicitly.
//
// # Environment
//
// Every setting has an environment variable named SEALDROP_ plus its key in
// upper case, for example SEALDROP_PUBLISHER_URL or SEALDROP_KEY_SERVERS
// (comma separated).
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "publisher_url": "https://publisher.walrus-testnet.walrus.space",
//	  "key_servers": ["127.0.0.1:50052"],
//	  "session_ttl": "10m",
//	  "backend": "s3",
//	  "s3_bucket": "drops"
//	}
package config
