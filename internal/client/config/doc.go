// Package config loads runtime configuration for the desk client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the Authentication Service
//	-d string   local database file
//	-t int      request timeout (seconds)
//	-h string   gRPC health endpoint (empty disables the status watcher)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations are strings like "3s" or integer nanoseconds. The refresh leeway
// and the S3 export settings can only be set from JSON:
//
//	{
//	  "auth_base_url": "https://erp.example.com/api/Auth",
//	  "database_path": "erpdesk.db",
//	  "request_timeout": "10s",
//	  "health_endpoint_addr": "erp.example.com:50051",
//	  "online_check_interval": "3s",
//	  "refresh_leeway": "1m",
//	  "log_level": "info",
//	  "s3_bucket": "erp-exports",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minioadmin",
//	  "s3_secret_key": "minioadmin"
//	}
package config
