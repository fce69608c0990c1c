package config

import "time"

// Config holds runtime settings for the desk client.
//
// Durations are time.Duration values; on the command line they are given in
// whole seconds, in JSON as "3s" strings or integer nanoseconds.
type Config struct {
	AuthBaseURL    string
	DatabasePath   string
	RequestTimeout time.Duration

	// HealthEndpointAddr is the gRPC health endpoint; empty disables the
	// online status watcher.
	HealthEndpointAddr  string
	OnlineCheckInterval time.Duration

	// RefreshLeeway is how long before expiry the token is refreshed.
	RefreshLeeway time.Duration

	LogLevel string

	// An empty S3Bucket disables export.
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "http://127.0.0.1:8080/api/Auth"
	c.DatabasePath = "erpdesk.db"
	c.RequestTimeout = 10 * time.Second
	c.HealthEndpointAddr = ""
	c.OnlineCheckInterval = 3 * time.Second
	c.RefreshLeeway = time.Minute
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config (if any), then command-line flags. Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
