package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://auth:8080", "-d", "/tmp/x.db", "-t", "5", "-h", "auth:50051", "-i", "10", "-l", "warn"},
			expected: &Config{
				AuthBaseURL:         "http://auth:8080",
				DatabasePath:        "/tmp/x.db",
				RequestTimeout:      5 * time.Second,
				HealthEndpointAddr:  "auth:50051",
				OnlineCheckInterval: 10 * time.Second,
				LogLevel:            "warn",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-x", "1", "-i=4", "-c", "cfg.json"},
			expected: &Config{OnlineCheckInterval: 4 * time.Second},
		},
		{name: "incorrect check interval", args: []string{"-a", "127.0.0.1:9090", "-i", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
