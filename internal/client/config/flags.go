package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/erpdesk/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   base URL of the Authentication Service
//	-d string   path of the local database file
//	-t int      request timeout (seconds)
//	-h string   host:port of the gRPC health endpoint
//	-i int      online check interval (seconds)
//	-l string   log level: debug, info, warn or error
//
// Only these flags are picked out of args, so other components can own the
// rest of the command line.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-h", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.AuthBaseURL, "a", cfg.AuthBaseURL, "authentication service base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.HealthEndpointAddr, "h", cfg.HealthEndpointAddr, "gRPC health endpoint address")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
