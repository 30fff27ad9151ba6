// Package config holds the server's startup configuration: everything is
// fixed at process start and there is no dynamic reconfiguration.
package config

import (
	"fmt"

	"github.com/yourusername/filereactor/pkg/filereactor/logging"
)

// ListenAddr is one address the acceptor binds to, along with how many
// acceptor goroutines run the accept loop for it.
type ListenAddr struct {
	Host           string
	Port           int
	AcceptorCount int
}

// Config is the full set of fixed startup settings.
type Config struct {
	// DocumentRoot is the directory static files are served from.
	DocumentRoot string

	// LogPath is the file the async logger appends to; empty means stdout.
	LogPath string

	// LogLevel is one of debug, info, warning, error.
	LogLevel logging.Level

	// Listen is the set of addresses to accept connections on.
	Listen []ListenAddr

	// WorkerReactorCount is the number of worker reactors (N in the spec's
	// "one acceptor + N worker reactors" model).
	WorkerReactorCount int

	// WorkerPoolSize is the number of goroutines in each worker reactor's
	// task pool (M in "N worker reactors, each owning a pool of M workers").
	WorkerPoolSize int

	// IdleTimeoutSeconds is the deadline after which an idle connection is
	// closed by the timer wheel.
	IdleTimeoutSeconds int

	// TickIntervalSeconds is how often each worker reactor's timer fd fires
	// to drive wheel.Tick().
	TickIntervalSeconds int
}

// Default returns the spec's recommended defaults: 5s idle deadline, 2s
// tick interval, four worker reactors with 8 pool workers each.
func Default() Config {
	return Config{
		DocumentRoot:        ".",
		LogLevel:            logging.LevelInfo,
		WorkerReactorCount:  4,
		WorkerPoolSize:      8,
		IdleTimeoutSeconds:  5,
		TickIntervalSeconds: 2,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.DocumentRoot == "" {
		return fmt.Errorf("config: document root must be set")
	}
	if len(c.Listen) == 0 {
		return fmt.Errorf("config: at least one listen address is required")
	}
	for _, l := range c.Listen {
		if l.Port <= 0 || l.Port > 65535 {
			return fmt.Errorf("config: invalid port %d for %s", l.Port, l.Host)
		}
		if l.AcceptorCount <= 0 {
			return fmt.Errorf("config: acceptor count must be positive for %s:%d", l.Host, l.Port)
		}
	}
	if c.WorkerReactorCount <= 0 {
		return fmt.Errorf("config: worker reactor count must be positive")
	}
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("config: worker pool size must be positive")
	}
	switch c.LogLevel {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarning, logging.LevelError:
	default:
		return fmt.Errorf("config: invalid log level %q", c.LogLevel)
	}
	return nil
}
