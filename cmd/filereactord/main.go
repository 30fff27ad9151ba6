// Command filereactord is the static-file HTTP/1.x server: an acceptor
// reactor plus a fixed pool of worker reactors, each driving its own epoll
// set, idle-timeout timer wheel, and thread pool.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/filereactor/pkg/filereactor/config"
	"github.com/yourusername/filereactor/pkg/filereactor/logging"
	"github.com/yourusername/filereactor/pkg/filereactor/metrics"
	"github.com/yourusername/filereactor/pkg/filereactor/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		documentRoot string
		logPath      string
		logLevel     string
		listenSpecs  []string
		workers      int
		poolSize     int
		idleTimeout  int
		tickInterval int
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "filereactord",
		Short: "Multi-reactor static-file HTTP/1.x server",
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, err := parseListenSpecs(listenSpecs)
			if err != nil {
				return err
			}

			cfg := config.Config{
				DocumentRoot:        documentRoot,
				LogPath:             logPath,
				LogLevel:            logging.Level(logLevel),
				Listen:              listen,
				WorkerReactorCount:  workers,
				WorkerPoolSize:      poolSize,
				IdleTimeoutSeconds:  idleTimeout,
				TickIntervalSeconds: tickInterval,
			}

			log, err := logging.New(cfg.LogPath, cfg.LogLevel, 1024)
			if err != nil {
				return fmt.Errorf("failed to start logger: %w", err)
			}
			defer log.Close()

			srv, err := server.New(cfg, log)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				m := metrics.New(metricsAddr)
				go func() {
					if err := m.Serve(); err != nil {
						log.Error("metrics server stopped: "+err.Error(), nil)
					}
				}()
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sig
				log.Info("shutting down", nil)
				srv.Shutdown()
				os.Exit(0)
			}()

			log.Info("serving "+srv.DocumentRoot(), nil)
			srv.Run()
			return nil
		},
	}

	def := config.Default()
	cmd.Flags().StringVar(&documentRoot, "root", def.DocumentRoot, "document root to serve static files from")
	cmd.Flags().StringVar(&logPath, "log-path", "", "log file path (empty means stdout)")
	cmd.Flags().StringVar(&logLevel, "log-level", string(def.LogLevel), "log level: debug, info, warning, error")
	cmd.Flags().StringSliceVar(&listenSpecs, "listen", []string{"0.0.0.0:8080:1"}, "listen address as host:port[:acceptor-count], repeatable")
	cmd.Flags().IntVar(&workers, "workers", def.WorkerReactorCount, "number of worker reactors")
	cmd.Flags().IntVar(&poolSize, "pool-size", def.WorkerPoolSize, "task pool size per worker reactor")
	cmd.Flags().IntVar(&idleTimeout, "idle-timeout", def.IdleTimeoutSeconds, "idle connection timeout in seconds")
	cmd.Flags().IntVar(&tickInterval, "tick-interval", def.TickIntervalSeconds, "timer wheel tick interval in seconds")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus /metrics on (empty disables it)")

	return cmd
}

// parseListenSpecs parses "host:port" or "host:port:acceptor-count" entries.
func parseListenSpecs(specs []string) ([]config.ListenAddr, error) {
	out := make([]config.ListenAddr, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid --listen value %q, expected host:port[:acceptor-count]", spec)
		}
		host := parts[0]
		if host == "" {
			host = "0.0.0.0"
		}
		port, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid port in --listen value %q: %w", spec, err)
		}
		count := 1
		if len(parts) == 3 {
			count, err = strconv.Atoi(parts[2])
			if err != nil {
				return nil, fmt.Errorf("invalid acceptor count in --listen value %q: %w", spec, err)
			}
		}
		out = append(out, config.ListenAddr{Host: host, Port: port, AcceptorCount: count})
	}
	return out, nil
}
