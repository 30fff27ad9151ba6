// Package server wires the acceptor and worker reactors together:
// AcceptorCount acceptors per configured listen address (each with its own
// SO_REUSEPORT listen socket), and a fixed pool of worker reactors that own connection
// contexts, their timer wheels, and their thread pools.
package server

import (
	"fmt"
	"time"

	"github.com/yourusername/filereactor/pkg/filereactor/config"
	"github.com/yourusername/filereactor/pkg/filereactor/fileserver"
	"github.com/yourusername/filereactor/pkg/filereactor/logging"
)

// Server owns every acceptor and worker reactor for one running instance.
type Server struct {
	cfg     config.Config
	log     *logging.Logger
	root    *fileserver.Root
	workers []*worker
	accepts []*acceptor
}

// New validates cfg, canonicalizes the document root, and constructs (but
// does not yet start) every worker reactor and acceptor.
func New(cfg config.Config, log *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := fileserver.NewRoot(cfg.DocumentRoot)
	if err != nil {
		return nil, fmt.Errorf("server: invalid document root: %w", err)
	}

	idleTimeout := time.Duration(cfg.IdleTimeoutSeconds) * time.Second
	tickInterval := time.Duration(cfg.TickIntervalSeconds) * time.Second

	workers := make([]*worker, 0, cfg.WorkerReactorCount)
	for i := 0; i < cfg.WorkerReactorCount; i++ {
		w, err := newWorker(root, log, cfg.WorkerPoolSize, idleTimeout, tickInterval)
		if err != nil {
			for _, started := range workers {
				started.stop()
			}
			return nil, fmt.Errorf("server: failed to create worker reactor %d: %w", i, err)
		}
		workers = append(workers, w)
	}

	var accepts []*acceptor
	for _, addr := range cfg.Listen {
		for i := 0; i < addr.AcceptorCount; i++ {
			a, err := newAcceptor(addr.Host, addr.Port, workers, log)
			if err != nil {
				for _, started := range accepts {
					started.stop()
				}
				for _, w := range workers {
					w.stop()
				}
				return nil, fmt.Errorf("server: failed to bind %s:%d: %w", addr.Host, addr.Port, err)
			}
			accepts = append(accepts, a)
		}
	}

	return &Server{
		cfg:     cfg,
		log:     log,
		root:    root,
		workers: workers,
		accepts: accepts,
	}, nil
}

// Start launches every worker reactor and acceptor goroutine and returns
// immediately; call Shutdown to stop them.
func (s *Server) Start() {
	for _, w := range s.workers {
		go w.loop()
	}
	for _, a := range s.accepts {
		go a.loop()
	}
}

// Run starts every worker reactor and acceptor goroutine and blocks forever
// (until the process is killed or Shutdown is called from a signal handler
// goroutine, which itself typically calls os.Exit).
func (s *Server) Run() {
	s.Start()
	select {}
}

// Port returns the bound local port of the first acceptor, resolving an
// ephemeral port 0 to whatever the kernel assigned. Intended for tests that
// bind to :0; servers with multiple listen addresses should not rely on it.
func (s *Server) Port() (int, error) {
	if len(s.accepts) == 0 {
		return 0, fmt.Errorf("server: no listen addresses configured")
	}
	return s.accepts[0].port()
}

// Shutdown stops every acceptor and worker reactor, closing the listen
// sockets and each worker's epoll and timer fds; accepted connection sockets
// are not closed.
// There is no graceful drain: in-flight responses are abandoned, matching
// the fixed-at-startup, no-dynamic-reconfiguration scope of this engine.
func (s *Server) Shutdown() {
	for _, a := range s.accepts {
		a.stop()
	}
	for _, w := range s.workers {
		w.stop()
	}
}

// DocumentRoot returns the canonicalized root files are served from.
func (s *Server) DocumentRoot() string {
	return s.root.String()
}
