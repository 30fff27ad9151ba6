// Package metrics exposes the running server's buffer pool statistics over
// an optional Prometheus scrape endpoint. It is entirely separate from the
// reactor/worker fds: the listener here is a plain net/http server since
// scraping is low-frequency and does not need the zero-copy/epoll path.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	filereactor "github.com/yourusername/filereactor/pkg/filereactor"
)

// Server serves GET /metrics on its own listener.
type Server struct {
	http *http.Server
}

// New registers the buffer pool collector and prepares an HTTP server bound
// to addr. Call Serve to start listening.
func New(addr string) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(filereactor.NewPrometheusCollector(nil))
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Server{http: &http.Server{Addr: addr, Handler: mux}}
}

// Serve blocks until the listener fails or Shutdown is called.
func (s *Server) Serve() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting scrapes.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
