// Package socket provides the raw non-blocking socket plumbing this server
// runs on: socket tuning for listeners and accepted connections, and
// zero-copy file transmission via sendfile(2).
//
// Every fd here is owned directly by the reactor's epoll set rather than by
// the Go runtime netpoller -- see pkg/filereactor/reactor for why.
package socket

import "syscall"

// Config represents socket tuning configuration.
// Zero values mean "use system defaults".
type Config struct {
	// TCP_NODELAY - Disable Nagle's algorithm for low latency
	NoDelay bool

	// SO_RCVBUF - Receive buffer size in bytes (0 = system default)
	RecvBuffer int

	// SO_SNDBUF - Send buffer size in bytes (0 = system default)
	SendBuffer int

	// TCP_QUICKACK - Send immediate ACKs
	QuickAck bool

	// TCP_DEFER_ACCEPT - Don't wake the acceptor until data arrives
	DeferAccept bool

	// TCP_FASTOPEN - Enable TCP Fast Open on the listener
	FastOpen bool

	// SO_KEEPALIVE - Enable TCP keepalive
	KeepAlive bool
}

// DefaultConfig returns the recommended configuration for a static-file
// HTTP workload: short-lived request/response pairs, low latency.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:     true,
		RecvBuffer:  256 * 1024,
		SendBuffer:  256 * 1024,
		QuickAck:    true,
		DeferAccept: true,
		FastOpen:    true,
		KeepAlive:   true,
	}
}

// ApplyConn applies per-connection socket tuning to an accepted fd.
// Non-critical options are applied best-effort; only TCP_NODELAY failure
// is treated as an error, matching the cost/benefit of the other options.
func ApplyConn(fd int, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.NoDelay {
		if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); err != nil {
			return err
		}
	}
	if cfg.RecvBuffer > 0 {
		_ = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_RCVBUF, cfg.RecvBuffer)
	}
	if cfg.SendBuffer > 0 {
		_ = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_SNDBUF, cfg.SendBuffer)
	}
	if cfg.KeepAlive {
		_ = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_KEEPALIVE, 1)
	}

	applyPlatformOptions(fd, cfg)
	return nil
}

// ApplyListener applies listener-scoped socket tuning (TCP_DEFER_ACCEPT,
// TCP_FASTOPEN) before the acceptor starts calling accept4 on fd.
func ApplyListener(fd int, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return applyListenerOptions(fd, cfg)
}
