package server

import (
	"fmt"
	"net"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/yourusername/filereactor/pkg/filereactor/logging"
	"github.com/yourusername/filereactor/pkg/filereactor/reactor"
	"github.com/yourusername/filereactor/pkg/filereactor/socket"
)

// acceptor owns one non-blocking listen socket and round-robins newly
// accepted connections across a fixed set of worker reactors. It never
// constructs connection contexts itself -- the target worker lazily builds
// one on the fd's first read-readiness.
type acceptor struct {
	listenFd int
	poller   *reactor.Poller
	workers  []*worker
	next     atomic.Uint64
	log      *logging.Logger
	stopCh   chan struct{}
}

func newAcceptor(host string, port int, workers []*worker, log *logging.Logger) (*acceptor, error) {
	ip := net.ParseIP(host)
	if ip == nil {
		return nil, fmt.Errorf("acceptor: invalid listen address %q", host)
	}

	var (
		fd  int
		err error
	)
	if v4 := ip.To4(); v4 != nil {
		fd, err = unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
		if err != nil {
			return nil, err
		}
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		addr := &unix.SockaddrInet4{Port: port}
		copy(addr.Addr[:], v4)
		if err := unix.Bind(fd, addr); err != nil {
			unix.Close(fd)
			return nil, err
		}
	} else {
		fd, err = unix.Socket(unix.AF_INET6, unix.SOCK_STREAM, 0)
		if err != nil {
			return nil, err
		}
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		addr := &unix.SockaddrInet6{Port: port}
		copy(addr.Addr[:], ip.To16())
		if err := unix.Bind(fd, addr); err != nil {
			unix.Close(fd)
			return nil, err
		}
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.Listen(fd, 1024); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := socket.ApplyListener(fd, socket.DefaultConfig()); err != nil && log != nil {
		log.Debug("acceptor: listener tuning partially failed", nil)
	}

	poller, err := reactor.New()
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := poller.Add(fd, reactor.EventRead); err != nil {
		poller.Close()
		unix.Close(fd)
		return nil, err
	}

	return &acceptor{
		listenFd: fd,
		poller:   poller,
		workers:  workers,
		log:      log,
		stopCh:   make(chan struct{}),
	}, nil
}

// loop runs the accept cycle; call it from its own goroutine. A listen
// address gets AcceptorCount acceptors, each with its own SO_REUSEPORT listen
// socket bound to that address and its own round-robin counter over the
// shared workers.
func (a *acceptor) loop() {
	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		events, err := a.poller.Wait(nil, -1)
		if err != nil {
			continue
		}

		for range events {
			for {
				connFd, _, err := unix.Accept4(a.listenFd, unix.SOCK_NONBLOCK)
				if err != nil {
					if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
						break
					}
					if err == unix.EINTR {
						continue
					}
					if a.log != nil {
						a.log.Error("acceptor: accept failed", nil)
					}
					break
				}

				if err := socket.ApplyConn(connFd, socket.DefaultConfig()); err != nil && a.log != nil {
					a.log.Debug("acceptor: conn tuning partially failed", nil)
				}

				idx := a.next.Add(1) % uint64(len(a.workers))
				if err := a.workers[idx].register(connFd); err != nil && a.log != nil {
					a.log.Error("acceptor: failed to register connection with worker", nil)
				}
			}
			a.poller.Modify(a.listenFd, reactor.EventRead)
		}
	}
}

func (a *acceptor) stop() {
	close(a.stopCh)
	a.poller.Close()
	unix.Close(a.listenFd)
}

// port returns the bound local port, resolving ephemeral port 0 to whatever
// the kernel actually assigned -- used by tests that bind to :0.
func (a *acceptor) port() (int, error) {
	sa, err := unix.Getsockname(a.listenFd)
	if err != nil {
		return 0, err
	}
	switch addr := sa.(type) {
	case *unix.SockaddrInet4:
		return addr.Port, nil
	case *unix.SockaddrInet6:
		return addr.Port, nil
	default:
		return 0, fmt.Errorf("acceptor: unexpected sockaddr type %T", sa)
	}
}
