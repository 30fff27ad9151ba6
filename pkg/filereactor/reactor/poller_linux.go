//go:build linux
// +build linux

// Package reactor wraps Linux epoll as a one-shot edge-triggered readiness
// primitive: Add/Modify/Delete interest in read/write on a file descriptor,
// and Wait for a batch of ready events. One-shot (EPOLLONESHOT) semantics are
// load-bearing for the connection state machine upstream: once an event is
// delivered for an fd, that fd is disarmed until the handler explicitly
// re-arms it via Modify, which gives mutual exclusion of handler execution
// for that fd without any per-connection lock.
package reactor

import (
	"golang.org/x/sys/unix"
)

// Event flags, mapped 1:1 onto the epoll bits the rest of the package cares
// about so callers never import golang.org/x/sys/unix themselves.
const (
	EventRead   = unix.EPOLLIN
	EventWrite  = unix.EPOLLOUT
	EventHangup = unix.EPOLLHUP | unix.EPOLLRDHUP | unix.EPOLLERR
)

// Event is one readiness notification returned from Wait.
type Event struct {
	Fd     int32
	Events uint32
}

// Poller is a single epoll instance. Safe for concurrent Add/Modify/Delete
// from multiple goroutines; Wait is intended to be called from exactly one
// goroutine (the owning reactor's loop).
type Poller struct {
	epfd int
	raw  []unix.EpollEvent
}

// New creates a new epoll instance.
func New() (*Poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &Poller{epfd: fd, raw: make([]unix.EpollEvent, 128)}, nil
}

// Add registers one-shot, edge-triggered interest in events on fd.
func (p *Poller) Add(fd int, events uint32) error {
	ev := unix.EpollEvent{Events: events | unix.EPOLLONESHOT | unix.EPOLLET, Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

// Modify re-arms interest on fd, required after every delivered event since
// EPOLLONESHOT disarms fd on delivery.
func (p *Poller) Modify(fd int, events uint32) error {
	ev := unix.EpollEvent{Events: events | unix.EPOLLONESHOT | unix.EPOLLET, Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
}

// Delete removes fd from the interest set entirely.
func (p *Poller) Delete(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// Close closes the underlying epoll fd.
func (p *Poller) Close() error {
	return unix.Close(p.epfd)
}

// Wait blocks until at least one fd is ready or timeoutMs elapses (-1 blocks
// forever), and appends ready events into buf, returning the used prefix.
// buf is reused across calls by the caller to avoid per-wait allocation.
func (p *Poller) Wait(buf []Event, timeoutMs int) ([]Event, error) {
	n, err := unix.EpollWait(p.epfd, p.raw, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return buf[:0], nil
		}
		return buf[:0], err
	}

	out := buf[:0]
	for i := 0; i < n; i++ {
		out = append(out, Event{Fd: p.raw[i].Fd, Events: p.raw[i].Events})
	}
	return out, nil
}
