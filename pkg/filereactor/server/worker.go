package server

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/yourusername/filereactor/pkg/filereactor/conn"
	"github.com/yourusername/filereactor/pkg/filereactor/fileserver"
	"github.com/yourusername/filereactor/pkg/filereactor/logging"
	"github.com/yourusername/filereactor/pkg/filereactor/reactor"
	"github.com/yourusername/filereactor/pkg/filereactor/timerwheel"
	"github.com/yourusername/filereactor/pkg/filereactor/workerpool"
)

// worker is one worker reactor: a readiness handle, a dense map of live
// connection contexts, a timer wheel for idle eviction, and a thread pool
// that runs doRead/doWrite tasks. The acceptor hands it fds round-robin; the
// worker itself lazily constructs the conn.Conn context on the fd's first
// read-readiness event, per the design's acceptor/worker split.
type worker struct {
	poller *reactor.Poller
	pool   *workerpool.Pool
	wheel  *timerwheel.Wheel

	root *fileserver.Root
	log  *logging.Logger

	idleTimeout  time.Duration
	tickInterval time.Duration

	timerFd int

	mu       sync.Mutex
	contexts map[int]*conn.Conn

	stopCh chan struct{}
}

func newWorker(root *fileserver.Root, log *logging.Logger, poolSize int, idleTimeout, tickInterval time.Duration) (*worker, error) {
	poller, err := reactor.New()
	if err != nil {
		return nil, err
	}
	pool, err := workerpool.New(poolSize, nil)
	if err != nil {
		poller.Close()
		return nil, err
	}

	timerFd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		poller.Close()
		pool.Stop()
		return nil, err
	}
	spec := &unix.ItimerSpec{
		Interval: unix.NsecToTimespec(int64(tickInterval)),
		Value:    unix.NsecToTimespec(int64(tickInterval)),
	}
	if err := unix.TimerfdSettime(timerFd, 0, spec, nil); err != nil {
		poller.Close()
		pool.Stop()
		unix.Close(timerFd)
		return nil, err
	}

	w := &worker{
		poller:       poller,
		pool:         pool,
		wheel:        timerwheel.New(),
		root:         root,
		log:          log,
		idleTimeout:  idleTimeout,
		tickInterval: tickInterval,
		timerFd:      timerFd,
		contexts:     make(map[int]*conn.Conn),
		stopCh:       make(chan struct{}),
	}

	if err := poller.Add(timerFd, reactor.EventRead); err != nil {
		poller.Close()
		pool.Stop()
		unix.Close(timerFd)
		return nil, err
	}

	return w, nil
}

// register is called by the acceptor for a freshly accepted fd: it only
// arms one-shot read|hangup interest. The connection context itself is
// created lazily by loop() on the first delivered read event, which keeps
// the acceptor free of any per-connection state.
func (w *worker) register(fd int) error {
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return err
	}
	return w.poller.Add(fd, reactor.EventRead|uint32(reactor.EventHangup))
}

// loop runs the worker's event dispatch; call it from its own goroutine.
func (w *worker) loop() {
	var buf []reactor.Event
	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		events, err := w.poller.Wait(buf, int(w.tickInterval/time.Millisecond))
		if err != nil {
			continue
		}
		buf = events

		tick := false
		for _, ev := range events {
			fd := int(ev.Fd)

			if fd == w.timerFd {
				var drain [8]byte
				unix.Read(w.timerFd, drain[:])
				w.poller.Modify(w.timerFd, reactor.EventRead)
				tick = true
				continue
			}

			if ev.Events&reactor.EventHangup != 0 {
				w.drop(fd)
				continue
			}

			c := w.getOrCreate(fd)
			if c == nil {
				continue
			}

			if c.TimerID == 0 {
				c.TimerID = w.wheel.Add(func() { w.drop(fd) }, w.idleTimeout)
			} else {
				w.wheel.Reset(c.TimerID, w.idleTimeout)
			}

			switch {
			case ev.Events&reactor.EventWrite != 0:
				w.pool.Run(c.DoWrite)
			case ev.Events&uint32(reactor.EventRead) != 0:
				w.pool.Run(c.DoRead)
			}
		}

		if tick {
			w.wheel.Tick()
		}
	}
}

func (w *worker) getOrCreate(fd int) *conn.Conn {
	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.contexts[fd]; ok {
		return c
	}
	c := conn.New(fd, w.root, w, w.log)
	w.contexts[fd] = c
	return c
}

// Rearm implements conn.Owner.
func (w *worker) Rearm(fd int, events uint32) error {
	return w.poller.Modify(fd, events|uint32(reactor.EventHangup))
}

// Drop implements conn.Owner.
func (w *worker) Drop(fd int) {
	w.drop(fd)
}

func (w *worker) drop(fd int) {
	w.mu.Lock()
	c, ok := w.contexts[fd]
	if !ok {
		w.mu.Unlock()
		return
	}
	delete(w.contexts, fd)
	w.mu.Unlock()

	w.wheel.Remove(c.TimerID)
	w.poller.Delete(fd)
	unix.Close(fd)
	c.Close()
}

func (w *worker) stop() {
	close(w.stopCh)
	w.pool.Stop()
	unix.Close(w.timerFd)
	w.poller.Close()
}
