//go:build linux
// +build linux

package socket

import (
	"errors"
	"os"
	"syscall"
)

// ErrWouldBlock is returned by SendFileOnce when the destination socket's
// send buffer is currently full. The caller (the connection's doWrite) must
// wait for the next write-readiness event and retry rather than spin.
var ErrWouldBlock = errors.New("socket: sendfile would block")

// SendFileOnce issues exactly one sendfile(2) call from file starting at
// offset, transferring at most count bytes to the non-blocking destination
// socket dstFd. It never loops and never blocks: this is the primitive the
// connection state machine's doWrite uses to advance file_offset by however
// many bytes the kernel accepted this readiness turn.
//
// Returns (n, nil) for a partial or full write, (0, ErrWouldBlock) if the
// socket send buffer is full (EAGAIN/EWOULDBLOCK), or (0, err) for any
// other failure, which the caller treats as a fatal connection error.
func SendFileOnce(dstFd int, file *os.File, offset int64, count int64) (int64, error) {
	if count <= 0 {
		return 0, nil
	}
	// sendfile(2) accepts at most 0x7ffff000 bytes per call on Linux.
	const maxChunk = 0x7ffff000
	if count > maxChunk {
		count = maxChunk
	}

	curOffset := offset
	n, err := syscall.Sendfile(dstFd, int(file.Fd()), &curOffset, int(count))
	if err != nil {
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
			return 0, ErrWouldBlock
		}
		if errors.Is(err, syscall.EINTR) {
			return 0, nil
		}
		return 0, err
	}
	return int64(n), nil
}
