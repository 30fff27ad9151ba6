// Package conn implements the per-fd HTTP/1.1 state machine described by
// the worker reactor: head-receive -> body-receive -> respond -> idle/close.
// A Conn owns its read/write buffers, its parser and response builder, and
// an optional file handle for a zero-copy body; it never blocks and never
// loops forever -- every doRead/doWrite call drains exactly as much as the
// kernel currently offers and re-arms interest for whatever comes next.
package conn

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	filereactor "github.com/yourusername/filereactor/pkg/filereactor"
	"github.com/yourusername/filereactor/pkg/filereactor/fileserver"
	"github.com/yourusername/filereactor/pkg/filereactor/fileserver/errorpage"
	"github.com/yourusername/filereactor/pkg/filereactor/http11"
	"github.com/yourusername/filereactor/pkg/filereactor/logging"
	"github.com/yourusername/filereactor/pkg/filereactor/reactor"
	"github.com/yourusername/filereactor/pkg/filereactor/socket"
	"github.com/yourusername/filereactor/pkg/filereactor/timerwheel"
)

// Phase is one state of the connection's lifecycle.
type Phase int

const (
	PhaseReceiveHead Phase = iota
	PhaseReceiveBody
	PhaseSend
	PhaseSendError
	PhaseClose
)

// readChunk is the size of each non-blocking read issued while draining a
// socket to EAGAIN.
const readChunk = 64 * 1024

// Owner is the slice of worker-reactor behavior a Conn depends on: re-arming
// one-shot interest after a task finishes, and dropping the context (which
// closes the socket and removes the timer entry) on teardown. Kept as an
// interface so conn never imports the reactor's context map directly and
// timer callbacks stay closure-free over contexts, per the cyclic-reference
// note in the design.
type Owner interface {
	Rearm(fd int, events uint32) error
	Drop(fd int)
}

// Conn is one accepted connection's HTTP/1.1 state machine.
type Conn struct {
	Fd    int
	Phase Phase

	readBuf        []byte
	bodyBuf        []byte
	bytesRemaining int64
	pendingReq     *http11.Request
	headLength     int

	writeBuf   []byte
	writeIndex int

	file       *fileserver.File
	fileOffset int64

	parser *http11.Parser
	rwBuf  bytes.Buffer
	rw     *http11.ResponseWriter

	root  *fileserver.Root
	owner Owner
	log   *logging.Logger

	keepAlive bool

	// TimerID is the owning worker reactor's idle-deadline timer entry for
	// this connection; the reactor manages it directly (reset on dispatch).
	TimerID timerwheel.ID
}

// New constructs a Conn for an already-accepted, non-blocking fd.
func New(fd int, root *fileserver.Root, owner Owner, log *logging.Logger) *Conn {
	c := &Conn{
		Fd:      fd,
		Phase:   PhaseReceiveHead,
		parser:  http11.NewParser(),
		root:    root,
		owner:   owner,
		log:     log,
		readBuf: filereactor.GetBuffer(filereactor.BufferSize4KB)[:0],
		bodyBuf: filereactor.GetBuffer(filereactor.BufferSize4KB)[:0],
		writeBuf: filereactor.GetBuffer(filereactor.BufferSize4KB)[:0],
	}
	c.rw = http11.NewResponseWriter(&c.rwBuf)
	return c
}

// Close releases the connection's pooled buffers. The owner calls this once
// after removing the context from its map and closing the socket; buffers
// are never touched by conn code afterward.
func (c *Conn) Close() {
	filereactor.PutBuffer(c.readBuf)
	filereactor.PutBuffer(c.bodyBuf)
	filereactor.PutBuffer(c.writeBuf)
	if c.file != nil {
		c.file.Close()
		c.file = nil
	}
}

// DoRead is dispatched by the worker reactor's thread pool when read
// readiness is delivered for Fd.
func (c *Conn) DoRead() {
	switch c.Phase {
	case PhaseReceiveHead:
		c.doReadHead()
	case PhaseReceiveBody:
		c.doReadBody()
	default:
		// A read event for a connection no longer expecting one (e.g. it is
		// mid-Send) is stale; ignore it rather than re-arm read interest
		// that would race the write-side state machine.
	}
}

// DoWrite is dispatched by the worker reactor's thread pool when write
// readiness is delivered for Fd.
func (c *Conn) DoWrite() {
	if c.Phase != PhaseSend && c.Phase != PhaseSendError {
		return
	}

	for c.writeIndex < len(c.writeBuf) {
		n, err := unix.Write(c.Fd, c.writeBuf[c.writeIndex:])
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				c.rearmWrite()
				return
			}
			if err == unix.EINTR {
				continue
			}
			if err == unix.EPIPE {
				c.teardown(nil)
			} else {
				c.teardown(err)
			}
			return
		}
		c.writeIndex += n
	}

	if c.file != nil {
		for c.fileOffset < c.file.Size {
			n, err := socket.SendFileOnce(c.Fd, c.file.Handle, c.fileOffset, c.file.Size-c.fileOffset)
			if err != nil {
				if errors.Is(err, socket.ErrWouldBlock) {
					c.rearmWrite()
					return
				}
				c.teardown(err)
				return
			}
			if n == 0 {
				break
			}
			c.fileOffset += n
		}
		if c.fileOffset < c.file.Size {
			c.rearmWrite()
			return
		}
		c.file.Close()
		c.file = nil
	}

	c.completeWrite()
}

func (c *Conn) doReadHead() {
	closed, err := c.drainInto(&c.readBuf)
	if err != nil {
		c.teardown(err)
		return
	}
	if closed {
		c.teardown(nil)
		return
	}

	req, headLen, perr := c.parser.TryParseHead(c.readBuf)
	if perr == http11.ErrUnexpectedEOF {
		c.rearmRead()
		return
	}
	if perr != nil {
		status := 400
		if errors.Is(perr, http11.ErrInvalidProtocol) {
			status = 505
		}
		c.respondError(status, "", false)
		return
	}

	c.headLength = headLen
	c.keepAlive = computeKeepAlive(req)
	c.rw.SetProtocol(req.ProtoMajor, req.ProtoMinor)

	if req.ContentLength > 0 {
		if req.MethodID == http11.MethodTRACE {
			http11.PutRequest(req)
			c.respondError(400, "", false)
			return
		}

		overflow := c.readBuf[headLen:]
		c.bodyBuf = append(c.bodyBuf[:0], overflow...)
		remaining := req.ContentLength - int64(len(c.bodyBuf))
		if remaining > 0 {
			c.bytesRemaining = remaining
			c.pendingReq = req
			c.Phase = PhaseReceiveBody
			c.rearmRead()
			return
		}
		if remaining < 0 {
			c.bodyBuf = c.bodyBuf[:req.ContentLength]
		}
		c.handleRequest(req)
		return
	}

	c.handleRequest(req)
}

func (c *Conn) doReadBody() {
	closed, err := c.drainInto(&c.bodyBuf)
	if err != nil {
		c.teardown(err)
		return
	}
	if closed {
		c.teardown(nil)
		return
	}

	req := c.pendingReq
	remaining := req.ContentLength - int64(len(c.bodyBuf))
	if remaining > 0 {
		c.bytesRemaining = remaining
		c.rearmRead()
		return
	}

	if remaining < 0 {
		c.bodyBuf = c.bodyBuf[:req.ContentLength]
	}
	c.bytesRemaining = 0
	c.pendingReq = nil
	c.handleRequest(req)
}

// handleRequest implements the routing and filesystem resolution described
// for the HTTP state machine: version check, method dispatch, and the
// GET/HEAD static-file path including root-containment and permission
// checks.
func (c *Conn) handleRequest(req *http11.Request) {
	defer http11.PutRequest(req)

	if req.ProtoMajor > 1 || (req.ProtoMajor == 1 && req.ProtoMinor > 1) {
		c.respondError(505, "", false)
		return
	}

	switch req.MethodID {
	case http11.MethodGET, http11.MethodHEAD:
		c.serveFile(req)
	case http11.MethodTRACE:
		c.serveTrace(req)
	default:
		c.respondError(501, "", req.MethodID == http11.MethodHEAD)
	}
}

func (c *Conn) serveFile(req *http11.Request) {
	isHead := req.MethodID == http11.MethodHEAD

	f, status := fileserver.Resolve(c.root, req.Path())
	if status != fileserver.StatusOK {
		c.respondError(int(status), "", isHead)
		return
	}

	c.rw.WriteHeader(200)
	c.rw.Header().Set([]byte("Content-Length"), []byte(strconv.FormatInt(f.Size, 10)))
	c.rw.Header().Set([]byte("Content-Type"), []byte(f.ContentType))
	if c.keepAlive {
		c.rw.Header().Set([]byte("Connection"), []byte("keep-alive"))
	}

	if err := c.rw.BuildNoBody(); err != nil {
		f.Close()
		c.teardown(err)
		return
	}
	c.flushResponseBuffer()

	if isHead {
		f.Close()
	} else {
		c.file = f
		c.fileOffset = 0
	}
	c.Phase = PhaseSend
	c.rearmWrite()
}

// serveTrace echoes the first head_length bytes of the request head back as
// the response body, per the spec's TRACE handling: message/http body,
// connection always closed afterward.
func (c *Conn) serveTrace(req *http11.Request) {
	echo := append([]byte(nil), c.readBuf[:c.headLength]...)
	c.keepAlive = false

	c.rw.WriteHeader(200)
	c.rw.Header().Set([]byte("Content-Type"), []byte("message/http"))
	c.rw.Header().Set([]byte("Connection"), []byte("close"))
	c.rw.Header().Set([]byte("Content-Length"), []byte(strconv.Itoa(len(echo))))

	if _, err := c.rw.Write(echo); err != nil {
		c.teardown(err)
		return
	}
	c.flushResponseBuffer()
	c.Phase = PhaseSend
	c.rearmWrite()
}

func (c *Conn) respondError(status int, extraMsg string, headOnly bool) {
	c.keepAlive = false

	body := errorpage.Get(status)
	if extraMsg != "" {
		body = errorpage.WithExtraMessage(status, extraMsg)
	}

	c.rw.WriteHeader(status)
	c.rw.Header().Set([]byte("Content-Type"), []byte("text/html"))
	c.rw.Header().Set([]byte("Content-Length"), []byte(strconv.Itoa(len(body))))

	var err error
	if headOnly {
		err = c.rw.BuildNoBody()
	} else {
		_, err = c.rw.Write([]byte(body))
	}
	if err != nil {
		c.teardown(err)
		return
	}

	c.flushResponseBuffer()
	c.Phase = PhaseSendError
	c.rearmWrite()
}

// flushResponseBuffer copies the response builder's staged bytes into the
// connection's own write buffer and resets the builder for the next
// keep-alive request.
func (c *Conn) flushResponseBuffer() {
	c.writeBuf = append(c.writeBuf[:0], c.rwBuf.Bytes()...)
	c.writeIndex = 0
	c.rwBuf.Reset()
	c.rw.Reset(&c.rwBuf)
}

func (c *Conn) completeWrite() {
	if c.keepAlive && c.Phase != PhaseSendError {
		c.reset()
		c.Phase = PhaseReceiveHead
		c.rearmRead()
		return
	}
	c.Phase = PhaseClose
	c.owner.Drop(c.Fd)
}

// reset clears all per-request state so the connection's parser and builder
// can be reused for the next keep-alive request without reallocating.
func (c *Conn) reset() {
	c.readBuf = c.readBuf[:0]
	c.bodyBuf = c.bodyBuf[:0]
	c.bytesRemaining = 0
	c.headLength = 0
	c.pendingReq = nil
	c.writeBuf = c.writeBuf[:0]
	c.writeIndex = 0
	c.parser.Reset()
	c.rwBuf.Reset()
	c.rw.Reset(&c.rwBuf)
}

func (c *Conn) teardown(err error) {
	if c.file != nil {
		c.file.Close()
		c.file = nil
	}
	if err != nil && c.log != nil {
		c.log.Error("connection teardown", logrus.Fields{"fd": c.Fd, "error": err.Error()})
	}
	c.Phase = PhaseClose
	c.owner.Drop(c.Fd)
}

func (c *Conn) rearmRead() {
	if err := c.owner.Rearm(c.Fd, reactor.EventRead); err != nil {
		c.teardown(err)
	}
}

func (c *Conn) rearmWrite() {
	if err := c.owner.Rearm(c.Fd, reactor.EventWrite); err != nil {
		c.teardown(err)
	}
}

// drainInto reads from Fd into *buf until EAGAIN, an error, or the peer
// closes. Returns closed=true when recv returned 0 (peer sent FIN).
func (c *Conn) drainInto(buf *[]byte) (closed bool, err error) {
	var tmp [readChunk]byte
	for {
		n, rerr := unix.Read(c.Fd, tmp[:])
		if n > 0 {
			*buf = append(*buf, tmp[:n]...)
		}
		if rerr != nil {
			if rerr == unix.EAGAIN || rerr == unix.EWOULDBLOCK {
				return false, nil
			}
			if rerr == unix.EINTR {
				continue
			}
			return false, rerr
		}
		if n == 0 {
			return true, nil
		}
	}
}

// computeKeepAlive applies RFC 7230 §6.3's default: HTTP/1.1 connections
// stay open unless Connection: close is present; HTTP/1.0 connections close
// unless Connection: keep-alive is present.
func computeKeepAlive(req *http11.Request) bool {
	conn := req.GetHeaderString("Connection")
	if req.ProtoMinor == 0 && req.ProtoMajor == 1 {
		return strings.EqualFold(conn, "keep-alive")
	}
	return !strings.EqualFold(conn, "close")
}
