package socket

import (
	"net"
	"testing"
)

func testLoopbackFd(t *testing.T) (fd int, cleanup func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	server := <-accepted

	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		t.Fatalf("dialed connection is not *net.TCPConn")
	}

	rawConn, err := tcpConn.SyscallConn()
	if err != nil {
		t.Fatalf("SyscallConn: %v", err)
	}

	var dupFd int
	err = rawConn.Control(func(sysFd uintptr) {
		dupFd = int(sysFd)
	})
	if err != nil {
		t.Fatalf("Control: %v", err)
	}

	return dupFd, func() {
		conn.Close()
		server.Close()
		ln.Close()
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.NoDelay {
		t.Error("NoDelay should be true by default")
	}
	if cfg.RecvBuffer != 256*1024 {
		t.Errorf("RecvBuffer = %d, want %d", cfg.RecvBuffer, 256*1024)
	}
	if cfg.SendBuffer != 256*1024 {
		t.Errorf("SendBuffer = %d, want %d", cfg.SendBuffer, 256*1024)
	}
	if !cfg.KeepAlive {
		t.Error("KeepAlive should be true by default")
	}
	if !cfg.QuickAck {
		t.Error("QuickAck should be true by default")
	}
	if !cfg.DeferAccept {
		t.Error("DeferAccept should be true by default")
	}
}

func TestApplyConn(t *testing.T) {
	fd, cleanup := testLoopbackFd(t)
	defer cleanup()

	if err := ApplyConn(fd, DefaultConfig()); err != nil {
		t.Fatalf("ApplyConn: %v", err)
	}
}

func TestApplyConnNilConfigUsesDefault(t *testing.T) {
	fd, cleanup := testLoopbackFd(t)
	defer cleanup()

	if err := ApplyConn(fd, nil); err != nil {
		t.Fatalf("ApplyConn with nil config: %v", err)
	}
}

func TestGetTCPInfo(t *testing.T) {
	fd, cleanup := testLoopbackFd(t)
	defer cleanup()

	info, err := GetTCPInfo(fd)
	if err != nil {
		t.Fatalf("GetTCPInfo: %v", err)
	}
	if info == nil {
		t.Fatal("GetTCPInfo returned nil info with no error")
	}
}
