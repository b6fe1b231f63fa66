package session

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/danmuck/ibootctl/internal/protocol"
	"github.com/danmuck/ibootctl/internal/testutil/testlog"
)

var testCreds = protocol.Credentials{Username: "admin", Password: "admin"}

// fakeDevice accepts one connection, answers the greeting with initialSeq,
// and hands the connection to serve.
func fakeDevice(t *testing.T, initialSeq uint16, serve func(t *testing.T, conn net.Conn)) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		hello := make([]byte, 9)
		if _, err := io.ReadFull(conn, hello); err != nil {
			return
		}
		if string(hello) != "hello-000" {
			t.Errorf("unexpected greeting %q", hello)
			return
		}
		_, _ = conn.Write([]byte{byte(initialSeq), byte(initialSeq >> 8)})

		if serve != nil {
			serve(t, conn)
		}
	}()
	return ln
}

func readRequest(t *testing.T, conn net.Conn, payloadLen int) []byte {
	t.Helper()
	buf := make([]byte, protocol.HeaderSize+payloadLen)
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Errorf("read request: %v", err)
		return nil
	}
	return buf
}

func TestDialNegotiatesSequence(t *testing.T) {
	ln := fakeDevice(t, 5, nil)

	sess, err := Dial(ln.Addr().String(), testCreds, 3, Config{}, testlog.New(t))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sess.Close()

	if got := sess.Sequence(); got != 6 {
		t.Fatalf("sequence=%d want=6", got)
	}
}

func TestExecuteAdvancesSequencePerResponse(t *testing.T) {
	ln := fakeDevice(t, 5, func(t *testing.T, conn net.Conn) {
		for wantSeq := byte(6); wantSeq <= 7; wantSeq++ {
			req := readRequest(t, conn, 2)
			if req == nil {
				return
			}
			if req[45] != wantSeq || req[46] != 0 {
				t.Errorf("header sequence=%v want LE %d", req[45:47], wantSeq)
			}
			_, _ = conn.Write([]byte{0x00})
		}
	})

	sess, err := Dial(ln.Addr().String(), testCreds, 3, Config{}, testlog.New(t))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sess.Close()

	cmd, err := protocol.NewChangeRelay(1, true)
	if err != nil {
		t.Fatalf("change relay: %v", err)
	}

	res, err := sess.Execute(cmd)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !res.Acked {
		t.Fatalf("first command not acked")
	}
	if got := sess.Sequence(); got != 7 {
		t.Fatalf("sequence after first command=%d want=7", got)
	}

	if _, err := sess.Execute(cmd); err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if got := sess.Sequence(); got != 8 {
		t.Fatalf("sequence after second command=%d want=8", got)
	}
}

func TestExecuteFailureAckStillAdvances(t *testing.T) {
	ln := fakeDevice(t, 0, func(t *testing.T, conn net.Conn) {
		if readRequest(t, conn, 2) == nil {
			return
		}
		_, _ = conn.Write([]byte{0x01})
	})

	sess, err := Dial(ln.Addr().String(), testCreds, 3, Config{}, testlog.New(t))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sess.Close()

	cmd, err := protocol.NewChangeRelay(2, false)
	if err != nil {
		t.Fatalf("change relay: %v", err)
	}
	res, err := sess.Execute(cmd)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Acked {
		t.Fatalf("failure ack decoded as success")
	}
	if got := sess.Sequence(); got != 2 {
		t.Fatalf("sequence=%d want=2 (failure ack is still a response)", got)
	}
}

func TestExecuteRelayArray(t *testing.T) {
	ln := fakeDevice(t, 9, func(t *testing.T, conn net.Conn) {
		if readRequest(t, conn, 0) == nil {
			return
		}
		_, _ = conn.Write([]byte{0x01, 0x00, 0x01})
	})

	sess, err := Dial(ln.Addr().String(), testCreds, 3, Config{}, testlog.New(t))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sess.Close()

	res, err := sess.Execute(protocol.NewGetRelays())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !bytes.Equal(boolBytes(res.States), []byte{1, 0, 1}) {
		t.Fatalf("states=%v want=[true false true]", res.States)
	}
}

func TestExecuteNoResponseKeepsSequence(t *testing.T) {
	ln := fakeDevice(t, 5, func(t *testing.T, conn net.Conn) {
		readRequest(t, conn, 2)
		// close without answering
	})

	sess, err := Dial(ln.Addr().String(), testCreds, 3, Config{}, testlog.New(t))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sess.Close()

	cmd, err := protocol.NewChangeRelay(1, true)
	if err != nil {
		t.Fatalf("change relay: %v", err)
	}
	if _, err := sess.Execute(cmd); !errors.Is(err, ErrResponse) {
		t.Fatalf("want ErrResponse, got %v", err)
	}
	if got := sess.Sequence(); got != 6 {
		t.Fatalf("sequence=%d want=6 (no response, no advance)", got)
	}
}

func TestDialHandshakeShortRead(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		hello := make([]byte, 9)
		_, _ = io.ReadFull(conn, hello)
		_, _ = conn.Write([]byte{0x05})
		_ = conn.Close()
	}()

	if _, err := Dial(ln.Addr().String(), testCreds, 3, Config{}, testlog.New(t)); !errors.Is(err, ErrHandshake) {
		t.Fatalf("want ErrHandshake, got %v", err)
	}
}

func TestDialConnectRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	if _, err := Dial(addr, testCreds, 3, Config{}, testlog.New(t)); !errors.Is(err, ErrConnect) {
		t.Fatalf("want ErrConnect, got %v", err)
	}
}

func TestExecuteAfterClose(t *testing.T) {
	ln := fakeDevice(t, 0, nil)

	sess, err := Dial(ln.Addr().String(), testCreds, 3, Config{}, testlog.New(t))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	sess.Close()
	sess.Close() // idempotent

	if _, err := sess.Execute(protocol.NewGetRelays()); !errors.Is(err, ErrClosed) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
}

func boolBytes(states []bool) []byte {
	out := make([]byte, len(states))
	for i, on := range states {
		if on {
			out[i] = 1
		}
	}
	return out
}
