// internal/fieldbus/client_test.go
package fieldbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/goburrow/modbus"
)

func TestPackUnpackRegisters(t *testing.T) {
	regs := []uint16{0x0102, 0xA0B0, 0x0000, 0xFFFF}

	raw := packRegisters(regs)
	want := []byte{0x01, 0x02, 0xA0, 0xB0, 0x00, 0x00, 0xFF, 0xFF}
	if !reflect.DeepEqual(raw, want) {
		t.Fatalf("packRegisters=% X want % X", raw, want)
	}

	if got := unpackRegisters(raw); !reflect.DeepEqual(got, regs) {
		t.Fatalf("unpackRegisters=%v want %v", got, regs)
	}
}

func TestUnpackRegisters_OddByteDropped(t *testing.T) {
	got := unpackRegisters([]byte{0x00, 0x01, 0x02})
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("unexpected registers %v", got)
	}
}

func TestExceptionCode(t *testing.T) {
	exc := &modbus.ModbusError{FunctionCode: 0x83, ExceptionCode: modbus.ExceptionCodeIllegalDataAddress}
	wrapped := fmt.Errorf("pull status: %w", exc)

	if !IsException(wrapped) {
		t.Fatalf("wrapped exception not detected")
	}
	if got := ExceptionCode(wrapped); got != modbus.ExceptionCodeIllegalDataAddress {
		t.Fatalf("ExceptionCode=%d", got)
	}

	plain := errors.New("i/o timeout")
	if IsException(plain) || ExceptionCode(plain) != 0 {
		t.Fatalf("plain error classified as exception")
	}
}

func TestNewEndpointClient_EndpointRequired(t *testing.T) {
	if _, err := NewEndpointClient(Config{}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

// flakyServer is a Modbus TCP server whose first connection closes after
// reading one request. Later connections answer the first request with
// an illegal-address exception and every other read with registers 1..n.
type flakyServer struct {
	ln net.Listener

	mu       sync.Mutex
	accepted int
}

func startFlakyServer(t *testing.T) *flakyServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	s := &flakyServer{ln: ln}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			n := s.accepted
			s.accepted++
			s.mu.Unlock()
			go s.serve(n, conn)
		}
	}()
	return s
}

func (s *flakyServer) Accepted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted
}

func (s *flakyServer) serve(n int, conn net.Conn) {
	defer conn.Close()

	for req := 0; ; req++ {
		header := make([]byte, 7)
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		length := binary.BigEndian.Uint16(header[4:6])
		if length < 2 {
			return
		}
		pdu := make([]byte, length-1)
		if _, err := io.ReadFull(conn, pdu); err != nil {
			return
		}

		if n == 0 {
			return
		}

		var resp []byte
		if req == 0 {
			resp = []byte{pdu[0] | 0x80, modbus.ExceptionCodeIllegalDataAddress}
		} else {
			qty := binary.BigEndian.Uint16(pdu[3:5])
			resp = []byte{pdu[0], byte(qty * 2)}
			for i := uint16(1); i <= qty; i++ {
				resp = binary.BigEndian.AppendUint16(resp, i)
			}
		}

		frame := make([]byte, 7, 7+len(resp))
		copy(frame[0:4], header[0:4])
		binary.BigEndian.PutUint16(frame[4:6], uint16(len(resp)+1))
		frame[6] = header[6]
		frame = append(frame, resp...)
		if _, err := conn.Write(frame); err != nil {
			return
		}
	}
}

func TestEndpointClient_ReconnectAfterTransportError(t *testing.T) {
	srv := startFlakyServer(t)

	c, err := NewEndpointClient(Config{
		Endpoint: srv.ln.Addr().String(),
		Timeout:  500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewEndpointClient: %v", err)
	}
	defer c.Close()

	// connection closed by the device
	if _, err := c.ReadRegisters(1, 0, 2); err == nil {
		t.Fatalf("expected transport error, got nil")
	} else if IsException(err) {
		t.Fatalf("transport error classified as exception: %v", err)
	}

	// redialed; device answers with an exception
	_, err = c.ReadRegisters(1, 0, 2)
	if !IsException(err) {
		t.Fatalf("expected exception, got %v", err)
	}
	if got := ExceptionCode(err); got != modbus.ExceptionCodeIllegalDataAddress {
		t.Fatalf("ExceptionCode=%d", got)
	}

	// same connection still serves
	regs, err := c.ReadRegisters(1, 0, 2)
	if err != nil {
		t.Fatalf("ReadRegisters: %v", err)
	}
	if !reflect.DeepEqual(regs, []uint16{1, 2}) {
		t.Fatalf("registers=%v want [1 2]", regs)
	}

	if got := srv.Accepted(); got != 2 {
		t.Fatalf("accepted %d connections, want 2", got)
	}
}
