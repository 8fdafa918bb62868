// internal/fieldbus/client.go
package fieldbus

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// EndpointClient is a single TCP connection to the sync endpoint.
// It serializes requests because it mutates SlaveId per request.
// The underlying handler dials lazily, so a dropped connection is
// re-established on the next request.
type EndpointClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type Config struct {
	Endpoint string
	Timeout  time.Duration

	// Logger, when set, receives raw frame traces from the transport.
	Logger *log.Logger
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("fieldbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.Logger = cfg.Logger

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("fieldbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadRegisters reads qty holding registers starting at addr (FC 3).
func (c *EndpointClient) ReadRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		c.drop(err)
		return nil, err
	}
	regs := unpackRegisters(raw)
	if len(regs) != int(qty) {
		return nil, fmt.Errorf("fieldbus: read %d registers at %d, got %d", qty, addr, len(regs))
	}
	return regs, nil
}

// WriteRegisters writes regs starting at addr (FC 16).
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID

	qty := uint16(len(regs))
	payload := packRegisters(regs)

	if _, err := c.client.WriteMultipleRegisters(addr, qty, payload); err != nil {
		c.drop(err)
		return err
	}
	return nil
}

// drop closes the connection after a failed request unless the device
// answered with an exception, so the next request dials again.
func (c *EndpointClient) drop(err error) {
	if IsException(err) {
		return
	}
	_ = c.handler.Close()
}

// IsException reports whether err is a Modbus exception response.
func IsException(err error) bool {
	var me *modbus.ModbusError
	return errors.As(err, &me)
}

// ExceptionCode returns the exception code carried by err, or 0.
func ExceptionCode(err error) uint8 {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return me.ExceptionCode
	}
	return 0
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
