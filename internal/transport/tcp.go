// internal/transport/tcp.go
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/goburrow/modbus"
)

// tcpDriver is the networked variant (Modbus TCP).
type tcpDriver struct{}

func (tcpDriver) Kind() Kind { return KindTCP }

func (tcpDriver) Create(rawURL string, opts Options) (Handle, error) {
	endpoint := strings.TrimPrefix(rawURL, tcpPrefix)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: missing host:port", ErrInvalidAddress)
	}

	h := modbus.NewTCPClientHandler(endpoint)
	h.Timeout = opts.Timeout

	return &tcpHandle{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// tcpHandle wraps one goburrow TCP handler. The handler keeps its
// endpoint, so Close followed by Connect re-establishes the session.
type tcpHandle struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

func (t *tcpHandle) Connect() error {
	return t.handler.Connect()
}

func (t *tcpHandle) Close() error {
	return t.handler.Close()
}

func (t *tcpHandle) SetSlave(id int) error {
	if err := checkSlave(id); err != nil {
		return err
	}
	t.handler.SlaveId = byte(id)
	return nil
}

func (t *tcpHandle) ReadBool(addr uint16) (bool, error) {
	return readBool(t.client, addr)
}

func (t *tcpHandle) ReadU16(addr uint16) (uint16, error) {
	return readU16(t.client, addr)
}

func (t *tcpHandle) ReadU32(addr uint16) (uint32, error) {
	return readU32(t.client, addr)
}

func (t *tcpHandle) ReadU64(addr uint16) (uint64, error) {
	return readU64(t.client, addr)
}

func (t *tcpHandle) Probe() error {
	_, err := t.client.ReadCoils(0, 1)
	return probeResult(err)
}

// ---- shared read primitives (both variants sit on modbus.Client) ----

func readBool(c modbus.Client, addr uint16) (bool, error) {
	res, err := c.ReadCoils(addr, 1)
	if err != nil {
		return false, err
	}
	if len(res) < 1 {
		return false, errors.New("transport: short coil response")
	}
	return res[0]&0x01 != 0, nil
}

func readU16(c modbus.Client, addr uint16) (uint16, error) {
	res, err := c.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return 0, err
	}
	if len(res) < 2 {
		return 0, errors.New("transport: short register response")
	}
	return binary.BigEndian.Uint16(res), nil
}

func readU32(c modbus.Client, addr uint16) (uint32, error) {
	res, err := c.ReadHoldingRegisters(addr, 2)
	if err != nil {
		return 0, err
	}
	if len(res) < 4 {
		return 0, errors.New("transport: short register response")
	}
	return binary.BigEndian.Uint32(res), nil
}

func readU64(c modbus.Client, addr uint16) (uint64, error) {
	res, err := c.ReadHoldingRegisters(addr, 4)
	if err != nil {
		return 0, err
	}
	if len(res) < 8 {
		return 0, errors.New("transport: short register response")
	}
	return binary.BigEndian.Uint64(res), nil
}
