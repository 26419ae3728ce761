// internal/transport/rtu.go
package transport

import (
	"fmt"
	"strings"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
)

// rtuDriver is the serial variant (Modbus RTU).
type rtuDriver struct{}

func (rtuDriver) Kind() Kind { return KindRTU }

func (rtuDriver) Create(rawURL string, opts Options) (Handle, error) {
	path := strings.TrimPrefix(rawURL, rtuPrefix)
	if path == "" {
		return nil, fmt.Errorf("%w: missing device path", ErrInvalidAddress)
	}

	h := modbus.NewRTUClientHandler(path)
	h.Config = serial.Config{
		Address:  path,
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		Parity:   opts.Parity,
		StopBits: opts.StopBits,
		Timeout:  opts.Timeout,
	}

	return &rtuHandle{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// rtuHandle wraps one goburrow RTU handler over a serial port.
type rtuHandle struct {
	handler *modbus.RTUClientHandler
	client  modbus.Client
}

func (r *rtuHandle) Connect() error {
	return r.handler.Connect()
}

func (r *rtuHandle) Close() error {
	return r.handler.Close()
}

func (r *rtuHandle) SetSlave(id int) error {
	if err := checkSlave(id); err != nil {
		return err
	}
	r.handler.SlaveId = byte(id)
	return nil
}

func (r *rtuHandle) ReadBool(addr uint16) (bool, error) {
	return readBool(r.client, addr)
}

func (r *rtuHandle) ReadU16(addr uint16) (uint16, error) {
	return readU16(r.client, addr)
}

func (r *rtuHandle) ReadU32(addr uint16) (uint32, error) {
	return readU32(r.client, addr)
}

func (r *rtuHandle) ReadU64(addr uint16) (uint64, error) {
	return readU64(r.client, addr)
}

func (r *rtuHandle) Probe() error {
	_, err := r.client.ReadCoils(0, 1)
	return probeResult(err)
}
