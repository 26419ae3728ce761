// internal/transport/transport.go
package transport

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goburrow/modbus"
)

const (
	tcpPrefix = "tcp://"
	rtuPrefix = "serial://"
)

// Kind identifies the transport variant behind a device URL.
type Kind string

const (
	KindTCP Kind = "tcp"
	KindRTU Kind = "rtu"
)

// ErrInvalidAddress is returned for device URLs with an unknown scheme.
var ErrInvalidAddress = errors.New("transport: invalid device address")

// ErrInvalidSlave is returned for slave ids outside the protocol range.
var ErrInvalidSlave = errors.New("transport: slave id out of range")

// Options carries transport tuning shared by both variants.
// Serial settings are ignored by the TCP driver.
type Options struct {
	Timeout time.Duration

	BaudRate int
	DataBits int
	Parity   string
	StopBits int
}

// Driver builds handles for one transport variant.
// Create allocates connection state only; it performs no network I/O.
type Driver interface {
	Kind() Kind
	Create(rawURL string, opts Options) (Handle, error)
}

// Handle is one device connection. Close ends the session but the
// handle stays usable: the next Connect re-establishes the link.
// Handles are not safe for concurrent use; the session serializes access.
type Handle interface {
	Connect() error
	Close() error
	SetSlave(id int) error

	ReadBool(addr uint16) (bool, error)
	ReadU16(addr uint16) (uint16, error)
	ReadU32(addr uint16) (uint32, error)
	ReadU64(addr uint16) (uint64, error)

	// Probe checks link liveness with a minimal request. A Modbus
	// exception response counts as alive: the device answered.
	Probe() error
}

// Select classifies a device URL by scheme.
// "tcp://host:port" selects the networked driver, "serial://path" the
// serial one. Runs once per session, at start.
func Select(rawURL string) (Driver, error) {
	switch {
	case strings.HasPrefix(rawURL, tcpPrefix):
		return tcpDriver{}, nil
	case strings.HasPrefix(rawURL, rtuPrefix):
		return rtuDriver{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, rawURL)
	}
}

// checkSlave validates the protocol slave id range (broadcast excluded
// on read paths is the device's business; 0 is accepted as-is).
func checkSlave(id int) error {
	if id < 0 || id > 247 {
		return ErrInvalidSlave
	}
	return nil
}

// probeResult classifies a probe error. Exception responses prove the
// device answered, so the link is alive.
func probeResult(err error) error {
	if err == nil {
		return nil
	}
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return nil
	}
	return err
}
