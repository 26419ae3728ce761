// internal/errcode/errcode.go
package errcode

import (
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-agent/internal/decode"
	"github.com/tamzrod/modbus-agent/internal/transport"
)

// ErrNotConnected marks reads attempted without a live session.
var ErrNotConnected = errors.New("session not connected")

// From maps an error to the negative errno-style code used at the
// process boundary. nil maps to 0. The mapping is best-effort: errors
// that carry no recognizable cause collapse to -EIO.
func From(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, transport.ErrInvalidAddress),
		errors.Is(err, transport.ErrInvalidSlave),
		errors.Is(err, decode.ErrInvalidWidth):
		return -int(syscall.EINVAL)
	case errors.Is(err, ErrNotConnected):
		return -int(syscall.ENOTCONN)
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return -int(errno)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return -int(syscall.ETIMEDOUT)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return -int(syscall.ETIMEDOUT)
	}

	// Device answered with a protocol exception: the exchange failed,
	// not the link.
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return -int(syscall.EBADMSG)
	}

	return -int(syscall.EIO)
}
