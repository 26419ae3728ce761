// internal/bus/events.go
package bus

import (
	"time"

	"github.com/tamzrod/modbus-agent/internal/decode"
	"github.com/tamzrod/modbus-agent/internal/session"
)

// ConnectionStatus is a snapshot of the device link published on
// TopicConnStatus whenever the session changes state.
type ConnectionStatus struct {
	State     session.State
	Target    string
	Timestamp time.Time
}

// Reading is one decoded register sweep entry published on
// TopicReading. Err is set when the read failed; Value is then zero.
type Reading struct {
	Name    string
	Address uint16
	Value   decode.Value
	Err     error
	At      time.Time
}
