// internal/status/status.go
package status

// Device status block layout. The layout is protocol-locked for
// consumers that mirror it into a register map; values are not
// configurable.

// SlotsPerDevice is the fixed number of slots in the status block.
const SlotsPerDevice = 8

const (
	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2

	// Slots 3-7 are reserved.
)

// Health codes.
const (
	HealthUnknown uint16 = 0
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
)

// Snapshot is the current device health truth. No logic, no memory of
// the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Encode converts a Snapshot into a full status block. No I/O.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError

	return regs
}
