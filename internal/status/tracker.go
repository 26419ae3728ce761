// internal/status/tracker.go
package status

// Tracker folds session events into a health snapshot. Each method
// reports whether the snapshot changed so the caller can publish only
// on transitions. Seconds-in-error increments on the caller's 1 Hz
// tick only, never on the events themselves.
type Tracker struct {
	snap Snapshot
}

func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// Snapshot returns the current health truth.
func (t *Tracker) Snapshot() Snapshot {
	return t.snap
}

// Connected marks the device healthy and clears error state.
func (t *Tracker) Connected() bool {
	changed := false
	if t.snap.Health != HealthOK {
		t.snap.Health = HealthOK
		changed = true
	}
	if t.snap.LastErrorCode != 0 {
		t.snap.LastErrorCode = 0
		changed = true
	}
	if t.snap.SecondsInError != 0 {
		t.snap.SecondsInError = 0
		changed = true
	}
	return changed
}

// Disconnected marks the device in error with the given boundary code.
// code is the negative errno-style code; its magnitude is stored.
func (t *Tracker) Disconnected(code int) bool {
	return t.fail(code)
}

// ReadFailed records a failed register read without changing the
// connection state handling: a read failure while connected still
// means the device is not delivering data.
func (t *Tracker) ReadFailed(code int) bool {
	return t.fail(code)
}

func (t *Tracker) fail(code int) bool {
	if code < 0 {
		code = -code
	}
	if code > 65535 {
		code = 65535
	}

	changed := false
	if t.snap.Health != HealthError {
		t.snap.Health = HealthError
		changed = true
	}
	if t.snap.LastErrorCode != uint16(code) {
		t.snap.LastErrorCode = uint16(code)
		changed = true
	}
	return changed
}

// Tick advances seconds-in-error while unhealthy. Saturates at 65535.
func (t *Tracker) Tick() bool {
	if t.snap.Health == HealthOK || t.snap.Health == HealthUnknown {
		return false
	}
	if t.snap.SecondsInError == 65535 {
		return false
	}
	t.snap.SecondsInError++
	return true
}
