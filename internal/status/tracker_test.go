// internal/status/tracker_test.go
package status

import "testing"

func TestTracker_StartsUnknown(t *testing.T) {
	tr := NewTracker()
	if tr.Snapshot().Health != HealthUnknown {
		t.Fatalf("expected unknown health, got %d", tr.Snapshot().Health)
	}
}

func TestTracker_ConnectClearsErrorState(t *testing.T) {
	tr := NewTracker()

	if !tr.Disconnected(-107) {
		t.Fatal("expected change on first failure")
	}
	tr.Tick()
	tr.Tick()

	if !tr.Connected() {
		t.Fatal("expected change on recovery")
	}
	snap := tr.Snapshot()
	if snap.Health != HealthOK || snap.LastErrorCode != 0 || snap.SecondsInError != 0 {
		t.Fatalf("expected clean snapshot, got %+v", snap)
	}

	if tr.Connected() {
		t.Fatal("repeated connect must not report a change")
	}
}

func TestTracker_FailureStoresCodeMagnitude(t *testing.T) {
	tr := NewTracker()

	tr.ReadFailed(-110)
	if got := tr.Snapshot().LastErrorCode; got != 110 {
		t.Fatalf("expected code 110, got %d", got)
	}

	// Same code again: no change.
	if tr.ReadFailed(-110) {
		t.Fatal("expected no change on repeated code")
	}
	// Different code: change.
	if !tr.ReadFailed(-5) {
		t.Fatal("expected change on new code")
	}
}

func TestTracker_TickOnlyWhileUnhealthy(t *testing.T) {
	tr := NewTracker()

	if tr.Tick() {
		t.Fatal("unknown state must not tick")
	}

	tr.Connected()
	if tr.Tick() {
		t.Fatal("healthy state must not tick")
	}

	tr.Disconnected(-107)
	if !tr.Tick() || !tr.Tick() {
		t.Fatal("error state must tick")
	}
	if got := tr.Snapshot().SecondsInError; got != 2 {
		t.Fatalf("expected 2 seconds in error, got %d", got)
	}
}

func TestEncode_Layout(t *testing.T) {
	regs := Encode(Snapshot{Health: HealthError, LastErrorCode: 110, SecondsInError: 42})

	if len(regs) != SlotsPerDevice {
		t.Fatalf("expected %d slots, got %d", SlotsPerDevice, len(regs))
	}
	if regs[SlotHealthCode] != HealthError {
		t.Fatalf("health slot=%d", regs[SlotHealthCode])
	}
	if regs[SlotLastErrorCode] != 110 {
		t.Fatalf("error code slot=%d", regs[SlotLastErrorCode])
	}
	if regs[SlotSecondsInError] != 42 {
		t.Fatalf("seconds slot=%d", regs[SlotSecondsInError])
	}
}
