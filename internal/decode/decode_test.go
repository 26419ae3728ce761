// internal/decode/decode_test.go
package decode

import (
	"errors"
	"testing"
)

type fakeReader struct {
	bits    map[uint16]bool
	u16     uint16
	u32     uint32
	u64     uint64
	failAt  int // fail the Nth call (1-based), 0 = never
	calls   int
	lastErr error
}

func (f *fakeReader) tick() error {
	f.calls++
	if f.failAt != 0 && f.calls >= f.failAt {
		f.lastErr = errors.New("read failed")
		return f.lastErr
	}
	return nil
}

func (f *fakeReader) ReadBool(addr uint16) (bool, error) {
	if err := f.tick(); err != nil {
		return false, err
	}
	return f.bits[addr], nil
}

func (f *fakeReader) ReadU16(addr uint16) (uint16, error) {
	if err := f.tick(); err != nil {
		return 0, err
	}
	return f.u16, nil
}

func (f *fakeReader) ReadU32(addr uint16) (uint32, error) {
	if err := f.tick(); err != nil {
		return 0, err
	}
	return f.u32, nil
}

func (f *fakeReader) ReadU64(addr uint16) (uint64, error) {
	if err := f.tick(); err != nil {
		return 0, err
	}
	return f.u64, nil
}

func TestRead_Bool(t *testing.T) {
	r := &fakeReader{bits: map[uint16]bool{7: true}}

	v, err := Read(r, 7, Bool)
	if err != nil {
		t.Fatalf("Read() err=%v", err)
	}
	if v.Width != Bool || !v.Bool {
		t.Fatalf("expected true bool, got %+v", v)
	}
	if r.calls != 1 {
		t.Fatalf("expected 1 read, got %d", r.calls)
	}
}

func TestRead_BytePacksLSBFirst(t *testing.T) {
	// Coils 100..107 hold 1,0,1,0,0,0,0,0 in address order.
	r := &fakeReader{bits: map[uint16]bool{100: true, 102: true}}

	v, err := Read(r, 100, Byte)
	if err != nil {
		t.Fatalf("Read() err=%v", err)
	}
	if v.Byte != 0b00000101 {
		t.Fatalf("expected 0b00000101, got %#08b", v.Byte)
	}
	if r.calls != 8 {
		t.Fatalf("expected 8 reads, got %d", r.calls)
	}
}

func TestRead_ByteAbortsOnFirstError(t *testing.T) {
	r := &fakeReader{failAt: 3}

	_, err := Read(r, 0, Byte)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, r.lastErr) {
		t.Fatalf("expected propagated read error, got %v", err)
	}
	if r.calls != 3 {
		t.Fatalf("expected 3 reads before abort, got %d", r.calls)
	}
}

func TestRead_Unsigned(t *testing.T) {
	r := &fakeReader{u16: 0xBEEF, u32: 0xDEADBEEF, u64: 0x0102030405060708}

	v, err := Read(r, 0, U16)
	if err != nil || v.U16 != 0xBEEF {
		t.Fatalf("u16: v=%+v err=%v", v, err)
	}
	v, err = Read(r, 0, U32)
	if err != nil || v.U32 != 0xDEADBEEF {
		t.Fatalf("u32: v=%+v err=%v", v, err)
	}
	v, err = Read(r, 0, U64)
	if err != nil || v.U64 != 0x0102030405060708 {
		t.Fatalf("u64: v=%+v err=%v", v, err)
	}
}

func TestRead_InvalidWidth(t *testing.T) {
	r := &fakeReader{}

	_, err := Read(r, 0, Width(7))
	if !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("expected ErrInvalidWidth, got %v", err)
	}
	if r.calls != 0 {
		t.Fatalf("expected no transport calls, got %d", r.calls)
	}
}

func TestParseWidth(t *testing.T) {
	cases := map[string]Width{
		"bool": Bool,
		"byte": Byte,
		"u16":  U16,
		"u32":  U32,
		"u64":  U64,
	}
	for s, want := range cases {
		got, err := ParseWidth(s)
		if err != nil || got != want {
			t.Fatalf("ParseWidth(%q)=%v err=%v, want %v", s, got, err, want)
		}
	}

	if _, err := ParseWidth("i16"); !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("ParseWidth(i16) err=%v, want ErrInvalidWidth", err)
	}
}

func TestPackBits(t *testing.T) {
	if got := packBits([8]bool{}); got != 0 {
		t.Fatalf("all-zero pack=%#x", got)
	}
	if got := packBits([8]bool{true, true, true, true, true, true, true, true}); got != 0xFF {
		t.Fatalf("all-one pack=%#x", got)
	}
	// Bit i mirrors position i, LSB first.
	for i := 0; i < 8; i++ {
		var bits [8]bool
		bits[i] = true
		if got := packBits(bits); got != 1<<uint(i) {
			t.Fatalf("bit %d pack=%#x, want %#x", i, got, 1<<uint(i))
		}
	}
}
