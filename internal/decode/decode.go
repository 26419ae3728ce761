// internal/decode/decode.go
package decode

import (
	"errors"
	"fmt"
)

// Width selects the register class of a decode. Values match the
// protocol's bit widths on the wire.
type Width int

const (
	Bool Width = 1
	Byte Width = 8
	U16  Width = 16
	U32  Width = 32
	U64  Width = 64
)

// ErrInvalidWidth is returned for width tags outside the enum.
var ErrInvalidWidth = errors.New("decode: invalid width tag")

// ParseWidth maps a config token to a width tag.
func ParseWidth(s string) (Width, error) {
	switch s {
	case "bool":
		return Bool, nil
	case "byte":
		return Byte, nil
	case "u16":
		return U16, nil
	case "u32":
		return U32, nil
	case "u64":
		return U64, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidWidth, s)
	}
}

// Valid reports whether w is one of the enumerated width tags.
func (w Width) Valid() bool {
	switch w {
	case Bool, Byte, U16, U32, U64:
		return true
	default:
		return false
	}
}

func (w Width) String() string {
	switch w {
	case Bool:
		return "bool"
	case Byte:
		return "byte"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	default:
		return fmt.Sprintf("width(%d)", int(w))
	}
}

// Value is one decoded register. Exactly the field matching Width is
// set; values are produced fresh on every read, never cached.
type Value struct {
	Width Width

	Bool bool
	Byte uint8
	U16  uint16
	U32  uint32
	U64  uint64
}

// Reader is the borrowed transport surface the decoder reads through.
// The decoder must not retain it past a Read call.
type Reader interface {
	ReadBool(addr uint16) (bool, error)
	ReadU16(addr uint16) (uint16, error)
	ReadU32(addr uint16) (uint32, error)
	ReadU64(addr uint16) (uint64, error)
}

// Read decodes one register at addr according to the width tag.
//
// Byte is the only multi-read decode: 8 boolean registers at
// addr..addr+7 packed into one byte, bit i taken from addr+i,
// least-significant bit first. The first failed read aborts the
// sequence and is propagated as-is.
func Read(r Reader, addr uint16, w Width) (Value, error) {
	v := Value{Width: w}

	switch w {
	case Bool:
		b, err := r.ReadBool(addr)
		if err != nil {
			return Value{}, err
		}
		v.Bool = b

	case Byte:
		var bits [8]bool
		for i := range bits {
			b, err := r.ReadBool(addr + uint16(i))
			if err != nil {
				return Value{}, err
			}
			bits[i] = b
		}
		v.Byte = packBits(bits)

	case U16:
		u, err := r.ReadU16(addr)
		if err != nil {
			return Value{}, err
		}
		v.U16 = u

	case U32:
		u, err := r.ReadU32(addr)
		if err != nil {
			return Value{}, err
		}
		v.U32 = u

	case U64:
		u, err := r.ReadU64(addr)
		if err != nil {
			return Value{}, err
		}
		v.U64 = u

	default:
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidWidth, int(w))
	}

	return v, nil
}

// packBits folds 8 booleans ordered by ascending address into one
// byte, LSB first. Pure; no I/O.
func packBits(bits [8]bool) uint8 {
	var out uint8
	for i, b := range bits {
		if b {
			out |= 1 << uint(i)
		}
	}
	return out
}
