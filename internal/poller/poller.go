// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/modbus-agent/internal/bus"
	"github.com/tamzrod/modbus-agent/internal/decode"
)

// Source abstracts the connected session the poller reads through.
type Source interface {
	Online() bool
	Read(addr uint16, w decode.Width) (decode.Value, error)
}

// Register describes one configured register to sweep.
type Register struct {
	Name    string
	Address uint16
	Width   decode.Width
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval  time.Duration
	Registers []Register
}

// Poller is a dumb, clock-driven reader. Retry policy lives in the
// session; the poller just skips sweeps while the link is down.
type Poller struct {
	cfg Config
	src Source
}

// New creates a poller with immutable config.
func New(cfg Config, src Source) (*Poller, error) {
	if src == nil {
		return nil, errors.New("poller: source required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Registers) == 0 {
		return nil, errors.New("poller: at least one register required")
	}
	return &Poller{cfg: cfg, src: src}, nil
}

// SweepOnce reads every configured register once. Per-register errors
// are reported inside the readings; they do not abort the sweep.
func (p *Poller) SweepOnce() []bus.Reading {
	out := make([]bus.Reading, 0, len(p.cfg.Registers))

	for _, reg := range p.cfg.Registers {
		r := bus.Reading{
			Name:    reg.Name,
			Address: reg.Address,
			At:      time.Now(),
		}
		r.Value, r.Err = p.src.Read(reg.Address, reg.Width)
		out = append(out, r)
	}

	return out
}
