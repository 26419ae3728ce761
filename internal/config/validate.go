// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/modbus-agent/internal/decode"
	"github.com/tamzrod/modbus-agent/internal/transport"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	dev := cfg.Agent.Device

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if dev.URL == "" {
		return fmt.Errorf("device: url is required")
	}
	drv, err := transport.Select(dev.URL)
	if err != nil {
		return fmt.Errorf("device: %w", err)
	}

	if dev.SlaveID < 0 || dev.SlaveID > 247 {
		return fmt.Errorf("device: slave_id %d out of range 0-247", dev.SlaveID)
	}

	if dev.TimeoutMs < 0 {
		return fmt.Errorf("device: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// SERIAL (only meaningful for the serial transport)
	// ------------------------------------------------------------

	if drv.Kind() == transport.KindRTU {
		s := cfg.Agent.Serial
		if s.BaudRate < 0 {
			return fmt.Errorf("serial: baud_rate must be >= 0")
		}
		if s.Parity != "" && s.Parity != "N" && s.Parity != "E" && s.Parity != "O" {
			return fmt.Errorf("serial: parity must be one of N, E, O")
		}
		if s.DataBits != 0 && (s.DataBits < 5 || s.DataBits > 8) {
			return fmt.Errorf("serial: data_bits must be 5-8")
		}
		if s.StopBits != 0 && s.StopBits != 1 && s.StopBits != 2 {
			return fmt.Errorf("serial: stop_bits must be 1 or 2")
		}
	}

	// ------------------------------------------------------------
	// REGISTER TABLE
	// ------------------------------------------------------------

	if len(cfg.Agent.Registers) > 0 && cfg.Agent.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll: interval_ms must be >= 0")
	}

	names := make(map[string]struct{}, len(cfg.Agent.Registers))

	for _, r := range cfg.Agent.Registers {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("registers: name is required")
		}
		if _, dup := names[r.Name]; dup {
			return fmt.Errorf("registers: duplicate name %q", r.Name)
		}
		names[r.Name] = struct{}{}

		w, err := decode.ParseWidth(r.Width)
		if err != nil {
			return fmt.Errorf("registers: %q: %w", r.Name, err)
		}

		// A byte decode spans 8 coil addresses.
		if w == decode.Byte && r.Address > 0xFFFF-7 {
			return fmt.Errorf(
				"registers: %q: byte read at %d overruns the address space",
				r.Name, r.Address,
			)
		}
	}

	return nil
}
