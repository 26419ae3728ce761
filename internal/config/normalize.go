// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultTimeoutMs  = 1000
	DefaultIntervalMs = 1000
	DefaultBaudRate   = 115200
	DefaultDataBits   = 8
	DefaultParity     = "N"
	DefaultStopBits   = 1
	DefaultLogLevel   = "info"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	a := &cfg.Agent

	if a.Device.TimeoutMs == 0 {
		a.Device.TimeoutMs = DefaultTimeoutMs
	}
	if a.Poll.IntervalMs == 0 {
		a.Poll.IntervalMs = DefaultIntervalMs
	}

	if a.Serial.BaudRate == 0 {
		a.Serial.BaudRate = DefaultBaudRate
	}
	if a.Serial.DataBits == 0 {
		a.Serial.DataBits = DefaultDataBits
	}
	if a.Serial.Parity == "" {
		a.Serial.Parity = DefaultParity
	}
	if a.Serial.StopBits == 0 {
		a.Serial.StopBits = DefaultStopBits
	}

	if a.Log.Level == "" {
		a.Log.Level = DefaultLogLevel
	}
}
