// internal/config/config.go
package config

type Config struct {
	Agent AgentConfig `yaml:"agent"`
}

type AgentConfig struct {
	Device    DeviceConfig     `yaml:"device"`
	Serial    SerialConfig     `yaml:"serial"`
	Poll      PollConfig       `yaml:"poll"`
	Registers []RegisterConfig `yaml:"registers"`
	Log       LogConfig        `yaml:"log"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	URL       string `yaml:"url"`
	SlaveID   int    `yaml:"slave_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- SERIAL (used only for serial:// URLs) ----

type SerialConfig struct {
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`
}

// ---- REGISTER TABLE ----

type RegisterConfig struct {
	Name    string `yaml:"name"`
	Address uint16 `yaml:"address"`
	Width   string `yaml:"width"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}
