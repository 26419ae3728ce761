// internal/bus/topics.go
package bus

const (
	TopicConnStatus   = "conn.status"
	TopicReading      = "register.reading"
	TopicDeviceStatus = "device.status"
)
