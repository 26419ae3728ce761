// internal/poller/runner.go
package poller

import (
	"context"
	"time"

	"github.com/tamzrod/modbus-agent/internal/bus"
)

// Run starts the ticker loop and publishes readings on the bus.
// Sweeps are skipped while the source is offline. No overlap.
func (p *Poller) Run(ctx context.Context, b bus.MessageBus) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.src.Online() {
				continue
			}
			for _, r := range p.SweepOnce() {
				b.Publish(bus.TopicReading, r)
			}
		}
	}
}
