// internal/poller/runner_test.go
package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tamzrod/modbus-agent/internal/bus"
)

type fakeBus struct {
	mu        sync.Mutex
	published int
}

func (b *fakeBus) Publish(topic string, msg interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published++
}

func (b *fakeBus) Subscribe(topics ...string) bus.Subscription       { return nil }
func (b *fakeBus) Unsubscribe(ch bus.Subscription, topics ...string) {}
func (b *fakeBus) Close()                                            {}

func (b *fakeBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published
}

func TestRun_SkipsWhileOffline(t *testing.T) {
	src := &fakeSource{online: false}
	fb := &fakeBus{}

	p, err := New(Config{Interval: 5 * time.Millisecond, Registers: testRegisters()}, src)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx, fb)

	time.Sleep(40 * time.Millisecond)
	if got := fb.count(); got != 0 {
		t.Fatalf("expected no publishes while offline, got %d", got)
	}

	src.setOnline(true)
	time.Sleep(40 * time.Millisecond)
	if got := fb.count(); got == 0 {
		t.Fatal("expected publishes once online")
	}
}
