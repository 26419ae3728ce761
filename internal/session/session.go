// internal/session/session.go
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-agent/internal/decode"
	"github.com/tamzrod/modbus-agent/internal/errcode"
	"github.com/tamzrod/modbus-agent/internal/transport"
)

// State is the connection lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Timing defaults. The 1 ms first attempt lets Start return before any
// network I/O happens; the fixed 5 s backoff bounds retry pressure on
// the device. Retries are unbounded until Stop.
const (
	DefaultInitialDelay  = time.Millisecond
	DefaultReconnectWait = 5 * time.Second
	DefaultWatchInterval = time.Second
)

// Observer receives lifecycle notifications. Pure signals: no error
// payload, transient failures are absorbed by the retry loop.
type Observer interface {
	Connected()
	Disconnected()
}

// ObserverFuncs adapts bare functions to Observer. Nil funcs are no-ops.
type ObserverFuncs struct {
	OnConnected    func()
	OnDisconnected func()
}

func (o ObserverFuncs) Connected() {
	if o.OnConnected != nil {
		o.OnConnected()
	}
}

func (o ObserverFuncs) Disconnected() {
	if o.OnDisconnected != nil {
		o.OnDisconnected()
	}
}

// Config is the immutable session configuration.
type Config struct {
	URL     string
	SlaveID int

	Transport transport.Options

	// Zero values take the package defaults.
	InitialDelay  time.Duration
	ReconnectWait time.Duration
	WatchInterval time.Duration

	Logger zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.InitialDelay <= 0 {
		c.InitialDelay = DefaultInitialDelay
	}
	if c.ReconnectWait <= 0 {
		c.ReconnectWait = DefaultReconnectWait
	}
	if c.WatchInterval <= 0 {
		c.WatchInterval = DefaultWatchInterval
	}
	return c
}

// Session owns exactly one transport handle and keeps it connected
// until Stop. The transport variant is fixed at Start.
type Session struct {
	cfg Config
	log zerolog.Logger
	obs Observer

	// ioMu serializes all handle I/O: goburrow clients are not safe
	// for concurrent use.
	ioMu sync.Mutex

	mu       sync.Mutex
	state    State
	stopped  bool
	handle   transport.Handle
	gen      uint64
	watchEnd chan struct{}

	timer    *time.Timer
	lost     chan uint64
	done     chan struct{}
	stopOnce sync.Once
}

// selectTransport is swapped for a fake in tests.
var selectTransport = transport.Select

// Start selects the transport variant from cfg.URL, creates the handle
// and binds the slave id, then arms the first connect attempt and
// returns without blocking on network I/O. Configuration failures are
// returned immediately with nothing armed.
func Start(cfg Config, obs Observer) (*Session, error) {
	cfg = cfg.withDefaults()

	drv, err := selectTransport(cfg.URL)
	if err != nil {
		return nil, err
	}

	h, err := drv.Create(cfg.URL, cfg.Transport)
	if err != nil {
		return nil, err
	}

	if err := h.SetSlave(cfg.SlaveID); err != nil {
		_ = h.Close()
		return nil, err
	}

	if obs == nil {
		obs = ObserverFuncs{}
	}

	s := &Session{
		cfg:    cfg,
		log:    cfg.Logger.With().Str("transport", string(drv.Kind())).Logger(),
		obs:    obs,
		state:  StateConnecting,
		handle: h,
		timer:  time.NewTimer(cfg.InitialDelay),
		lost:   make(chan uint64, 1),
		done:   make(chan struct{}),
	}

	go s.run()

	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	if s == nil {
		return StateDisconnected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Online reports whether the session currently holds a live connection.
func (s *Session) Online() bool {
	return s.State() == StateConnected
}

// Read decodes one register while connected. The handle is borrowed
// for the duration of the decode only; the decoder never retries.
func (s *Session) Read(addr uint16, w decode.Width) (decode.Value, error) {
	if !w.Valid() {
		return decode.Value{}, fmt.Errorf("%w: %d", decode.ErrInvalidWidth, int(w))
	}

	if s == nil {
		return decode.Value{}, errcode.ErrNotConnected
	}

	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return decode.Value{}, errcode.ErrNotConnected
	}
	h := s.handle
	s.mu.Unlock()

	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	return decode.Read(h, addr, w)
}

// Stop tears down whichever of timer, watch and handle currently
// exist. Idempotent and nil-safe; it only prevents future scheduled
// work, an in-flight blocking exchange is not preempted.
func (s *Session) Stop() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		s.stopped = true
		s.state = StateDisconnected
		s.timer.Stop()
		s.stopWatchLocked()
		h := s.handle
		s.handle = nil
		s.mu.Unlock()

		if h != nil {
			s.ioMu.Lock()
			_ = h.Close()
			s.ioMu.Unlock()
		}

		s.log.Info().Msg("session stopped")
	})
}

// run is the session event loop: timer fires drive connect attempts,
// lost signals drive disconnect handling.
func (s *Session) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.timer.C:
			s.attemptConnect()
		case gen := <-s.lost:
			s.linkLost(gen)
		}
	}
}

func (s *Session) attemptConnect() {
	s.mu.Lock()
	if s.stopped || s.state != StateConnecting {
		s.mu.Unlock()
		return
	}
	h := s.handle
	s.mu.Unlock()

	s.log.Debug().Msg("trying to connect")

	s.ioMu.Lock()
	err := h.Connect()
	s.ioMu.Unlock()

	if err != nil {
		s.log.Error().Err(err).
			Dur("retry_in", s.cfg.ReconnectWait).
			Msg("connect failed")
		s.timer.Reset(s.cfg.ReconnectWait)
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.state = StateConnected
	s.gen++
	gen := s.gen
	end := make(chan struct{})
	s.watchEnd = end
	s.mu.Unlock()

	go s.watch(h, gen, end)

	s.log.Info().Msg("connected")
	s.obs.Connected()
}

func (s *Session) linkLost(gen uint64) {
	s.mu.Lock()
	if s.stopped || s.state != StateConnected || gen != s.gen {
		// Stale signal from a watch that was already replaced.
		s.mu.Unlock()
		return
	}
	s.stopWatchLocked()
	s.state = StateConnecting
	h := s.handle
	s.mu.Unlock()

	s.ioMu.Lock()
	_ = h.Close()
	s.ioMu.Unlock()

	s.log.Warn().
		Dur("retry_in", s.cfg.ReconnectWait).
		Msg("connection lost")
	s.obs.Disconnected()

	s.timer.Reset(s.cfg.ReconnectWait)
}

// watch probes the link at a fixed cadence and reports the first
// transport-level failure, then exits. Reporting once is what keeps a
// burst of failures from producing duplicate disconnect events.
func (s *Session) watch(h transport.Handle, gen uint64, end <-chan struct{}) {
	t := time.NewTicker(s.cfg.WatchInterval)
	defer t.Stop()

	for {
		select {
		case <-end:
			return
		case <-t.C:
			s.ioMu.Lock()
			err := h.Probe()
			s.ioMu.Unlock()
			if err != nil {
				select {
				case s.lost <- gen:
				default:
				}
				return
			}
		}
	}
}

func (s *Session) stopWatchLocked() {
	if s.watchEnd != nil {
		close(s.watchEnd)
		s.watchEnd = nil
	}
}
