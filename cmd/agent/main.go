// cmd/agent/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-agent/internal/bus"
	"github.com/tamzrod/modbus-agent/internal/config"
	"github.com/tamzrod/modbus-agent/internal/decode"
	"github.com/tamzrod/modbus-agent/internal/errcode"
	"github.com/tamzrod/modbus-agent/internal/poller"
	"github.com/tamzrod/modbus-agent/internal/session"
	"github.com/tamzrod/modbus-agent/internal/status"
	"github.com/tamzrod/modbus-agent/internal/transport"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: agent <config.yaml>")
		os.Exit(1)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	logger := initLogger(cfg.Agent.Log.Level)

	ctx, stopSignals := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	// --------------------
	// Bus + session
	// --------------------

	b := bus.New(logger.With().Str("component", "bus").Logger())
	defer b.Close()

	target := cfg.Agent.Device.URL

	obs := session.ObserverFuncs{
		OnConnected: func() {
			b.Publish(bus.TopicConnStatus, bus.ConnectionStatus{
				State:     session.StateConnected,
				Target:    target,
				Timestamp: time.Now(),
			})
		},
		OnDisconnected: func() {
			b.Publish(bus.TopicConnStatus, bus.ConnectionStatus{
				State:     session.StateConnecting,
				Target:    target,
				Timestamp: time.Now(),
			})
		},
	}

	sess, err := session.Start(session.Config{
		URL:     target,
		SlaveID: cfg.Agent.Device.SlaveID,
		Transport: transport.Options{
			Timeout:  time.Duration(cfg.Agent.Device.TimeoutMs) * time.Millisecond,
			BaudRate: cfg.Agent.Serial.BaudRate,
			DataBits: cfg.Agent.Serial.DataBits,
			Parity:   cfg.Agent.Serial.Parity,
			StopBits: cfg.Agent.Serial.StopBits,
		},
		Logger: logger.With().Str("component", "session").Logger(),
	}, obs)
	if err != nil {
		logger.Error().Err(err).
			Int("code", errcode.From(err)).
			Msg("failed to start the device session, exiting")
		os.Exit(1)
	}
	defer sess.Stop()

	// --------------------
	// Register sweep (optional)
	// --------------------

	if len(cfg.Agent.Registers) > 0 {
		regs := make([]poller.Register, 0, len(cfg.Agent.Registers))
		for _, r := range cfg.Agent.Registers {
			w, err := decode.ParseWidth(r.Width)
			if err != nil {
				logger.Fatal().Err(err).Str("register", r.Name).Msg("bad register width")
			}
			regs = append(regs, poller.Register{
				Name:    r.Name,
				Address: r.Address,
				Width:   w,
			})
		}

		p, err := poller.New(poller.Config{
			Interval:  time.Duration(cfg.Agent.Poll.IntervalMs) * time.Millisecond,
			Registers: regs,
		}, sess)
		if err != nil {
			logger.Fatal().Err(err).Msg("poller build failed")
		}
		go p.Run(ctx, b)
	}

	// Device health orchestrator (tracker-owned state + 1Hz seconds ticker)
	go trackStatus(ctx, b, logger.With().Str("component", "status").Logger())

	<-ctx.Done()
	logger.Info().Msg("terminate")
}

// trackStatus folds bus events into the device status block and
// republishes it on every transition.
func trackStatus(ctx context.Context, b bus.MessageBus, log zerolog.Logger) {
	tr := status.NewTracker()

	sub := b.Subscribe(bus.TopicConnStatus, bus.TopicReading)

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	publish := func() {
		snap := tr.Snapshot()
		log.Debug().
			Uint16("health", snap.Health).
			Uint16("last_error", snap.LastErrorCode).
			Uint16("seconds_in_error", snap.SecondsInError).
			Msg("device status")
		b.Publish(bus.TopicDeviceStatus, snap)
	}

	// Default snapshot state on start.
	publish()

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-sub:
			switch ev := msg.(type) {
			case bus.ConnectionStatus:
				if ev.State == session.StateConnected {
					if tr.Connected() {
						publish()
					}
				} else {
					if tr.Disconnected(-int(syscall.ENOTCONN)) {
						publish()
					}
				}

			case bus.Reading:
				if ev.Err != nil {
					if tr.ReadFailed(errcode.From(ev.Err)) {
						publish()
					}
				} else if tr.Connected() {
					// Recovery / OK
					publish()
				}
			}

		case <-secTicker.C:
			// Tick 1 Hz while not OK.
			if tr.Tick() {
				publish()
			}
		}
	}
}

func initLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).
		With().Timestamp().Str("app", "modbus-agent").Logger()
}
