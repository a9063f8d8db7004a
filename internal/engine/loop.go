package engine

import (
	"context"
	"time"

	"github.com/leandrodaf/midisteno/internal/hand"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// DefaultPollInterval bounds how late a timeout is noticed. It must stay
// well below both the chord and silence thresholds.
const DefaultPollInterval = 10 * time.Millisecond

// Command is an administrative action delivered to the control loop.
type Command int

const (
	CommandCalibrate Command = iota
	CommandClearLayout
	CommandFlush
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandCalibrate:
		return "calibrate"
	case CommandClearLayout:
		return "clear-layout"
	case CommandFlush:
		return "flush"
	case CommandQuit:
		return "quit"
	}
	return "unknown"
}

// LayoutStore persists the hand layout between sessions.
type LayoutStore interface {
	LoadLayout(ctx context.Context) (hand.Layout, bool, error)
	SaveLayout(ctx context.Context, l hand.Layout) error
}

// Loop drives an Engine from a single goroutine.
type Loop struct {
	Engine      *Engine
	Logger      contracts.Logger
	Events      <-chan contracts.RawEvent
	Commands    <-chan Command
	Store       LayoutStore // Optional.
	Poll        time.Duration
	Now         func() time.Time
	FlushOnExit bool
}

// Run processes events until ctx is cancelled, a quit command arrives or the
// event channel closes. The layout is restored before the first event and
// saved after the last.
func (l *Loop) Run(ctx context.Context) error {
	poll := l.Poll
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}

	commands := l.Commands

	l.restoreLayout(ctx)
	defer l.saveLayout()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.shutdown("context cancelled")
			return ctx.Err()
		case ev, ok := <-l.Events:
			if !ok {
				l.shutdown("input closed")
				return nil
			}
			l.Engine.HandleEvent(ev)
			l.drainEvents()
		case cmd, ok := <-commands:
			if !ok {
				// A nil channel blocks, leaving events and ticks to drive the loop.
				commands = nil
				continue
			}
			if l.apply(cmd) {
				l.shutdown("quit requested")
				return nil
			}
		case <-ticker.C:
		}
		l.Engine.Tick(now())
	}
}

// drainEvents handles everything already queued without blocking.
func (l *Loop) drainEvents() {
	for {
		select {
		case ev, ok := <-l.Events:
			if !ok {
				return
			}
			l.Engine.HandleEvent(ev)
		default:
			return
		}
	}
}

func (l *Loop) apply(cmd Command) (quit bool) {
	l.Logger.Info("Command received", l.Logger.Field().String("command", cmd.String()))
	switch cmd {
	case CommandCalibrate:
		l.Engine.StartCalibration()
	case CommandClearLayout:
		l.Engine.ClearLayout()
	case CommandFlush:
		l.Engine.Flush()
	case CommandQuit:
		return true
	}
	return false
}

func (l *Loop) shutdown(reason string) {
	if l.FlushOnExit {
		l.Engine.Flush()
	} else if n := l.Engine.Pending(); n > 0 {
		l.Logger.Info("Discarding unsent symbols", l.Logger.Field().Int("symbols", n))
	}
	l.Logger.Info("Control loop stopped", l.Logger.Field().String("reason", reason))
}

func (l *Loop) restoreLayout(ctx context.Context) {
	if l.Store == nil {
		return
	}
	layout, found, err := l.Store.LoadLayout(ctx)
	if err != nil {
		l.Logger.Warn("Failed to load hand layout; using defaults", l.Logger.Field().Error("error", err))
		return
	}
	if !found {
		l.Logger.Info("No saved hand layout; using defaults")
		return
	}
	if err := l.Engine.UseLayout(layout); err != nil {
		l.Logger.Warn("Saved hand layout is invalid; using defaults", l.Logger.Field().Error("error", err))
		return
	}
	l.Logger.Info("Hand layout restored",
		l.Logger.Field().Ints("left", layout.Left[:]),
		l.Logger.Field().Ints("right", layout.Right[:]))
}

func (l *Loop) saveLayout() {
	if l.Store == nil {
		return
	}
	// The run context is usually cancelled by now.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.Store.SaveLayout(ctx, l.Engine.Layout()); err != nil {
		l.Logger.Error("Failed to save hand layout", l.Logger.Field().Error("error", err))
	}
}
