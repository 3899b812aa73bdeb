package consensus

import (
	"io"
	"log/slog"

	"k8s.io/utils/clock"
)

// DefaultMailboxSize is the number of proposals a Coordinator queues before
// Submit blocks.
const DefaultMailboxSize = 128

type options struct {
	logger      *slog.Logger
	clock       clock.PassiveClock
	mailboxSize int
	observer    func(Outcome)
}

type Option func(options) options

func defaultOptions() options {
	return options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:       clock.RealClock{},
		mailboxSize: DefaultMailboxSize,
		observer:    func(Outcome) {},
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o options) options {
		o.logger = logger
		return o
	}
}

// WithClock sets the clock used to time the rounds.
func WithClock(c clock.PassiveClock) Option {
	return func(o options) options {
		o.clock = c
		return o
	}
}

func WithMailboxSize(n int) Option {
	return func(o options) options {
		if n > 0 {
			o.mailboxSize = n
		}
		return o
	}
}

// WithObserver registers a function called with the Outcome of every
// proposal, from the goroutine executing Run.
func WithObserver(observer func(Outcome)) Option {
	return func(o options) options {
		if observer != nil {
			o.observer = observer
		}
		return o
	}
}
