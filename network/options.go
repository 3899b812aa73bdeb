package network

import (
	"io"
	"log/slog"
	"time"
)

const (
	// DefaultReplyTimeout bounds both the dial and the wait for a reply.
	DefaultReplyTimeout = 3000 * time.Millisecond
	// DefaultMaxInflight bounds the outbound connections and, separately, the
	// inbound handlers running at the same time.
	DefaultMaxInflight = 64
)

type options struct {
	replyTimeout time.Duration
	maxInflight  int64
	logger       *slog.Logger
}

type Option func(options) options

func defaultOptions() options {
	return options{
		replyTimeout: DefaultReplyTimeout,
		maxInflight:  DefaultMaxInflight,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithReplyTimeout sets how long a Request waits for its reply. Non positive
// values keep the default.
func WithReplyTimeout(timeout time.Duration) Option {
	return func(o options) options {
		if timeout > 0 {
			o.replyTimeout = timeout
		}
		return o
	}
}

func WithMaxInflight(n int) Option {
	return func(o options) options {
		if n > 0 {
			o.maxInflight = int64(n)
		}
		return o
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o options) options {
		o.logger = logger
		return o
	}
}
