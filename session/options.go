package session

import (
	"io"
	"log/slog"

	"github.com/luca-patrignani/lobby3pc/consensus"
	"github.com/luca-patrignani/lobby3pc/network"
)

type options struct {
	logger           *slog.Logger
	listener         Listener
	transportOptions []network.Option
	consensusOptions []consensus.Option
}

type Option func(options) options

func defaultOptions() options {
	return options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		listener: NopListener{},
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o options) options {
		o.logger = logger
		return o
	}
}

func WithListener(l Listener) Option {
	return func(o options) options {
		if l != nil {
			o.listener = l
		}
		return o
	}
}

// WithTransportOptions configures the connection substrate of the Session.
func WithTransportOptions(opts ...network.Option) Option {
	return func(o options) options {
		o.transportOptions = append(o.transportOptions, opts...)
		return o
	}
}

// WithConsensusOptions configures the Coordinator run when the Session hosts
// its lobby.
func WithConsensusOptions(opts ...consensus.Option) Option {
	return func(o options) options {
		o.consensusOptions = append(o.consensusOptions, opts...)
		return o
	}
}
