package network

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
)

// ErrTimeout is returned by Request when no reply arrived in time.
var ErrTimeout = errors.New("timed out waiting for reply")

// Send writes m to the peer on a new connection without blocking the caller.
// Failures are logged and otherwise ignored.
func (t *Transport) Send(m message.Message, to lobby.Peer) {
	address := to.Address()
	ok := t.spawn(func() {
		if err := t.outbound.Acquire(t.ctx, 1); err != nil {
			return
		}
		defer t.outbound.Release(1)
		if err := t.deliver(t.ctx, m, address); err != nil {
			t.logger.Warn("send failed", "to", address, "type", m.Type(), "err", err)
			return
		}
		t.logger.Debug("sent message", "to", address, "type", m.Type())
	})
	if !ok {
		t.logger.Warn("send on closed transport", "to", address, "type", m.Type())
	}
}

func (t *Transport) deliver(ctx context.Context, m message.Message, address string) error {
	conn, stop, err := t.dial(ctx, address)
	if err != nil {
		return err
	}
	defer stop()
	defer conn.Close()
	return message.Encode(conn, m)
}

// Request writes m to the peer on a new connection and waits for exactly one
// reply. It fails on dial, write or read errors, on a malformed reply, when
// the reply timeout expires and when ctx is done.
func (t *Transport) Request(ctx context.Context, m message.Message, to lobby.Peer) (message.Message, error) {
	address := to.Address()
	if err := t.outbound.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrapf(err, "request %s to %s", m.Type(), address)
	}
	defer t.outbound.Release(1)

	conn, stop, err := t.dial(ctx, address)
	if err != nil {
		return nil, err
	}
	defer stop()
	defer conn.Close()
	if err := message.Encode(conn, m); err != nil {
		return nil, t.classify(ctx, err, address)
	}
	reply, err := message.Decode(conn)
	if err != nil {
		return nil, t.classify(ctx, err, address)
	}
	return reply, nil
}

// dial opens a connection whose deadline is the reply timeout. The returned
// stop function detaches the connection from ctx and from the Transport
// lifetime and must be called once the connection is no longer used.
func (t *Transport) dial(ctx context.Context, address string) (net.Conn, func(), error) {
	if t.ctx.Err() != nil {
		return nil, nil, ErrClosed
	}
	deadline := time.Now().Add(t.opts.replyTimeout)
	dialer := net.Dialer{Timeout: t.opts.replyTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, nil, t.classify(ctx, err, address)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, nil, errors.Wrapf(err, "could not set deadline on %s", address)
	}
	abort := func() { conn.SetDeadline(time.Unix(1, 0)) }
	stopCtx := context.AfterFunc(ctx, abort)
	stopClose := context.AfterFunc(t.ctx, abort)
	return conn, func() {
		stopCtx()
		stopClose()
	}, nil
}

func (t *Transport) classify(ctx context.Context, err error, address string) error {
	switch {
	case t.ctx.Err() != nil:
		return errors.Wrapf(ErrClosed, "%s", address)
	case ctx.Err() != nil:
		return errors.Wrapf(ctx.Err(), "%s", address)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrapf(ErrTimeout, "%s: %v", address, err)
	}
	return errors.Wrapf(err, "%s", address)
}
