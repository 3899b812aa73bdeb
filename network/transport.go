package network

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/luca-patrignani/lobby3pc/message"
)

// ErrClosed is returned by operations attempted on a closed Transport.
var ErrClosed = errors.New("transport closed")

// Transport is the connection substrate of a single peer.
type Transport struct {
	opts     options
	listener net.Listener
	handler  message.Handler
	logger   *slog.Logger

	outbound *semaphore.Weighted
	inbound  *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Listen binds address, which usually carries port 0 so that the operating
// system picks a free one, and returns a Transport dispatching the messages
// it reads to h. The accept loop starts with Serve.
func Listen(address string, h message.Handler, opts ...Option) (*Transport, error) {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "could not listen on %s", address)
	}
	return New(l, h, opts...), nil
}

// New returns a Transport accepting connections from l.
func New(l net.Listener, h message.Handler, opts ...Option) *Transport {
	o := defaultOptions()
	for _, opt := range opts {
		o = opt(o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{
		opts:     o,
		listener: l,
		handler:  h,
		logger:   o.logger.With("listen", l.Addr().String()),
		outbound: semaphore.NewWeighted(o.maxInflight),
		inbound:  semaphore.NewWeighted(o.maxInflight),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (t *Transport) Addr() net.Addr {
	return t.listener.Addr()
}

// Port returns the TCP port the Transport accepts connections on.
func (t *Transport) Port() int {
	if addr, ok := t.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	_, port, err := net.SplitHostPort(t.listener.Addr().String())
	if err != nil {
		return 0
	}
	p, _ := strconv.Atoi(port)
	return p
}

// Serve runs the accept loop until the Transport is closed. A failing
// connection never stops the loop.
func (t *Transport) Serve() error {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if t.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			t.logger.Warn("accept failed", "err", err)
			continue
		}
		if err := t.inbound.Acquire(t.ctx, 1); err != nil {
			conn.Close()
			return nil
		}
		if !t.spawn(func() {
			defer t.inbound.Release(1)
			t.serveConn(conn)
		}) {
			t.inbound.Release(1)
			conn.Close()
			return nil
		}
	}
}

func (t *Transport) serveConn(conn net.Conn) {
	defer conn.Close()
	logger := t.logger.With("remote", conn.RemoteAddr().String())
	if err := conn.SetDeadline(time.Now().Add(t.opts.replyTimeout)); err != nil {
		logger.Warn("could not set deadline", "err", err)
		return
	}
	m, err := message.Decode(conn)
	if err != nil {
		if errors.Is(err, message.ErrUnknownType) {
			logger.Debug("dropping unknown message", "err", err)
			return
		}
		logger.Warn("read failed", "err", err)
		return
	}
	logger.Debug("received message", "type", m.Type())
	reply := message.Dispatch(t.ctx, m, t.handler)
	if reply == nil {
		return
	}
	if err := message.Encode(conn, reply); err != nil {
		logger.Warn("reply failed", "type", reply.Type(), "err", err)
	}
}

// Close stops the accept loop, cancels the pending sends and requests and
// waits for every goroutine of the Transport to return.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.cancel()
	err := t.listener.Close()
	t.wg.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// spawn runs fn in a goroutine tracked by Close. It reports false when the
// Transport is already closed.
func (t *Transport) spawn(fn func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn()
	}()
	return true
}
