package consensus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
)

var (
	// ErrStopped is returned by Submit once Run has returned.
	ErrStopped = errors.New("coordinator stopped")
	// ErrRunning is returned by Run when the Coordinator is already running.
	ErrRunning = errors.New("coordinator already running")
	// ErrRejected means a participant answered a phase with anything but Ack.
	ErrRejected = errors.New("participant did not acknowledge")
)

// Coordinator drives the three-phase commit of the proposals submitted to the
// host of a lobby.
type Coordinator struct {
	self      lobby.Peer
	roster    Roster
	requester Requester
	applier   StateApplier
	opts      options
	logger    *slog.Logger

	mailbox chan lobby.Proposal
	phase   atomic.Int32
	started sync.Once
	done    chan struct{}
}

// NewCoordinator returns a Coordinator contacting the members of roster
// other than self through requester, and applying committed states through
// applier. It does nothing until Run is called.
func NewCoordinator(self lobby.Peer, roster Roster, requester Requester, applier StateApplier, opts ...Option) *Coordinator {
	o := defaultOptions()
	for _, opt := range opts {
		o = opt(o)
	}
	self.State = lobby.State{}
	return &Coordinator{
		self:      self,
		roster:    roster,
		requester: requester,
		applier:   applier,
		opts:      o,
		logger:    o.logger.With("coordinator", self.Address()),
		mailbox:   make(chan lobby.Proposal, o.mailboxSize),
		done:      make(chan struct{}),
	}
}

// Submit queues p behind the proposals already submitted. It blocks while the
// mailbox is full.
func (c *Coordinator) Submit(ctx context.Context, p lobby.Proposal) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}
	select {
	case c.mailbox <- p:
		c.logger.Debug("proposal queued", "proposal", p.ID, "sender", p.Sender.Address())
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run handles the queued proposals one at a time, in submission order, until
// ctx is done. The proposal being handled when ctx is done is aborted.
func (c *Coordinator) Run(ctx context.Context) error {
	first := false
	c.started.Do(func() { first = true })
	if !first {
		return ErrRunning
	}
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-c.mailbox:
			c.RunProtocol(ctx, p)
		}
	}
}

// Phase returns the phase of the proposal being handled.
func (c *Coordinator) Phase() Phase {
	return Phase(c.phase.Load())
}

// RunProtocol executes the three phases for p against the current members of
// the lobby and applies p locally when all of them acknowledged every phase.
// Callers other than Run must not overlap with it.
func (c *Coordinator) RunProtocol(ctx context.Context, p lobby.Proposal) Outcome {
	logger := c.logger.With("proposal", p.ID, "state", p.State.Value)
	outcome := Outcome{Proposal: p, Started: c.opts.clock.Now()}
	defer c.phase.Store(int32(PhaseIdle))

	participants := c.roster.Others(c.self.Address())
	for _, phase := range phases {
		c.phase.Store(int32(phase))
		if failed, err := c.broadcast(ctx, phase, p, participants); err != nil {
			outcome.FailedPhase = phase
			outcome.FailedPeer = failed
			outcome.Err = err
			outcome.Finished = c.opts.clock.Now()
			logger.Warn("proposal aborted", "phase", phase, "peer", failed.Address(), "err", err)
			c.opts.observer(outcome)
			return outcome
		}
	}
	c.applier.Apply(p)
	outcome.Committed = true
	outcome.Finished = c.opts.clock.Now()
	logger.Info("proposal committed", "participants", len(participants), "duration", outcome.Duration())
	c.opts.observer(outcome)
	return outcome
}

// broadcast sends the message of phase to every participant in order and
// stops at the first one that does not acknowledge it.
func (c *Coordinator) broadcast(ctx context.Context, phase Phase, p lobby.Proposal, participants []lobby.Peer) (lobby.Peer, error) {
	m := message.Consensus{Sender: c.self, Operation: phase.Operation()}
	if phase != PhaseCanCommit {
		m.Proposal = &p
	}
	for _, participant := range participants {
		reply, err := c.requester.Request(ctx, m, participant)
		if err != nil {
			return participant, errors.Wrapf(err, "%s to %s", phase, participant)
		}
		if !isAck(reply) {
			return participant, errors.Wrapf(ErrRejected, "%s to %s: got %s", phase, participant, describe(reply))
		}
	}
	return lobby.Peer{}, nil
}

func isAck(m message.Message) bool {
	c, ok := m.(message.Consensus)
	return ok && c.Operation == message.Ack
}

func describe(m message.Message) string {
	if c, ok := m.(message.Consensus); ok {
		return string(c.Operation)
	}
	if m == nil {
		return "nothing"
	}
	return string(m.Type())
}
