package consensus

import (
	"context"
	"io"
	"log/slog"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
)

// Participant answers the Consensus messages received by a peer. When the
// peer is the host, coordinator receives the Initialization messages.
type Participant struct {
	self        lobby.Peer
	applier     StateApplier
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewParticipant returns a Participant for self. coordinator is nil unless
// self is the host of its lobby.
func NewParticipant(self lobby.Peer, applier StateApplier, coordinator *Coordinator, logger *slog.Logger) *Participant {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	self.State = lobby.State{}
	return &Participant{
		self:        self,
		applier:     applier,
		coordinator: coordinator,
		logger:      logger.With("participant", self.Address()),
	}
}

// HandleConsensus returns the reply to m, or nil when m expects none.
func (p *Participant) HandleConsensus(ctx context.Context, m message.Consensus) message.Message {
	logger := p.logger.With("operation", m.Operation, "from", m.Sender.Address())
	switch m.Operation {
	case message.Initialization:
		p.initialize(ctx, m, logger)
		return nil
	case message.CanCommit, message.Proposal:
		return p.ack()
	case message.FinalizeCommit:
		if m.Proposal == nil {
			logger.Warn("finalize commit without proposal")
			return nil
		}
		p.applier.Apply(*m.Proposal)
		logger.Debug("state applied", "proposal", m.Proposal.ID, "state", m.Proposal.State.Value)
		return p.ack()
	case message.Ack, message.Abort, message.Success, message.Failure, message.Busy:
		logger.Debug("dropping unsolicited reply")
		return nil
	}
	logger.Warn("dropping unknown operation")
	return nil
}

func (p *Participant) initialize(ctx context.Context, m message.Consensus, logger *slog.Logger) {
	if p.coordinator == nil {
		logger.Warn("dropping initialization", "err", ErrNotCoordinator)
		return
	}
	if m.Proposal == nil {
		logger.Warn("dropping initialization without proposal")
		return
	}
	if err := p.coordinator.Submit(ctx, *m.Proposal); err != nil {
		logger.Warn("could not queue proposal", "proposal", m.Proposal.ID, "err", err)
	}
}

func (p *Participant) ack() message.Message {
	return message.Consensus{Sender: p.self, Operation: message.Ack}
}
