package consensus

import (
	"time"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
)

// Phase is the step of the protocol a Coordinator is executing.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseCanCommit
	PhaseProposal
	PhaseFinalizeCommit
)

var phases = []Phase{PhaseCanCommit, PhaseProposal, PhaseFinalizeCommit}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseCanCommit:
		return "CanCommit"
	case PhaseProposal:
		return "Proposal"
	case PhaseFinalizeCommit:
		return "FinalizeCommit"
	}
	return "Unknown"
}

// Operation returns the operation sent to the participants during p.
func (p Phase) Operation() message.Operation {
	switch p {
	case PhaseCanCommit:
		return message.CanCommit
	case PhaseProposal:
		return message.Proposal
	case PhaseFinalizeCommit:
		return message.FinalizeCommit
	}
	return ""
}

// Outcome reports how a proposal ended. FailedPhase, FailedPeer and Err are
// only set when the proposal was aborted.
type Outcome struct {
	Proposal    lobby.Proposal
	Committed   bool
	FailedPhase Phase
	FailedPeer  lobby.Peer
	Err         error
	Started     time.Time
	Finished    time.Time
}

func (o Outcome) Duration() time.Duration {
	return o.Finished.Sub(o.Started)
}
