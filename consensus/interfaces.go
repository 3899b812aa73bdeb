package consensus

import (
	"context"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
)

// Requester sends a message and waits for its reply. network.Transport
// implements it.
type Requester interface {
	Request(ctx context.Context, m message.Message, to lobby.Peer) (message.Message, error)
}

// Sender delivers a message without waiting for the outcome.
type Sender interface {
	Send(m message.Message, to lobby.Peer)
}

// Roster lists the members of the lobby, in join order, without the ones
// listening on the excluded addresses. *lobby.Lobby implements it.
type Roster interface {
	Others(excluded ...string) []lobby.Peer
}

// StateApplier makes the state of an agreed proposal the local state of a
// peer.
type StateApplier interface {
	Apply(p lobby.Proposal)
}

// StateApplierFunc adapts a function to StateApplier.
type StateApplierFunc func(p lobby.Proposal)

func (f StateApplierFunc) Apply(p lobby.Proposal) {
	f(p)
}
