package consensus

import (
	"github.com/pkg/errors"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
)

// ErrNotCoordinator is reported when a peer other than the host receives a
// proposal to coordinate.
var ErrNotCoordinator = errors.New("peer is not the coordinator")

// InformLeader hands p to leader for coordination. Nothing is awaited: if the
// leader is unreachable the proposal is lost.
func InformLeader(s Sender, self, leader lobby.Peer, p lobby.Proposal) {
	self.State = lobby.State{}
	s.Send(message.Consensus{
		Sender:    self,
		Operation: message.Initialization,
		Proposal:  &p,
	}, leader)
}
