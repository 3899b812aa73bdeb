package lobby

import "github.com/google/uuid"

// Proposal asks every member of a lobby to move to State. A Proposal is never
// mutated once built; ID only serves to trace it through logs and ledgers.
type Proposal struct {
	ID     uuid.UUID `json:"id"`
	Sender Peer      `json:"sender"`
	State  State     `json:"state"`
}

func NewProposal(sender Peer, state State) Proposal {
	sender.State = State{}
	return Proposal{
		ID:     uuid.New(),
		Sender: sender,
		State:  state,
	}
}
