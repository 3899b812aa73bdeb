package ledger

// Block records one applied state.
type Block struct {
	Index      int    `json:"index"`
	Timestamp  int64  `json:"timestamp"`
	PrevHash   string `json:"prev_hash"`
	Hash       string `json:"hash"`
	ProposalID string `json:"proposal_id"`
	Proposer   string `json:"proposer"`
	State      string `json:"state"`
}
