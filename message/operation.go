package message

// Operation qualifies a Consensus message.
//
// Only Initialization, CanCommit, Proposal, FinalizeCommit and Ack are
// produced by the protocol. Abort, Success, Failure and Busy are understood as
// negative votes when received but nothing emits them.
type Operation string

const (
	Initialization Operation = "Initialization"
	Proposal       Operation = "Proposal"
	FinalizeCommit Operation = "FinalizeCommit"
	CanCommit      Operation = "CanCommit"
	Ack            Operation = "Ack"
	Abort          Operation = "Abort"
	Success        Operation = "Success"
	Failure        Operation = "Failure"
	Busy           Operation = "Busy"
)

var operations = map[Operation]struct{}{
	Initialization: {},
	Proposal:       {},
	FinalizeCommit: {},
	CanCommit:      {},
	Ack:            {},
	Abort:          {},
	Success:        {},
	Failure:        {},
	Busy:           {},
}

func (o Operation) Valid() bool {
	_, ok := operations[o]
	return ok
}

// ExpectsReply reports whether the receiver of o must answer on the same
// connection.
func (o Operation) ExpectsReply() bool {
	switch o {
	case CanCommit, Proposal, FinalizeCommit:
		return true
	}
	return false
}
