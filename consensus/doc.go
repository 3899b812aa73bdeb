// Package consensus implements the three-phase commit that lets the peers of
// a lobby agree on a new State before any of them applies it.
//
// # Core Components
//
// Coordinator: Run by the host of the lobby only. It owns the queue of
// pending proposals and drives the protocol for one proposal at a time.
//
// Participant: Run by every peer. It answers the phases of the protocol and
// applies the agreed state on FinalizeCommit.
//
// # Protocol
//
// The protocol follows these steps for every proposal, contacting the other
// members one at a time and in roster order:
//  1. CanCommit: every participant must answer Ack
//  2. Proposal: the proposal is sent, every participant must answer Ack
//  3. FinalizeCommit: every participant applies the state, then answers Ack
//  4. The coordinator applies the state itself
//
// The first missing, late or negative answer aborts the proposal: no message
// of a later phase is sent to anyone. Nothing is rolled back when a phase
// after CanCommit fails.
//
// # Ordering
//
// Proposals are queued in the mailbox of the Coordinator and handled by the
// single goroutine executing Run, so they commit one at a time in their
// order of arrival. Other goroutines only ever send into the mailbox.
//
// # Known Limitations
//
// Participants never veto: CanCommit and Proposal are always acknowledged.
// A crashed coordinator is neither detected nor replaced.
package consensus
