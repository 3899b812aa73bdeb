// Package ledger keeps, for a single peer, the ordered history of the states
// it applied after a successful three-phase commit.
//
// # Core Components
//
// History: An append-only, in-memory log whose blocks are chained by their
// SHA-256 hashes.
//
// Block: One applied proposal together with the hash of the block before it.
//
// # Security Properties
//
// The chain only detects accidental or local tampering: blocks are neither
// signed nor persisted.
//
// # Usage
//
// Create a History with the initial state of the peer, append every applied
// proposal, and call Verify whenever the chain must be checked.
package ledger
