// Package lobby implements the data model shared by every peer of a game
// session: who the peers are, which of them coordinates the session, and the
// state value they agree upon.
//
// # Core Types
//
// Peer: An addressable participant. Its Address ("ip:port") is the key used
// to tell peers apart, including "is this me" checks.
//
// Lobby: The ordered roster of a session. Insertion order is join order and
// at most one member may hold PriorityHost.
//
// State: The opaque value the peers agree upon, compared by value.
//
// Proposal: An immutable request from a peer to move every member to a new
// State.
package lobby
