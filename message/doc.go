// Package message defines the closed set of messages exchanged by the peers
// of a lobby and the way they travel on the wire.
//
// # Variants
//
// Join, Joined: membership announcements.
//
// Chat, Audio, GameState, FirstGameState: payloads delivered to the
// listeners of the receiving peer.
//
// Consensus: the three-phase-commit handshake, qualified by an Operation.
//
// # Dispatch
//
// Message is sealed: only the variants of this package implement it, and
// each of them routes itself to the matching method of Handler. Adding a
// variant therefore requires adding a Handler method, and every Handler
// implementation stops compiling until it handles the new variant.
//
// # Wire Format
//
// Exactly one Message travels per connection direction, encoded as a single
// JSON object {"type": ..., "body": ...}. The object boundary is the only
// framing.
package message
