// Package session ties together the pieces a peer needs to take part in a
// lobby: its connection substrate, the membership protocol, the
// three-phase-commit engine and the history of the states it applied.
//
// A Session is created with New, started with Start, attached to a lobby with
// CreateLobby or JoinLobby and stopped with Close.
//
// # Membership
//
// A joining peer sends Join to the host. The host adds it to its roster,
// relays Joined to every other member and signals PeerJoined to its
// Listener, which is expected to answer with SendFirstGameState. Nothing is
// retried or acknowledged: a lost Join leaves the rosters inconsistent.
package session
