package session

import (
	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
)

// Listener receives the events of a Session. Its methods are called from the
// goroutines handling connections and must not block for long.
type Listener interface {
	ChatReceived(m message.Chat)
	AudioReceived(m message.Audio)
	GameStateReceived(m message.GameState)
	FirstGameStateReceived(m message.FirstGameState)
	// PeerJoined is called on the host once a new peer has been added to the
	// roster and announced to the other members.
	PeerJoined(p lobby.Peer)
	// StateApplied is called after a committed proposal became the local
	// state.
	StateApplied(p lobby.Proposal)
}

// NopListener ignores every event. Embed it to implement only some methods.
type NopListener struct{}

func (NopListener) ChatReceived(message.Chat)                     {}
func (NopListener) AudioReceived(message.Audio)                   {}
func (NopListener) GameStateReceived(message.GameState)           {}
func (NopListener) FirstGameStateReceived(message.FirstGameState) {}
func (NopListener) PeerJoined(lobby.Peer)                         {}
func (NopListener) StateApplied(lobby.Proposal)                   {}
