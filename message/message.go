package message

import (
	"context"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
)

// Type tags a variant on the wire.
type Type string

const (
	TypeJoin           Type = "join"
	TypeJoined         Type = "joined"
	TypeChat           Type = "chat"
	TypeAudio          Type = "audio"
	TypeGameState      Type = "gameState"
	TypeFirstGameState Type = "firstGameState"
	TypeConsensus      Type = "consensus"
)

// Message is implemented by the variants of this package only.
type Message interface {
	Type() Type
	dispatch(ctx context.Context, h Handler) Message
}

// Handler receives the messages read by a peer. Only HandleConsensus may
// produce a reply; a nil reply means nothing is written back.
type Handler interface {
	HandleJoin(ctx context.Context, m Join)
	HandleJoined(ctx context.Context, m Joined)
	HandleChat(ctx context.Context, m Chat)
	HandleAudio(ctx context.Context, m Audio)
	HandleGameState(ctx context.Context, m GameState)
	HandleFirstGameState(ctx context.Context, m FirstGameState)
	HandleConsensus(ctx context.Context, m Consensus) Message
}

// Dispatch routes m to the method of h matching its variant and returns the
// reply to write back, if any.
func Dispatch(ctx context.Context, m Message, h Handler) Message {
	if m == nil {
		return nil
	}
	return m.dispatch(ctx, h)
}

// Join is sent by a new peer to the host of the lobby it joined.
type Join struct {
	NewPeer lobby.Peer `json:"newPeer"`
}

// Joined is relayed by the host to the other members after a Join.
type Joined struct {
	NewPeer lobby.Peer `json:"newPeer"`
}

type Chat struct {
	Text   string `json:"text"`
	Sender string `json:"sender,omitempty"`
}

type Audio struct {
	Payload       []byte `json:"payload"`
	SenderAddress string `json:"senderAddress"`
}

type GameState struct {
	Payload string     `json:"payload"`
	Sender  lobby.Peer `json:"sender"`
}

// FirstGameState is the GameState sent to a peer right after it joined.
type FirstGameState struct {
	Payload string     `json:"payload"`
	Sender  lobby.Peer `json:"sender"`
}

// Consensus carries one step of the three-phase commit. Proposal is nil for
// CanCommit and for replies.
type Consensus struct {
	Sender    lobby.Peer      `json:"sender"`
	Operation Operation       `json:"operationType"`
	Proposal  *lobby.Proposal `json:"proposal,omitempty"`
}

func (Join) Type() Type           { return TypeJoin }
func (Joined) Type() Type         { return TypeJoined }
func (Chat) Type() Type           { return TypeChat }
func (Audio) Type() Type          { return TypeAudio }
func (GameState) Type() Type      { return TypeGameState }
func (FirstGameState) Type() Type { return TypeFirstGameState }
func (Consensus) Type() Type      { return TypeConsensus }

func (m Join) dispatch(ctx context.Context, h Handler) Message {
	h.HandleJoin(ctx, m)
	return nil
}

func (m Joined) dispatch(ctx context.Context, h Handler) Message {
	h.HandleJoined(ctx, m)
	return nil
}

func (m Chat) dispatch(ctx context.Context, h Handler) Message {
	h.HandleChat(ctx, m)
	return nil
}

func (m Audio) dispatch(ctx context.Context, h Handler) Message {
	h.HandleAudio(ctx, m)
	return nil
}

func (m GameState) dispatch(ctx context.Context, h Handler) Message {
	h.HandleGameState(ctx, m)
	return nil
}

func (m FirstGameState) dispatch(ctx context.Context, h Handler) Message {
	h.HandleFirstGameState(ctx, m)
	return nil
}

func (m Consensus) dispatch(ctx context.Context, h Handler) Message {
	return h.HandleConsensus(ctx, m)
}
