package session

import (
	"context"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
)

// announce sends Join to the host of the lobby.
func (s *Session) announce() error {
	self, l := s.Self(), s.Lobby()
	host, ok := l.Host()
	if !ok {
		return ErrNoHost
	}
	s.transport.Send(message.Join{NewPeer: self}, host)
	s.logger.Info("join sent", "host", host.Address())
	return nil
}

func (s *Session) HandleJoin(_ context.Context, m message.Join) {
	self, l := s.Self(), s.Lobby()
	logger := s.logger.With("new_peer", m.NewPeer.Address())
	if l == nil || !self.IsHost() {
		logger.Warn("dropping join: not the host")
		return
	}
	added, err := l.AddPeer(m.NewPeer)
	if err != nil {
		logger.Warn("dropping join", "err", err)
		return
	}
	if !added {
		logger.Debug("peer already in the lobby")
	}
	relay := message.Joined{NewPeer: m.NewPeer}
	for _, member := range l.Others(m.NewPeer.Address(), self.Address()) {
		s.transport.Send(relay, member)
	}
	logger.Info("peer joined", "members", l.Len())
	s.listener.PeerJoined(m.NewPeer)
}

func (s *Session) HandleJoined(_ context.Context, m message.Joined) {
	l := s.Lobby()
	logger := s.logger.With("new_peer", m.NewPeer.Address())
	if l == nil {
		logger.Warn("dropping joined: not in a lobby")
		return
	}
	if _, err := l.AddPeer(m.NewPeer); err != nil {
		logger.Warn("dropping joined", "err", err)
		return
	}
	logger.Info("peer joined", "members", l.Len())
}

func (s *Session) HandleChat(_ context.Context, m message.Chat) {
	s.listener.ChatReceived(m)
}

func (s *Session) HandleAudio(_ context.Context, m message.Audio) {
	s.listener.AudioReceived(m)
}

func (s *Session) HandleGameState(_ context.Context, m message.GameState) {
	s.listener.GameStateReceived(m)
}

func (s *Session) HandleFirstGameState(_ context.Context, m message.FirstGameState) {
	s.listener.FirstGameStateReceived(m)
}

func (s *Session) HandleConsensus(ctx context.Context, m message.Consensus) message.Message {
	s.mu.RLock()
	participant := s.participant
	s.mu.RUnlock()
	if participant == nil {
		s.logger.Warn("dropping consensus message: not in a lobby", "operation", m.Operation)
		return nil
	}
	return participant.HandleConsensus(ctx, m)
}

// Broadcast sends m to every other member of the lobby.
func (s *Session) Broadcast(m message.Message) error {
	self, l := s.Self(), s.Lobby()
	if l == nil {
		return ErrNoLobby
	}
	for _, member := range l.Others(self.Address()) {
		s.transport.Send(m, member)
	}
	return nil
}

func (s *Session) SendChat(text string) error {
	return s.Broadcast(message.Chat{Text: text, Sender: s.Self().Address()})
}

func (s *Session) SendAudio(payload []byte) error {
	return s.Broadcast(message.Audio{Payload: payload, SenderAddress: s.Self().Address()})
}

func (s *Session) SendGameState(payload string) error {
	return s.Broadcast(message.GameState{Payload: payload, Sender: s.Self()})
}

// SendFirstGameState gives a peer that just joined the state of the game.
func (s *Session) SendFirstGameState(to lobby.Peer, payload string) {
	s.transport.Send(message.FirstGameState{Payload: payload, Sender: s.Self()}, to)
}
