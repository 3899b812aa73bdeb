package main

import (
	"encoding/json"
	"log/slog"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/message"
	"github.com/luca-patrignani/lobby3pc/session"
)

// printer shows the events of the session on the terminal.
type printer struct {
	session.NopListener
	logger  *slog.Logger
	session *session.Session
}

func (p *printer) nameOf(address string) string {
	for _, peer := range p.session.Peers() {
		if peer.Address() == address {
			return peer.UserName
		}
	}
	return address
}

func (p *printer) ChatReceived(m message.Chat) {
	pterm.Info.Printfln("%s: %s", pterm.LightCyan(p.nameOf(m.Sender)), m.Text)
}

func (p *printer) GameStateReceived(m message.GameState) {
	p.logger.Debug("game state received", "from", m.Sender.Address(), "bytes", len(m.Payload))
}

func (p *printer) AudioReceived(m message.Audio) {
	p.logger.Debug("audio received", "from", m.SenderAddress, "bytes", len(m.Payload))
}

// PeerJoined greets the new peer with the current state of the lobby.
func (p *printer) PeerJoined(peer lobby.Peer) {
	pterm.Info.Printfln("%s joined the lobby", pterm.LightCyan(peer.UserName))
	payload, err := json.Marshal(p.session.State())
	if err != nil {
		p.logger.Error("could not encode first game state", "err", err)
		return
	}
	p.session.SendFirstGameState(peer, string(payload))
}

func (p *printer) FirstGameStateReceived(m message.FirstGameState) {
	var state lobby.State
	if err := json.Unmarshal([]byte(m.Payload), &state); err != nil {
		p.logger.Warn("malformed first game state", "from", m.Sender.Address(), "err", err)
		return
	}
	pterm.Info.Printfln("%s welcomed you, lobby state is %s", pterm.LightCyan(m.Sender.UserName), displayState(state.Value))
}

func (p *printer) StateApplied(proposal lobby.Proposal) {
	pterm.Success.Printfln("lobby state is now %s (proposed by %s)", pterm.LightGreen(proposal.State.Value), proposal.Sender.UserName)
}
