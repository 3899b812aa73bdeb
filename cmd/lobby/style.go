package main

import (
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/ledger"
)

func peersTable(peers []lobby.Peer, self lobby.Peer) pterm.TableData {
	data := pterm.TableData{{"ID", "Name", "Address", "Role"}}
	for _, p := range peers {
		name := p.UserName
		if p.Is(self) {
			name += " (you)"
		}
		role := "participant"
		if p.IsHost() {
			role = "host"
		}
		data = append(data, []string{strconv.Itoa(p.ID), name, p.Address(), role})
	}
	return data
}

func historyTable(blocks []ledger.Block) pterm.TableData {
	data := pterm.TableData{{"#", "Time", "State", "Proposer", "Hash"}}
	for _, b := range blocks {
		when := time.Unix(0, b.Timestamp).Format(time.TimeOnly)
		data = append(data, []string{strconv.Itoa(b.Index), when, displayState(b.State), b.Proposer, shortHash(b.Hash)})
	}
	return data
}

func lobbyPanel(name string, self lobby.Peer, members int) string {
	role := pterm.LightCyan("participant")
	if self.IsHost() {
		role = pterm.LightGreen("host")
	}
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	return pbox.WithTitle(pterm.LightYellow("|" + name + "|")).WithTitleTopCenter().Sprintf(
		"You: %s (%s)\nMembers: %d\nState: %s", self.UserName, role, members, displayState(self.State.Value))
}

func displayState(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
