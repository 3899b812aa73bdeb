package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/ledger"
)

func TestPeersTable(t *testing.T) {
	host := lobby.Peer{ID: 0, Priority: lobby.PriorityHost, UserName: "h", IPAddress: "10.0.0.1", Port: 4000}
	me := lobby.Peer{ID: 1, Priority: lobby.PriorityParticipant, UserName: "a", IPAddress: "10.0.0.2", Port: 4001}
	data := peersTable([]lobby.Peer{host, me}, me)
	require.Len(t, data, 3)
	require.Equal(t, []string{"0", "h", "10.0.0.1:4000", "host"}, data[1])
	require.Equal(t, []string{"1", "a (you)", "10.0.0.2:4001", "participant"}, data[2])
}

func TestHistoryTable(t *testing.T) {
	h := ledger.NewHistory(lobby.State{})
	p := lobby.NewProposal(lobby.Peer{UserName: "h", IPAddress: "10.0.0.1", Port: 4000}, lobby.State{Value: "InProgress"})
	_, err := h.Append(p)
	require.NoError(t, err)

	data := historyTable(h.Blocks())
	require.Len(t, data, 3)
	require.Equal(t, "-", data[1][2])
	require.Equal(t, "InProgress", data[2][2])
	require.Equal(t, "10.0.0.1:4000", data[2][3])
	require.Len(t, data[2][4], 12)
}
