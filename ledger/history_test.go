package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	fakeclock "k8s.io/utils/clock/testing"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
)

var host = lobby.Peer{Priority: lobby.PriorityHost, UserName: "h", IPAddress: "127.0.0.1", Port: 4000}

func appendStates(t *testing.T, h *History, states ...string) []lobby.Proposal {
	t.Helper()
	var proposals []lobby.Proposal
	for _, s := range states {
		p := lobby.NewProposal(host, lobby.State{Value: s})
		_, err := h.Append(p)
		require.NoError(t, err)
		proposals = append(proposals, p)
	}
	return proposals
}

func TestNewHistory(t *testing.T) {
	h := NewHistory(lobby.State{Value: "Lobby"})
	require.Equal(t, 1, h.Len())
	genesis, err := h.Latest()
	require.NoError(t, err)
	require.Equal(t, 0, genesis.Index)
	require.Equal(t, "Lobby", genesis.State)
	require.Equal(t, genesisPrevHash, genesis.PrevHash)
	require.NoError(t, h.Verify())
	require.Empty(t, h.States())
}

func TestAppendChainsBlocks(t *testing.T) {
	clk := fakeclock.NewFakeClock(time.Unix(1000, 0))
	h := NewHistoryWithClock(clk, lobby.State{})
	clk.Step(time.Second)
	proposals := appendStates(t, h, "InProgress", "Finished")

	require.Equal(t, []string{"InProgress", "Finished"}, h.States())
	blocks := h.Blocks()
	require.Len(t, blocks, 3)
	for i := 1; i < len(blocks); i++ {
		require.Equal(t, i, blocks[i].Index)
		require.Equal(t, blocks[i-1].Hash, blocks[i].PrevHash)
		require.Equal(t, proposals[i-1].ID.String(), blocks[i].ProposalID)
		require.Equal(t, host.Address(), blocks[i].Proposer)
		require.Equal(t, time.Unix(1001, 0).UnixNano(), blocks[i].Timestamp)
	}
	require.NoError(t, h.Verify())
}

func TestByIndex(t *testing.T) {
	h := NewHistory(lobby.State{})
	appendStates(t, h, "a", "b")
	b, err := h.ByIndex(2)
	require.NoError(t, err)
	require.Equal(t, "b", b.State)
	_, err = h.ByIndex(3)
	require.Error(t, err)
	_, err = h.ByIndex(-1)
	require.Error(t, err)
}

func TestVerifyDetectsTampering(t *testing.T) {
	h := NewHistory(lobby.State{})
	appendStates(t, h, "a", "b", "c")

	h.blocks[2].State = "z"
	require.Error(t, h.Verify())
	h.blocks[2].State = "b"
	require.NoError(t, h.Verify())

	h.blocks[3].PrevHash = h.blocks[1].Hash
	require.Error(t, h.Verify())
}

func TestVerifyInvalidGenesis(t *testing.T) {
	h := NewHistory(lobby.State{})
	h.blocks[0].PrevHash = "1"
	require.Error(t, h.Verify())
}

func TestEmptyHistory(t *testing.T) {
	var h History
	_, err := h.Latest()
	require.ErrorIs(t, err, ErrEmpty)
	require.ErrorIs(t, h.Verify(), ErrEmpty)
	_, err = h.Append(lobby.NewProposal(host, lobby.State{}))
	require.ErrorIs(t, err, ErrEmpty)
	require.Empty(t, h.States())
}
