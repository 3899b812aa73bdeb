package lobby

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makePeer(name string, port int, priority int) Peer {
	return Peer{
		ID:        port,
		Priority:  priority,
		Port:      port,
		UserName:  name,
		IPAddress: "127.0.0.1",
	}
}

func TestPeerAddress(t *testing.T) {
	p := makePeer("alice", 4242, PriorityHost)
	require.Equal(t, "127.0.0.1:4242", p.Address())
	require.True(t, p.IsHost())

	v6 := Peer{IPAddress: "::1", Port: 80}
	require.Equal(t, "[::1]:80", v6.Address())
}

func TestSplitAddress(t *testing.T) {
	ip, port, err := SplitAddress("10.0.0.3:9000")
	require.NoError(t, err)
	require.Equal(t, "10.0.0.3", ip)
	require.Equal(t, 9000, port)

	_, _, err = SplitAddress("10.0.0.3")
	require.Error(t, err)
	_, _, err = SplitAddress("10.0.0.3:http")
	require.Error(t, err)
}

func TestAddPeerKeepsJoinOrder(t *testing.T) {
	l := New(1, "table")
	h := makePeer("h", 1000, PriorityHost)
	a := makePeer("a", 1001, PriorityParticipant)
	b := makePeer("b", 1002, PriorityParticipant)
	for _, p := range []Peer{h, a, b} {
		added, err := l.AddPeer(p)
		require.NoError(t, err)
		require.True(t, added)
	}
	added, err := l.AddPeer(a)
	require.NoError(t, err)
	require.False(t, added, "a peer with a known address must not be added twice")

	require.Equal(t, []Peer{h, a, b}, l.Peers())
	require.Equal(t, []Peer{b}, l.Others(h.Address(), a.Address()))

	host, ok := l.Host()
	require.True(t, ok)
	require.Equal(t, h, host)
}

func TestAddPeerRejectsSecondHost(t *testing.T) {
	l := New(1, "table")
	_, err := l.AddPeer(makePeer("h", 1000, PriorityHost))
	require.NoError(t, err)
	_, err = l.AddPeer(makePeer("usurper", 1001, PriorityHost))
	require.ErrorIs(t, err, ErrDuplicateHost)
	require.Equal(t, 1, l.Len())
}

func TestRemovePeer(t *testing.T) {
	l := New(1, "table")
	a := makePeer("a", 1001, PriorityParticipant)
	_, err := l.AddPeer(a)
	require.NoError(t, err)
	require.True(t, l.Contains(a.Address()))
	require.True(t, l.RemovePeer(a.Address()))
	require.False(t, l.RemovePeer(a.Address()))
	_, ok := l.Host()
	require.False(t, ok)
}

func TestFromSnapshot(t *testing.T) {
	s := Snapshot{
		ID:   7,
		Name: "table",
		Peers: []Peer{
			makePeer("h", 1000, PriorityHost),
			makePeer("a", 1001, PriorityParticipant),
		},
	}
	l, err := FromSnapshot(s)
	require.NoError(t, err)
	require.Equal(t, s, l.Snapshot())

	s.Peers = append(s.Peers, makePeer("h2", 1002, PriorityHost))
	_, err = FromSnapshot(s)
	require.ErrorIs(t, err, ErrDuplicateHost)
}

func TestNewProposalDropsLocalState(t *testing.T) {
	sender := makePeer("h", 1000, PriorityHost)
	sender.State = State{Value: "Lobby"}
	p := NewProposal(sender, State{Value: "InProgress"})
	require.Equal(t, State{}, p.Sender.State)
	require.Equal(t, "InProgress", p.State.Value)
	q := NewProposal(sender, State{Value: "InProgress"})
	require.NotEqual(t, p.ID, q.ID)
}
