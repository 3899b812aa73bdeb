package message

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
)

type recordingHandler struct {
	calls []Type
}

func (h *recordingHandler) HandleJoin(context.Context, Join)     { h.calls = append(h.calls, TypeJoin) }
func (h *recordingHandler) HandleJoined(context.Context, Joined) { h.calls = append(h.calls, TypeJoined) }
func (h *recordingHandler) HandleChat(context.Context, Chat)     { h.calls = append(h.calls, TypeChat) }
func (h *recordingHandler) HandleAudio(context.Context, Audio)   { h.calls = append(h.calls, TypeAudio) }
func (h *recordingHandler) HandleGameState(context.Context, GameState) {
	h.calls = append(h.calls, TypeGameState)
}
func (h *recordingHandler) HandleFirstGameState(context.Context, FirstGameState) {
	h.calls = append(h.calls, TypeFirstGameState)
}
func (h *recordingHandler) HandleConsensus(_ context.Context, m Consensus) Message {
	h.calls = append(h.calls, TypeConsensus)
	return Consensus{Operation: Ack}
}

func host() lobby.Peer {
	return lobby.Peer{ID: 1, Priority: lobby.PriorityHost, Port: 4000, UserName: "h", IPAddress: "127.0.0.1"}
}

func TestDispatchRoutesEveryVariant(t *testing.T) {
	h := &recordingHandler{}
	msgs := []Message{
		Join{NewPeer: host()},
		Joined{NewPeer: host()},
		Chat{Text: "hi"},
		Audio{Payload: []byte{1, 2}},
		GameState{Payload: "{}"},
		FirstGameState{Payload: "{}"},
	}
	for _, m := range msgs {
		require.Nil(t, Dispatch(context.Background(), m, h), "%s must not produce a reply", m.Type())
	}
	reply := Dispatch(context.Background(), Consensus{Operation: CanCommit}, h)
	require.Equal(t, Consensus{Operation: Ack}, reply)
	require.Equal(t, []Type{
		TypeJoin, TypeJoined, TypeChat, TypeAudio, TypeGameState, TypeFirstGameState, TypeConsensus,
	}, h.calls)
	require.Nil(t, Dispatch(context.Background(), nil, h))
}

func TestConsensusWireShape(t *testing.T) {
	p := lobby.NewProposal(host(), lobby.State{Value: "InProgress"})
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Consensus{Sender: host(), Operation: Proposal, Proposal: &p}))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Equal(t, "consensus", raw["type"])
	body := raw["body"].(map[string]any)
	require.Equal(t, "Proposal", body["operationType"])
	sender := body["sender"].(map[string]any)
	require.ElementsMatch(t, []string{"id", "priority", "port", "userName", "ipAddress"}, keys(sender))
	state := body["proposal"].(map[string]any)["state"].(map[string]any)
	require.Equal(t, "InProgress", state["stateValue"])

	m, err := Decode(&buf)
	require.NoError(t, err)
	c := m.(Consensus)
	require.Equal(t, Proposal, c.Operation)
	require.Equal(t, p, *c.Proposal)
}

func TestCanCommitOmitsProposal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Consensus{Sender: host(), Operation: CanCommit}))
	require.NotContains(t, buf.String(), "proposal")
	m, err := Decode(&buf)
	require.NoError(t, err)
	require.Nil(t, m.(Consensus).Proposal)
}

func TestPeerStateStaysLocal(t *testing.T) {
	p := host()
	p.State = lobby.State{Value: "secret"}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Join{NewPeer: p}))
	require.NotContains(t, buf.String(), "secret")
	m, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, lobby.State{}, m.(Join).NewPeer.State)
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type":"leave","body":{}}`))
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestDecodeRejectsUnknownOperation(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type":"consensus","body":{"operationType":"Veto"}}`))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader(`not json`))
	require.Error(t, err)
	_, err = Decode(strings.NewReader(`{"type":"chat"}`))
	require.ErrorIs(t, err, ErrMalformed)
	_, err = Decode(strings.NewReader(``))
	require.Error(t, err)
}

func TestEncodeNil(t *testing.T) {
	require.Error(t, Encode(&bytes.Buffer{}, nil))
}

func TestOperation(t *testing.T) {
	for _, o := range []Operation{CanCommit, Proposal, FinalizeCommit} {
		require.True(t, o.ExpectsReply(), o)
	}
	for _, o := range []Operation{Initialization, Ack, Abort, Success, Failure, Busy} {
		require.False(t, o.ExpectsReply(), o)
		require.True(t, o.Valid(), o)
	}
	require.False(t, Operation("Veto").Valid())
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
