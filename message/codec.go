package message

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownType is returned by Decode for an envelope whose tag names no
	// variant of this package.
	ErrUnknownType = errors.New("unknown message type")
	// ErrMalformed is returned by Decode for a recognized envelope whose body
	// cannot be a valid message.
	ErrMalformed = errors.New("malformed message")
)

type envelope struct {
	Type Type            `json:"type"`
	Body json.RawMessage `json:"body"`
}

// Encode writes m to dst as a single JSON object.
func Encode(dst io.Writer, m Message) error {
	if m == nil {
		return errors.New("cannot encode a nil message")
	}
	body, err := json.Marshal(m)
	if err != nil {
		return errors.Wrapf(err, "could not marshal %s message", m.Type())
	}
	if err := json.NewEncoder(dst).Encode(envelope{Type: m.Type(), Body: body}); err != nil {
		return errors.Wrapf(err, "could not write %s message", m.Type())
	}
	return nil
}

// Decode reads exactly one JSON object from src and returns the message it
// holds.
func Decode(src io.Reader) (Message, error) {
	var env envelope
	if err := json.NewDecoder(src).Decode(&env); err != nil {
		return nil, errors.Wrap(err, "could not read message envelope")
	}
	m, err := newVariant(env.Type)
	if err != nil {
		return nil, err
	}
	if len(env.Body) == 0 {
		return nil, errors.Wrapf(ErrMalformed, "%s message without body", env.Type)
	}
	if err := json.Unmarshal(env.Body, m); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s message: %v", env.Type, err)
	}
	return deref(m)
}

func newVariant(t Type) (any, error) {
	switch t {
	case TypeJoin:
		return &Join{}, nil
	case TypeJoined:
		return &Joined{}, nil
	case TypeChat:
		return &Chat{}, nil
	case TypeAudio:
		return &Audio{}, nil
	case TypeGameState:
		return &GameState{}, nil
	case TypeFirstGameState:
		return &FirstGameState{}, nil
	case TypeConsensus:
		return &Consensus{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownType, "%q", t)
}

func deref(v any) (Message, error) {
	switch m := v.(type) {
	case *Join:
		return *m, nil
	case *Joined:
		return *m, nil
	case *Chat:
		return *m, nil
	case *Audio:
		return *m, nil
	case *GameState:
		return *m, nil
	case *FirstGameState:
		return *m, nil
	case *Consensus:
		if !m.Operation.Valid() {
			return nil, errors.Wrapf(ErrMalformed, "unknown operation type %q", m.Operation)
		}
		return *m, nil
	}
	return nil, errors.Wrapf(ErrUnknownType, "%T", v)
}
