package lobby

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrDuplicateHost is returned when a second peer with PriorityHost is added
// to a lobby.
var ErrDuplicateHost = errors.New("lobby already has a host")

// Lobby is the roster of a session. It is safe for concurrent use.
type Lobby struct {
	ID   int
	Name string

	mu    sync.RWMutex
	peers []Peer
}

// Snapshot is the serializable form of a Lobby.
type Snapshot struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Peers []Peer `json:"peers"`
}

func New(id int, name string) *Lobby {
	return &Lobby{ID: id, Name: name}
}

// FromSnapshot builds a Lobby from s, preserving the order of its peers.
func FromSnapshot(s Snapshot) (*Lobby, error) {
	l := New(s.ID, s.Name)
	for _, p := range s.Peers {
		if _, err := l.AddPeer(p); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// AddPeer appends p to the roster. It reports false when a peer with the same
// address is already a member, in which case the roster is left untouched.
func (l *Lobby) AddPeer(p Peer) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(p.Address()) >= 0 {
		return false, nil
	}
	if p.IsHost() {
		for _, member := range l.peers {
			if member.IsHost() {
				return false, fmt.Errorf("adding %s: %w (%s)", p, ErrDuplicateHost, member)
			}
		}
	}
	l.peers = append(l.peers, p)
	return true, nil
}

// RemovePeer removes the member listening on address and reports whether it
// was present.
func (l *Lobby) RemovePeer(address string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(address)
	if i < 0 {
		return false
	}
	l.peers = slices.Delete(l.peers, i, i+1)
	return true
}

// Host returns the member with PriorityHost.
func (l *Lobby) Host() (Peer, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.peers {
		if p.IsHost() {
			return p, true
		}
	}
	return Peer{}, false
}

// Peers returns a copy of the roster in join order.
func (l *Lobby) Peers() []Peer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.peers)
}

// Others returns the roster in join order without the members listening on
// any of the given addresses.
func (l *Lobby) Others(excluded ...string) []Peer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	others := make([]Peer, 0, len(l.peers))
	for _, p := range l.peers {
		if !slices.Contains(excluded, p.Address()) {
			others = append(others, p)
		}
	}
	return others
}

func (l *Lobby) Contains(address string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexOf(address) >= 0
}

func (l *Lobby) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.peers)
}

func (l *Lobby) Snapshot() Snapshot {
	return Snapshot{ID: l.ID, Name: l.Name, Peers: l.Peers()}
}

func (l *Lobby) indexOf(address string) int {
	return slices.IndexFunc(l.peers, func(p Peer) bool {
		return p.Address() == address
	})
}
