package lobby

import (
	"fmt"
	"net"
	"strconv"
)

// Priorities are assigned once, when a peer creates or joins a lobby.
const (
	PriorityHost        = 0
	PriorityParticipant = 1
)

// State is the value the peers of a lobby agree upon.
type State struct {
	Value string `json:"stateValue"`
}

func (s State) String() string {
	return s.Value
}

// Peer is a participant of a lobby. State is local to the process holding
// the Peer and never leaves it.
type Peer struct {
	ID        int    `json:"id"`
	Priority  int    `json:"priority"`
	Port      int    `json:"port"`
	UserName  string `json:"userName"`
	IPAddress string `json:"ipAddress"`
	State     State  `json:"-"`
}

// Address returns the "ip:port" pair the peer listens on.
func (p Peer) Address() string {
	return net.JoinHostPort(p.IPAddress, strconv.Itoa(p.Port))
}

// IsHost reports whether the peer coordinates its lobby.
func (p Peer) IsHost() bool {
	return p.Priority == PriorityHost
}

// Is reports whether p and other designate the same network endpoint.
func (p Peer) Is(other Peer) bool {
	return p.Address() == other.Address()
}

func (p Peer) String() string {
	return fmt.Sprintf("%s@%s", p.UserName, p.Address())
}

// SplitAddress parses an "ip:port" string into its parts.
func SplitAddress(address string) (ip string, port int, err error) {
	ip, portS, err := net.SplitHostPort(address)
	if err != nil {
		return "", 0, err
	}
	port, err = strconv.Atoi(portS)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", address, err)
	}
	return ip, port, nil
}
