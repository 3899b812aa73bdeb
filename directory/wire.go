package directory

import (
	"github.com/luca-patrignani/lobby3pc/domain/lobby"
)

type request struct {
	UserName  string `json:"userName"`
	GameName  string `json:"gameName"`
	IPAddress string `json:"ipAddress"`
}

type peerJSON struct {
	ID        int    `json:"id"`
	Priority  int    `json:"priority"`
	Port      int    `json:"port"`
	UserName  string `json:"userName"`
	IPAddress string `json:"ipAddress"`
}

type lobbyJSON struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Peers []peerJSON `json:"peers"`
}

// snapshot converts l, splitting the "ip:port" address of every peer.
func (l lobbyJSON) snapshot() lobby.Snapshot {
	s := lobby.Snapshot{ID: l.ID, Name: l.Name, Peers: make([]lobby.Peer, 0, len(l.Peers))}
	for _, p := range l.Peers {
		peer := lobby.Peer{
			ID:        p.ID,
			Priority:  p.Priority,
			Port:      p.Port,
			UserName:  p.UserName,
			IPAddress: p.IPAddress,
		}
		if ip, port, err := lobby.SplitAddress(p.IPAddress); err == nil {
			peer.IPAddress = ip
			peer.Port = port
		}
		s.Peers = append(s.Peers, peer)
	}
	return s
}
