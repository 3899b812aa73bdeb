package directory

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
)

// Server is an in-memory lobby directory.
type Server struct {
	mu          sync.Mutex
	lobbies     []*lobbyJSON
	nextLobbyID int
	nextPeerID  int

	mux    *http.ServeMux
	logger *slog.Logger
}

type ServerOption func(*Server)

func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		nextLobbyID: 1,
		nextPeerID:  1,
		mux:         http.NewServeMux(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux.HandleFunc("GET /{$}", s.list)
	s.mux.HandleFunc("POST /{$}", s.create)
	s.mux.HandleFunc("POST /name/{name}", s.join)
	return s
}

// ServeHTTP also accepts the empty path left by http.StripPrefix when the
// Server is mounted under the exact base of the directory.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "" {
		r = r.Clone(r.Context())
		r.URL.Path = "/"
		r.URL.RawPath = ""
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	lobbies := make([]lobbyJSON, 0, len(s.lobbies))
	for _, l := range s.lobbies {
		lobbies = append(lobbies, clone(l))
	}
	s.mu.Unlock()
	s.reply(w, lobbies)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	req, port, ok := s.decode(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	if s.find(req.GameName) != nil {
		s.mu.Unlock()
		http.Error(w, "lobby name already taken", http.StatusConflict)
		return
	}
	l := &lobbyJSON{ID: s.nextLobbyID, Name: req.GameName}
	s.nextLobbyID++
	l.Peers = append(l.Peers, s.newPeer(req, port, lobby.PriorityHost))
	s.lobbies = append(s.lobbies, l)
	created := clone(l)
	s.mu.Unlock()

	s.logger.Info("lobby created", "lobby", req.GameName, "host", req.IPAddress)
	s.reply(w, created)
}

func (s *Server) join(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	req, port, ok := s.decode(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	l := s.find(name)
	if l == nil {
		s.mu.Unlock()
		http.Error(w, "no such lobby", http.StatusNotFound)
		return
	}
	member := slices.ContainsFunc(l.Peers, func(p peerJSON) bool {
		return p.IPAddress == req.IPAddress
	})
	if !member {
		l.Peers = append(l.Peers, s.newPeer(req, port, lobby.PriorityParticipant))
	}
	joined := clone(l)
	s.mu.Unlock()

	s.logger.Info("lobby joined", "lobby", name, "peer", req.IPAddress)
	s.reply(w, joined)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (request, int, bool) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return request{}, 0, false
	}
	_, port, err := lobby.SplitAddress(req.IPAddress)
	if err != nil || req.UserName == "" || req.GameName == "" {
		http.Error(w, "userName, gameName and ipAddress (ip:port) are required", http.StatusBadRequest)
		return request{}, 0, false
	}
	return req, port, true
}

// newPeer must be called with mu held.
func (s *Server) newPeer(req request, port, priority int) peerJSON {
	p := peerJSON{
		ID:        s.nextPeerID,
		Priority:  priority,
		Port:      port,
		UserName:  req.UserName,
		IPAddress: req.IPAddress,
	}
	s.nextPeerID++
	return p
}

// find must be called with mu held.
func (s *Server) find(name string) *lobbyJSON {
	for _, l := range s.lobbies {
		if l.Name == name {
			return l
		}
	}
	return nil
}

func (s *Server) reply(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("could not write reply", "err", err)
	}
}

func clone(l *lobbyJSON) lobbyJSON {
	c := *l
	c.Peers = slices.Clone(l.Peers)
	return c
}
