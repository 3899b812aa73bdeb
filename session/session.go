package session

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/lobby3pc/consensus"
	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/ledger"
	"github.com/luca-patrignani/lobby3pc/network"
)

var (
	ErrNotStarted     = errors.New("session not started")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNoLobby        = errors.New("session is not in a lobby")
	ErrInLobby        = errors.New("session is already in a lobby")
	// ErrNoHost is returned when the lobby of the Session has no member with
	// lobby.PriorityHost.
	ErrNoHost = errors.New("lobby has no host")
)

// Directory is the lobby directory service. directory.Client implements it.
type Directory interface {
	Create(ctx context.Context, userName, lobbyName, address string) (lobby.Snapshot, error)
	Join(ctx context.Context, userName, lobbyName, address string) (lobby.Snapshot, error)
}

// Session is a peer taking part in at most one lobby.
type Session struct {
	opts      options
	logger    *slog.Logger
	listener  Listener
	transport *network.Transport
	history   *ledger.History

	mu          sync.RWMutex
	self        lobby.Peer
	lobby       *lobby.Lobby
	coordinator *consensus.Coordinator
	participant *consensus.Participant

	group    *errgroup.Group
	groupCtx context.Context
	cancel   context.CancelFunc
}

// New binds an ephemeral port on ipAddress and returns a Session for a peer
// named userName listening on it.
func New(ipAddress, userName string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		o = opt(o)
	}
	s := &Session{
		opts:     o,
		listener: o.listener,
		history:  ledger.NewHistory(lobby.State{}),
	}
	transportOpts := append([]network.Option{network.WithLogger(o.logger)}, o.transportOptions...)
	t, err := network.Listen(net.JoinHostPort(ipAddress, "0"), s, transportOpts...)
	if err != nil {
		return nil, err
	}
	s.transport = t
	s.self = lobby.Peer{
		Priority:  lobby.PriorityParticipant,
		Port:      t.Port(),
		UserName:  userName,
		IPAddress: ipAddress,
	}
	s.logger = o.logger.With("peer", s.self.Address())
	return s, nil
}

// Start runs the accept loop of the Session until ctx is done or Close is
// called.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.group != nil {
		return ErrAlreadyStarted
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.group, s.groupCtx = errgroup.WithContext(ctx)
	s.group.Go(s.transport.Serve)
	s.group.Go(func() error {
		<-s.groupCtx.Done()
		return s.transport.Close()
	})
	if s.coordinator != nil {
		s.runCoordinator()
	}
	s.logger.Info("session started")
	return nil
}

// Close stops the Session and waits for its goroutines.
func (s *Session) Close() error {
	s.mu.Lock()
	group, cancel := s.group, s.cancel
	s.mu.Unlock()
	if group == nil {
		return s.transport.Close()
	}
	cancel()
	return group.Wait()
}

// CreateLobby registers a new lobby named name and makes the Session its
// host.
func (s *Session) CreateLobby(ctx context.Context, dir Directory, name string) error {
	self := s.Self()
	snapshot, err := dir.Create(ctx, self.UserName, name, self.Address())
	if err != nil {
		return err
	}
	return s.attach(snapshot, lobby.PriorityHost)
}

// JoinLobby joins the lobby named name and announces the Session to its
// host. The announcement is not acknowledged.
func (s *Session) JoinLobby(ctx context.Context, dir Directory, name string) error {
	self := s.Self()
	snapshot, err := dir.Join(ctx, self.UserName, name, self.Address())
	if err != nil {
		return err
	}
	if err := s.attach(snapshot, lobby.PriorityParticipant); err != nil {
		return err
	}
	return s.announce()
}

// Attach makes the Session a member of an existing lobby, described by
// snapshot, without going through a directory. The Session joins with
// priority, and announces itself to the host unless it is the host.
func (s *Session) Attach(snapshot lobby.Snapshot, priority int) error {
	if err := s.attach(snapshot, priority); err != nil {
		return err
	}
	if priority == lobby.PriorityHost {
		return nil
	}
	return s.announce()
}

func (s *Session) attach(snapshot lobby.Snapshot, priority int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lobby != nil {
		return ErrInLobby
	}
	self := s.self
	for _, p := range snapshot.Peers {
		if p.Is(self) {
			self.ID = p.ID
		}
	}
	self.Priority = priority
	l, err := lobby.FromSnapshot(snapshot)
	if err != nil {
		return err
	}
	if !l.Contains(self.Address()) {
		if _, err := l.AddPeer(self); err != nil {
			return err
		}
	}
	if _, ok := l.Host(); !ok {
		return errors.Wrapf(ErrNoHost, "lobby %q", snapshot.Name)
	}

	s.self = self
	s.lobby = l
	applier := consensus.StateApplierFunc(s.apply)
	if s.self.IsHost() {
		consensusOpts := append([]consensus.Option{consensus.WithLogger(s.opts.logger)}, s.opts.consensusOptions...)
		s.coordinator = consensus.NewCoordinator(s.self, l, s.transport, applier, consensusOpts...)
		if s.group != nil {
			s.runCoordinator()
		}
	}
	s.participant = consensus.NewParticipant(s.self, applier, s.coordinator, s.opts.logger)
	s.logger.Info("entered lobby", "lobby", l.Name, "members", l.Len(), "host", s.self.IsHost())
	return nil
}

// runCoordinator must be called with mu held.
func (s *Session) runCoordinator() {
	coordinator, ctx := s.coordinator, s.groupCtx
	s.group.Go(func() error {
		return coordinator.Run(ctx)
	})
}

// Addr returns the address the Session accepts connections on.
func (s *Session) Addr() net.Addr {
	return s.transport.Addr()
}

// Self returns the peer of the Session, with its current state.
func (s *Session) Self() lobby.Peer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.self
}

// State returns the last state applied by the Session.
func (s *Session) State() lobby.State {
	return s.Self().State
}

// Lobby returns the lobby of the Session, or nil before it joined one.
func (s *Session) Lobby() *lobby.Lobby {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lobby
}

// Peers returns the roster of the lobby in join order.
func (s *Session) Peers() []lobby.Peer {
	if l := s.Lobby(); l != nil {
		return l.Peers()
	}
	return nil
}

func (s *Session) History() *ledger.History {
	return s.history
}

// Propose asks the lobby to move to state. Without a coordinator reachable
// the proposal is silently lost; only local preconditions are reported.
func (s *Session) Propose(ctx context.Context, state lobby.State) (lobby.Proposal, error) {
	s.mu.RLock()
	self, l, coordinator := s.self, s.lobby, s.coordinator
	s.mu.RUnlock()
	if l == nil {
		return lobby.Proposal{}, ErrNoLobby
	}
	p := lobby.NewProposal(self, state)
	if coordinator != nil {
		return p, coordinator.Submit(ctx, p)
	}
	host, ok := l.Host()
	if !ok {
		return lobby.Proposal{}, ErrNoHost
	}
	consensus.InformLeader(s.transport, self, host, p)
	return p, nil
}

func (s *Session) apply(p lobby.Proposal) {
	s.mu.Lock()
	s.self.State = p.State
	s.mu.Unlock()
	if _, err := s.history.Append(p); err != nil {
		s.logger.Error("could not record applied state", "proposal", p.ID, "err", err)
	}
	s.logger.Info("state applied", "proposal", p.ID, "state", p.State.Value)
	s.listener.StateApplied(p)
}
