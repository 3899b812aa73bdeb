package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
)

// DefaultTimeout bounds every call to the directory.
const DefaultTimeout = 5 * time.Second

// ErrLobbyNotFound is returned for every failed call to the directory,
// whatever the cause.
var ErrLobbyNotFound = errors.New("lobby not found")

// Client calls a lobby directory. It is safe for concurrent use.
type Client struct {
	base   string
	http   *http.Client
	logger *slog.Logger
}

type ClientOption func(Client) Client

// WithHTTPClient replaces the HTTP client, and with it DefaultTimeout.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl Client) Client {
		cl.http = c
		return cl
	}
}

func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cl Client) Client {
		cl.logger = logger
		return cl
	}
}

// NewClient returns a Client for the directory served at base, such as
// "http://10.0.0.1:8080/lobbies".
func NewClient(base string, opts ...ClientOption) *Client {
	c := Client{
		base:   strings.TrimSuffix(base, "/"),
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		c = opt(c)
	}
	return &c
}

// List returns every lobby known to the directory.
func (c *Client) List(ctx context.Context) ([]lobby.Snapshot, error) {
	var lobbies []lobbyJSON
	if err := c.do(ctx, http.MethodGet, c.base, nil, &lobbies); err != nil {
		return nil, err
	}
	snapshots := make([]lobby.Snapshot, 0, len(lobbies))
	for _, l := range lobbies {
		snapshots = append(snapshots, l.snapshot())
	}
	return snapshots, nil
}

// Create registers a lobby named lobbyName whose host is the peer listening
// on address.
func (c *Client) Create(ctx context.Context, userName, lobbyName, address string) (lobby.Snapshot, error) {
	var l lobbyJSON
	req := request{UserName: userName, GameName: lobbyName, IPAddress: address}
	if err := c.do(ctx, http.MethodPost, c.base, req, &l); err != nil {
		return lobby.Snapshot{}, err
	}
	return l.snapshot(), nil
}

// Join adds the peer listening on address to the lobby named lobbyName.
func (c *Client) Join(ctx context.Context, userName, lobbyName, address string) (lobby.Snapshot, error) {
	var l lobbyJSON
	req := request{UserName: userName, GameName: lobbyName, IPAddress: address}
	if err := c.do(ctx, http.MethodPost, c.base+"/name/"+url.PathEscape(lobbyName), req, &l); err != nil {
		return lobby.Snapshot{}, err
	}
	return l.snapshot(), nil
}

func (c *Client) do(ctx context.Context, method, target string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "could not encode request")
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrapf(ErrLobbyNotFound, "%s %s: %v", method, target, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("directory unreachable", "method", method, "url", target, "err", err)
		return errors.Wrapf(ErrLobbyNotFound, "%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("directory refused request", "method", method, "url", target, "status", resp.StatusCode)
		return errors.Wrapf(ErrLobbyNotFound, "%s %s: status %d", method, target, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(ErrLobbyNotFound, "%s %s: malformed body: %v", method, target, err)
	}
	return nil
}
