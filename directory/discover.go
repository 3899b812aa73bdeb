package directory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// ErrNoDirectory is returned by Discover when no port in the range answers
// like a lobby directory.
var ErrNoDirectory = errors.New("no lobby directory found")

type discovery struct {
	startPort uint16
	endPort   uint16
	attempts  uint
	interval  time.Duration
	probe     time.Duration
}

type DiscoverOption func(discovery) discovery

func WithPortRange(startPort, endPort uint16) DiscoverOption {
	return func(d discovery) discovery {
		d.startPort = startPort
		d.endPort = endPort
		return d
	}
}

func WithPort(port uint16) DiscoverOption {
	return WithPortRange(port, port)
}

// WithAttempts sets how many times the whole range is scanned, one interval
// apart.
func WithAttempts(attempts uint, interval time.Duration) DiscoverOption {
	return func(d discovery) discovery {
		d.attempts = attempts
		d.interval = interval
		return d
	}
}

// Discover scans a port range of host for a lobby directory and returns the
// base URL of the first one that lists its lobbies. By default it scans ports
// 8080 to 8090 once.
func Discover(ctx context.Context, host string, opts ...DiscoverOption) (string, error) {
	d := discovery{
		startPort: 8080,
		endPort:   8090,
		attempts:  1,
		interval:  time.Second,
		probe:     500 * time.Millisecond,
	}
	for _, opt := range opts {
		d = opt(d)
	}
	probe := WithHTTPClient(&http.Client{Timeout: d.probe})

	for attempt := range d.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(d.interval):
			}
		}
		for port := uint32(d.startPort); port <= uint32(d.endPort); port++ {
			base := fmt.Sprintf("http://%s:%d", host, port)
			if _, err := NewClient(base, probe).List(ctx); err == nil {
				return base, nil
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
		}
	}
	return "", errors.Wrapf(ErrNoDirectory, "%s ports %d-%d", host, d.startPort, d.endPort)
}
