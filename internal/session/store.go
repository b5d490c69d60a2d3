// Package session holds the current identity and the role gate that
// protects role-specific pages.
package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
	"golang.org/x/sync/singleflight"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger installs a logger for the session package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Status is where the identity fetch stands.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "idle"
	}
}

// Settled reports whether the identity fetch has finished either way.
func (s Status) Settled() bool {
	return s == StatusAuthenticated || s == StatusUnauthenticated
}

// Snapshot is a point-in-time copy of the store.
type Snapshot struct {
	Status Status
	User   *types.SessionUser
}

// Authenticated reports whether a user is signed in.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// Role returns the signed-in role, or "" when logged out.
func (s Snapshot) Role() types.Role {
	if !s.Authenticated() {
		return ""
	}
	return s.User.Role
}

// IdentityFetcher resolves the current session's user.
type IdentityFetcher interface {
	CheckMe(ctx context.Context) (*types.SessionUser, error)
}

// Store holds the current identity. It is safe for concurrent use.
type Store struct {
	fetcher IdentityFetcher

	mu     sync.RWMutex
	status Status
	user   *types.SessionUser

	group singleflight.Group
}

// NewStore creates an idle store that resolves identity with fetcher.
func NewStore(fetcher IdentityFetcher) *Store {
	return &Store{fetcher: fetcher}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Status: s.status, User: s.user}
}

// Load runs the identity fetch and returns the settled state. Any failure,
// network errors included, settles as unauthenticated rather than an error.
// Concurrent calls share one fetch.
func (s *Store) Load(ctx context.Context) Snapshot {
	v, _, _ := s.group.Do("checkme", func() (any, error) {
		// only the fetching caller marks the store pending, so a caller
		// joining a finished fetch cannot leave it pending
		s.mu.Lock()
		s.status = StatusPending
		s.mu.Unlock()

		user, err := s.fetcher.CheckMe(ctx)
		if err != nil {
			if !errors.Is(err, api.ErrUnauthorized) && !errors.Is(err, context.Canceled) {
				logger.Warn("identity fetch failed, treating as logged out", slog.Any("err", err))
			}
			return s.settle(StatusUnauthenticated, nil), nil
		}
		return s.settle(StatusAuthenticated, user), nil
	})
	return v.(Snapshot)
}

// Set marks the store authenticated as user, e.g. right after login.
func (s *Store) Set(user *types.SessionUser) {
	if user == nil {
		s.Clear()
		return
	}
	s.settle(StatusAuthenticated, user)
}

// Clear marks the store logged out.
func (s *Store) Clear() {
	s.settle(StatusUnauthenticated, nil)
}

func (s *Store) settle(status Status, user *types.SessionUser) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.user = user
	return Snapshot{Status: status, User: user}
}
