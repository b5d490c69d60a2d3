package session

import (
	"context"
	"net/http"
	"slices"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

// DefaultDeniedPath is where rejected visitors are sent.
const DefaultDeniedPath = "/access-denied"

// Verdict is the outcome of a gate check.
type Verdict int

const (
	// Wait means the identity fetch has not settled; render a loading state.
	Wait Verdict = iota
	// Allow means the page may render.
	Allow
	// Redirect means the visitor must be sent to the denied path.
	Redirect
)

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "wait"
	}
}

// Decision is a Verdict plus where to redirect.
type Decision struct {
	Verdict Verdict
	Target  string
}

// Gate is the one guard every protected page shares, parameterized by the
// roles it admits. An empty Roles admits any signed-in user.
type Gate struct {
	Roles      []types.Role
	DeniedPath string
}

// NewGate creates a gate admitting roles.
func NewGate(deniedPath string, roles ...types.Role) Gate {
	if deniedPath == "" {
		deniedPath = DefaultDeniedPath
	}
	return Gate{Roles: roles, DeniedPath: deniedPath}
}

// Evaluate decides what to do with a session snapshot.
func (g Gate) Evaluate(s Snapshot) Decision {
	if !s.Status.Settled() {
		return Decision{Verdict: Wait}
	}
	target := g.DeniedPath
	if target == "" {
		target = DefaultDeniedPath
	}
	if !s.Authenticated() {
		return Decision{Verdict: Redirect, Target: target}
	}
	if len(g.Roles) > 0 && !slices.Contains(g.Roles, s.User.Role) {
		return Decision{Verdict: Redirect, Target: target}
	}
	return Decision{Verdict: Allow}
}

// Check settles the store if needed and evaluates the gate.
func (g Gate) Check(ctx context.Context, store *Store) (Decision, Snapshot) {
	snap := store.Snapshot()
	if !snap.Status.Settled() {
		snap = store.Load(ctx)
	}
	return g.Evaluate(snap), snap
}

type userKey struct{}

// WithUser stores the gated user in ctx.
func WithUser(ctx context.Context, user *types.SessionUser) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom returns the user stored by WithUser.
func UserFrom(ctx context.Context) (*types.SessionUser, bool) {
	user, ok := ctx.Value(userKey{}).(*types.SessionUser)
	return user, ok && user != nil
}

// StoreFactory builds a Store for an incoming request, typically one bound
// to that request's cookies.
type StoreFactory func(r *http.Request) *Store

// Middleware wraps protected handlers. The identity is fetched for each
// request and the gate decides before next writes anything: a rejected
// visitor gets a 303 to the denied path and never sees page content.
func (g Gate) Middleware(stores StoreFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, snap := g.Check(r.Context(), stores(r))
			if decision.Verdict != Allow {
				logger.Info("role gate rejected request",
					"path", r.URL.Path,
					"status", snap.Status.String(),
					"role", string(snap.Role()))
				http.Redirect(w, r, decision.Target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), snap.User)))
		})
	}
}
