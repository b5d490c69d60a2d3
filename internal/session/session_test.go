package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

type fakeFetcher struct {
	user   *types.SessionUser
	err    error
	delay  time.Duration
	calls  atomic.Int32
	during func()
}

func (f *fakeFetcher) CheckMe(_ context.Context) (*types.SessionUser, error) {
	f.calls.Add(1)
	if f.during != nil {
		f.during()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.user, f.err
}

func TestStore_LoadAuthenticated(t *testing.T) {
	store := NewStore(&fakeFetcher{user: &types.SessionUser{ID: "U1", Role: types.RoleUser}})
	assert.Equal(t, StatusIdle, store.Snapshot().Status)

	snap := store.Load(context.Background())
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.True(t, snap.Authenticated())
	assert.Equal(t, types.RoleUser, snap.Role())
}

func TestStore_LoadFailuresSettleLoggedOut(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "unauthorized", err: &api.Error{Op: "CheckMe", Status: 401, Kind: api.ErrUnauthorized}},
		{name: "network failure", err: &api.Error{Op: "CheckMe", Kind: api.ErrTransport, Cause: errors.New("connection refused")}},
		{name: "server error", err: &api.Error{Op: "CheckMe", Status: 500, Kind: api.ErrBackend}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(&fakeFetcher{err: tt.err})
			snap := store.Load(context.Background())
			assert.Equal(t, StatusUnauthenticated, snap.Status)
			assert.Nil(t, snap.User)
			assert.Equal(t, types.Role(""), snap.Role())
		})
	}
}

func TestStore_ConcurrentLoadsShareOneFetch(t *testing.T) {
	fetcher := &fakeFetcher{user: &types.SessionUser{ID: "U1", Role: types.RoleAdmin}, delay: 50 * time.Millisecond}
	store := NewStore(fetcher)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := store.Load(context.Background())
			assert.True(t, snap.Authenticated())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestStore_PendingOnlyWhileFetching(t *testing.T) {
	fetcher := &fakeFetcher{user: &types.SessionUser{ID: "U1", Role: types.RoleUser}}
	store := NewStore(fetcher)
	var during Status
	fetcher.during = func() { during = store.Snapshot().Status }

	snap := store.Load(context.Background())
	assert.Equal(t, StatusPending, during)
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Equal(t, snap, store.Snapshot())
}

func TestStore_ConcurrentLoadsLeaveStoreSettled(t *testing.T) {
	fetcher := &fakeFetcher{user: &types.SessionUser{ID: "U1", Role: types.RoleUser}}
	store := NewStore(fetcher)

	for round := 0; round < 200; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				snap := store.Load(context.Background())
				assert.Equal(t, StatusAuthenticated, snap.Status)
			}()
		}
		wg.Wait()
		require.Equal(t, StatusAuthenticated, store.Snapshot().Status, "round %d", round)
	}
}

func TestStore_SetAndClear(t *testing.T) {
	store := NewStore(&fakeFetcher{})
	store.Set(&types.SessionUser{ID: "U1", Role: types.RoleCompanyAdmin})
	assert.Equal(t, types.RoleCompanyAdmin, store.Snapshot().Role())

	store.Clear()
	assert.Equal(t, StatusUnauthenticated, store.Snapshot().Status)

	store.Set(nil)
	assert.False(t, store.Snapshot().Authenticated())
}

func TestGate_Evaluate(t *testing.T) {
	admin := &types.SessionUser{ID: "A", Role: types.RoleAdmin}
	user := &types.SessionUser{ID: "U", Role: types.RoleUser}

	tests := []struct {
		name   string
		gate   Gate
		snap   Snapshot
		want   Verdict
		target string
	}{
		{name: "idle waits", gate: NewGate("", types.RoleAdmin), snap: Snapshot{Status: StatusIdle}, want: Wait},
		{name: "pending waits", gate: NewGate("", types.RoleAdmin), snap: Snapshot{Status: StatusPending}, want: Wait},
		{name: "logged out redirects", gate: NewGate("", types.RoleAdmin), snap: Snapshot{Status: StatusUnauthenticated}, want: Redirect, target: DefaultDeniedPath},
		{name: "wrong role redirects", gate: NewGate("/denied", types.RoleAdmin), snap: Snapshot{Status: StatusAuthenticated, User: user}, want: Redirect, target: "/denied"},
		{name: "matching role allowed", gate: NewGate("", types.RoleAdmin), snap: Snapshot{Status: StatusAuthenticated, User: admin}, want: Allow},
		{name: "any role when none required", gate: NewGate(""), snap: Snapshot{Status: StatusAuthenticated, User: user}, want: Allow},
		{name: "multiple roles", gate: NewGate("", types.RoleCompanyAdmin, types.RoleUser), snap: Snapshot{Status: StatusAuthenticated, User: user}, want: Allow},
		{name: "zero gate defaults denied path", gate: Gate{Roles: []types.Role{types.RoleAdmin}}, snap: Snapshot{Status: StatusUnauthenticated}, want: Redirect, target: DefaultDeniedPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.gate.Evaluate(tt.snap)
			assert.Equal(t, tt.want, d.Verdict, d.Verdict.String())
			assert.Equal(t, tt.target, d.Target)
		})
	}
}

func TestGate_MiddlewareRedirectsBeforeContent(t *testing.T) {
	roles := []types.Role{types.RoleUser, types.RoleAdmin, types.RoleCompanyAdmin}

	for _, required := range roles {
		for _, actual := range append(roles, "") {
			name := string(required) + "/" + string(actual)
			if actual == "" {
				name = string(required) + "/anonymous"
			}
			t.Run(name, func(t *testing.T) {
				fetcher := &fakeFetcher{err: &api.Error{Op: "CheckMe", Status: 401, Kind: api.ErrUnauthorized}}
				if actual != "" {
					fetcher = &fakeFetcher{user: &types.SessionUser{ID: "X", Role: actual}}
				}

				rendered := false
				handler := NewGate("/access-denied", required).Middleware(func(*http.Request) *Store {
					return NewStore(fetcher)
				})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					rendered = true
					u, ok := UserFrom(r.Context())
					require.True(t, ok)
					assert.Equal(t, actual, u.Role)
					_, _ = w.Write([]byte("secret page"))
				}))

				w := httptest.NewRecorder()
				handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))

				if actual == required {
					assert.True(t, rendered)
					assert.Equal(t, http.StatusOK, w.Code)
					return
				}
				assert.False(t, rendered)
				assert.Equal(t, http.StatusSeeOther, w.Code)
				assert.Equal(t, "/access-denied", w.Header().Get("Location"))
				assert.NotContains(t, w.Body.String(), "secret page")
			})
		}
	}
}

func TestUserFrom_Missing(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)
}
