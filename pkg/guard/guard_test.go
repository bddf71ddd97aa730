package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya3403/feedbackcentral/pkg/api"
	"github.com/Aditya3403/feedbackcentral/pkg/persist"
	"github.com/Aditya3403/feedbackcentral/pkg/session"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		hydrated bool
		token    string
		want     State
	}{
		{"pending hydration without token", false, "", StateHydrating},
		{"pending hydration with token", false, "tok123", StateHydrating},
		{"hydrated signed out", true, "", StateUnauthenticated},
		{"hydrated signed in", true, "tok123", StateAuthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.hydrated, tt.token))
		})
	}
}

// fakeSource drives the guard without a real session store.
type fakeSource struct {
	current  session.Session
	hydrated bool
	subs     []func(session.Session)
}

func (f *fakeSource) Current() session.Session           { return f.current }
func (f *fakeSource) Hydrated() bool                     { return f.hydrated }
func (f *fakeSource) Subscribe(fn func(session.Session)) { f.subs = append(f.subs, fn) }

func (f *fakeSource) set(s session.Session) {
	f.current = s
	for _, fn := range f.subs {
		fn(s)
	}
}

func TestGuard_NoDecisionWhileHydrating(t *testing.T) {
	src := &fakeSource{}
	redirects := 0
	g := New(src, func() { redirects++ })

	assert.Equal(t, StateHydrating, g.State())
	assert.Zero(t, redirects)
}

func TestGuard_HydrationWithoutTokenRedirectsOnce(t *testing.T) {
	src := &fakeSource{}
	redirects := 0
	g := New(src, func() { redirects++ })

	src.hydrated = true
	src.set(session.Session{})

	assert.Equal(t, StateUnauthenticated, g.State())
	assert.Equal(t, 1, redirects)

	// Further signed-out notifications cause no second redirect.
	src.set(session.Session{})
	assert.Equal(t, 1, redirects)
}

func TestGuard_HydrationWithTokenRendersWithoutRedirect(t *testing.T) {
	src := &fakeSource{}
	redirects := 0
	g := New(src, func() { redirects++ })

	src.hydrated = true
	src.set(session.Session{Token: "tok123", Role: session.RoleManager})

	assert.Equal(t, StateAuthenticated, g.State())
	assert.Zero(t, redirects)
}

func TestGuard_MountedAfterHydrationEvaluatesImmediately(t *testing.T) {
	src := &fakeSource{hydrated: true, current: session.Session{Token: "tok123"}}
	g := New(src, nil)
	assert.Equal(t, StateAuthenticated, g.State())
}

func TestGuard_LogoutDrivesRedirect(t *testing.T) {
	src := &fakeSource{hydrated: true, current: session.Session{Token: "tok123"}}
	redirects := 0
	g := New(src, func() { redirects++ })
	require.Equal(t, StateAuthenticated, g.State())

	src.set(session.Session{})
	assert.Equal(t, StateUnauthenticated, g.State())
	assert.Equal(t, 1, redirects)
}

func TestGuard_TokenChurnWithinStateIsNoTransition(t *testing.T) {
	src := &fakeSource{hydrated: true, current: session.Session{Token: "tok123"}}
	redirects := 0
	g := New(src, func() { redirects++ })

	src.set(session.Session{Token: "tok456"})
	assert.Equal(t, StateAuthenticated, g.State())
	assert.Zero(t, redirects)
}

func TestGuard_ReauthThenLogoutRedirectsAgain(t *testing.T) {
	src := &fakeSource{hydrated: true}
	redirects := 0
	g := New(src, func() { redirects++ })

	src.set(session.Session{})
	require.Equal(t, 1, redirects)

	src.set(session.Session{Token: "tok123"})
	require.Equal(t, StateAuthenticated, g.State())

	src.set(session.Session{})
	assert.Equal(t, 2, redirects)
}

// End to end against the real session store: empty persisted storage must
// produce Hydrating, then Unauthenticated, with exactly one redirect.
func TestGuard_AgainstRealStore(t *testing.T) {
	store := session.NewStore(nil, persist.NewMemoryStore(), session.WithNotify(func(session.Notice) {}))
	redirects := 0
	g := New(store, func() { redirects++ })

	require.Equal(t, StateHydrating, g.State())
	store.Hydrate(context.Background())

	assert.Equal(t, StateUnauthenticated, g.State())
	assert.Equal(t, 1, redirects)
}

func TestGuard_AgainstRealStoreWithPersistedToken(t *testing.T) {
	durable := persist.NewMemoryStore()
	record := []byte(`{"token":"tok123","user":{"id":"1"},"userType":"manager"}`)
	require.NoError(t, durable.Save(context.Background(), session.PersistKey, record))

	store := session.NewStore(nil, durable)
	g := New(store, nil)
	store.Hydrate(context.Background())

	assert.Equal(t, StateAuthenticated, g.State())
	assert.Equal(t, &api.User{ID: "1"}, store.Current().User)
}
