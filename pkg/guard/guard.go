// Package guard gates access to protected views based on session state.
// It defers any decision until persisted identity has been loaded, so
// protected content neither flashes for signed-out visitors nor redirects
// a signed-in user away prematurely.
package guard

import (
	"sync"

	"github.com/Aditya3403/feedbackcentral/pkg/session"
)

// State is the guard's position in its lifecycle.
type State string

// Guard states. Hydrating is the initial state; the transition out of it
// happens exactly once, driven by completion of the persistence load.
const (
	StateHydrating       State = "hydrating"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// Decide is the pure transition function: given whether hydration has
// completed and the current token, it returns the guard state. Keeping it
// pure keeps the redirect decision testable apart from any rendering.
func Decide(hydrated bool, token string) State {
	if !hydrated {
		return StateHydrating
	}
	if token == "" {
		return StateUnauthenticated
	}
	return StateAuthenticated
}

// Source is the slice of the session store the guard observes.
// *session.Store satisfies it.
type Source interface {
	Current() session.Session
	Hydrated() bool
	Subscribe(fn func(session.Session))
}

// RedirectFunc is invoked once each time the guard enters the
// unauthenticated state, to send the visitor to the public landing view.
type RedirectFunc func()

// Guard observes a session source and tracks its gate state. It performs
// no network calls and has no failure mode: unreadable persisted storage is
// already normalized to "no session" by hydration.
type Guard struct {
	source   Source
	redirect RedirectFunc

	mu    sync.Mutex
	state State
}

// New mounts a guard over the source. If the source is already hydrated the
// initial transition happens immediately; otherwise it fires when hydration
// completes. Afterwards the guard re-evaluates only on session changes.
func New(source Source, redirect RedirectFunc) *Guard {
	g := &Guard{
		source:   source,
		redirect: redirect,
		state:    StateHydrating,
	}
	source.Subscribe(func(s session.Session) {
		g.evaluate(s.Token)
	})
	if source.Hydrated() {
		g.evaluate(source.Current().Token)
	}
	return g
}

// State returns the guard's current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// evaluate applies the transition function and fires the redirect on each
// entry into StateUnauthenticated. Token churn within a state (for example
// re-login with a fresh credential) causes no transition.
func (g *Guard) evaluate(token string) {
	next := Decide(g.source.Hydrated(), token)

	g.mu.Lock()
	changed := next != g.state
	g.state = next
	g.mu.Unlock()

	if changed && next == StateUnauthenticated && g.redirect != nil {
		g.redirect()
	}
}
