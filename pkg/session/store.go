package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/Aditya3403/feedbackcentral/pkg/api"
	"github.com/Aditya3403/feedbackcentral/pkg/persist"
)

// signupSuccessMessage mirrors the one-shot toast shown after registration.
const signupSuccessMessage = "Account created successfully! Please login to continue"

// AuthClient is the slice of the remote API the store needs.
// *api.Client satisfies it.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Signup(ctx context.Context, reg api.Registration, role string) (*api.AuthResponse, error)
}

// Store is the single source of truth for the current identity. It is a
// process-wide singleton injected explicitly into the guard and views, not
// ambient global state. Every successful mutation is serialized to durable
// storage before observers are notified, so the persisted copy never lags
// the in-memory one.
type Store struct {
	client  AuthClient
	durable persist.Store
	notify  NotifyFunc

	mu          sync.RWMutex
	current     Session
	hydrated    bool
	subscribers []func(Session)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNotify wires the one-shot notice sink (the display layer's toasts).
func WithNotify(fn NotifyFunc) StoreOption {
	return func(s *Store) { s.notify = fn }
}

// NewStore creates an empty, not-yet-hydrated session store.
func NewStore(client AuthClient, durable persist.Store, opts ...StoreOption) *Store {
	s := &Store{
		client:  client,
		durable: durable,
		notify:  LogNotifier(slog.Default()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the bearer credential, satisfying api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Hydrated reports whether the one-time load of persisted state has run.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Subscribe registers fn to run after every committed session change.
// Callbacks run synchronously on the mutating goroutine, after the durable
// copy has been written.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Hydrate performs the one-time load of persisted identity at startup.
// A missing or unreadable record is treated as "no session": the store
// hydrates empty and reports no error. Records that persisted without a
// token are normalized to empty, keeping the all-or-nothing invariant.
func (s *Store) Hydrate(ctx context.Context) {
	restored := Session{}

	data, err := s.durable.Load(ctx, PersistKey)
	switch {
	case errors.Is(err, persist.ErrNotFound):
		// First run or cleared storage.
	case err != nil:
		slog.Warn("session: hydration failed, starting signed out", "error", err)
	default:
		var rec persistedSession
		if err := json.Unmarshal(data, &rec); err != nil {
			slog.Warn("session: persisted record unreadable, starting signed out", "error", err)
		} else if rec.Token != "" {
			restored = Session{User: rec.User, Token: rec.Token, Role: Role(rec.UserType)}
		}
	}

	s.mu.Lock()
	s.current = restored
	s.hydrated = true
	subs := append([]func(Session){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(restored)
	}
}

// Login exchanges credentials for an authenticated session. On success the
// session is committed atomically and persisted; on rejection it is left
// exactly as it was and the API's *api.AuthError is returned with the
// server's reason. No retries, no redirects.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.commit(ctx, Session{
		User:  resp.User,
		Token: resp.AccessToken,
		Role:  Role(resp.UserType),
	})
	return nil
}

// Signup registers a new account against the role-specific endpoint. On
// success it commits the session from the response and emits a one-shot
// success notice; routing the user anywhere is left to the caller. On
// failure the session is unchanged and an error notice accompanies the
// returned error.
func (s *Store) Signup(ctx context.Context, reg api.Registration, role Role) error {
	resp, err := s.client.Signup(ctx, reg, string(role))
	if err != nil {
		s.emit(Notice{Level: NoticeError, Message: "Signup failed"})
		return err
	}

	// Some deployments register without issuing a credential; the session
	// then stays empty rather than holding a user with no token.
	if resp.AccessToken != "" {
		next := Session{User: resp.User, Token: resp.AccessToken, Role: Role(resp.UserType)}
		if next.Role == "" {
			next.Role = role
		}
		s.commit(ctx, next)
	}

	s.emit(Notice{Level: NoticeSuccess, Message: signupSuccessMessage})
	return nil
}

// Logout unconditionally resets the session and removes the persisted copy.
// It is idempotent and always succeeds; a durable-store failure is logged,
// not returned, because the in-memory reset already happened.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = Session{}
	subs := append([]func(Session){}, s.subscribers...)
	s.mu.Unlock()

	if err := s.durable.Delete(ctx, PersistKey); err != nil {
		slog.Warn("session: failed to remove persisted session", "error", err)
	}

	for _, fn := range subs {
		fn(Session{})
	}
	s.emit(Notice{Level: NoticeSuccess, Message: "Logged out"})
}

// commit applies a fully-populated session: durable write first, then the
// in-memory switch, then subscriber callbacks. Mutations land in response
// arrival order; overlapping calls are the caller's concern (expected
// usage is single user, single tab).
func (s *Store) commit(ctx context.Context, next Session) {
	rec := persistedSession{Token: next.Token, User: next.User, UserType: string(next.Role)}
	data, err := json.Marshal(rec)
	if err == nil {
		if err := s.durable.Save(ctx, PersistKey, data); err != nil {
			slog.Warn("session: failed to persist session", "error", err)
		}
	}

	s.mu.Lock()
	s.current = next
	subs := append([]func(Session){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// emit delivers a one-shot notice to the display layer.
func (s *Store) emit(n Notice) {
	if s.notify != nil {
		s.notify(n)
	}
}
