package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya3403/feedbackcentral/pkg/api"
	"github.com/Aditya3403/feedbackcentral/pkg/persist"
)

// fakeAuthClient scripts API responses without a network.
type fakeAuthClient struct {
	loginResp  *api.AuthResponse
	loginErr   error
	signupResp *api.AuthResponse
	signupErr  error

	gotRole string
}

func (f *fakeAuthClient) Login(_ context.Context, _, _ string) (*api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuthClient) Signup(_ context.Context, _ api.Registration, role string) (*api.AuthResponse, error) {
	f.gotRole = role
	return f.signupResp, f.signupErr
}

func managerResponse() *api.AuthResponse {
	return &api.AuthResponse{
		User:        &api.User{ID: "1", FullName: "A", Email: "a@b.com"},
		AccessToken: "tok123",
		UserType:    "manager",
	}
}

func TestLogin_PopulatesSessionFromResponse(t *testing.T) {
	durable := persist.NewMemoryStore()
	store := NewStore(&fakeAuthClient{loginResp: managerResponse()}, durable)

	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))

	got := store.Current()
	require.NotNil(t, got.User)
	assert.Equal(t, "1", got.User.ID)
	assert.Equal(t, "tok123", got.Token)
	assert.Equal(t, RoleManager, got.Role)
	assert.True(t, got.Authenticated())
}

func TestLogin_PersistsSynchronously(t *testing.T) {
	durable := persist.NewMemoryStore()
	store := NewStore(&fakeAuthClient{loginResp: managerResponse()}, durable)

	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))

	data, err := durable.Load(context.Background(), PersistKey)
	require.NoError(t, err)

	var rec struct {
		Token    string    `json:"token"`
		User     *api.User `json:"user"`
		UserType string    `json:"userType"`
	}
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "tok123", rec.Token)
	assert.Equal(t, "manager", rec.UserType)
	require.NotNil(t, rec.User)
	assert.Equal(t, "a@b.com", rec.User.Email)
}

func TestLogin_RejectedLeavesSessionUnchanged(t *testing.T) {
	durable := persist.NewMemoryStore()
	client := &fakeAuthClient{
		loginErr: &api.AuthError{Status: http.StatusUnauthorized, Detail: "Invalid credentials"},
	}
	store := NewStore(client, durable)

	err := store.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	assert.Equal(t, Session{}, store.Current())
	_, loadErr := durable.Load(context.Background(), PersistKey)
	assert.ErrorIs(t, loadErr, persist.ErrNotFound)
}

func TestLogin_RejectedKeepsPriorIdentity(t *testing.T) {
	durable := persist.NewMemoryStore()
	client := &fakeAuthClient{loginResp: managerResponse()}
	store := NewStore(client, durable)
	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))

	client.loginResp = nil
	client.loginErr = &api.AuthError{Status: http.StatusUnauthorized, Detail: "Invalid credentials"}
	require.Error(t, store.Login(context.Background(), "a@b.com", "wrong"))

	got := store.Current()
	assert.Equal(t, "tok123", got.Token)
	assert.Equal(t, RoleManager, got.Role)
}

func TestSignup_CommitsAndNotifiesSuccess(t *testing.T) {
	durable := persist.NewMemoryStore()
	client := &fakeAuthClient{signupResp: &api.AuthResponse{
		User:        &api.User{ID: "7", FullName: "Jane"},
		AccessToken: "tok7",
		UserType:    "employee",
	}}

	var notices []Notice
	store := NewStore(client, durable, WithNotify(func(n Notice) { notices = append(notices, n) }))

	err := store.Signup(context.Background(), api.Registration{FullName: "Jane"}, RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, "employee", client.gotRole)

	got := store.Current()
	assert.Equal(t, "tok7", got.Token)
	assert.Equal(t, RoleEmployee, got.Role)

	require.Len(t, notices, 1)
	assert.Equal(t, NoticeSuccess, notices[0].Level)
	assert.Equal(t, signupSuccessMessage, notices[0].Message)
}

func TestSignup_WithoutTokenLeavesSessionEmpty(t *testing.T) {
	durable := persist.NewMemoryStore()
	client := &fakeAuthClient{signupResp: &api.AuthResponse{
		User: &api.User{ID: "7"},
	}}
	store := NewStore(client, durable, WithNotify(func(Notice) {}))

	require.NoError(t, store.Signup(context.Background(), api.Registration{}, RoleManager))

	assert.Equal(t, Session{}, store.Current())
	_, err := durable.Load(context.Background(), PersistKey)
	assert.ErrorIs(t, err, persist.ErrNotFound)
}

func TestSignup_FailureNotifiesAndReturnsError(t *testing.T) {
	durable := persist.NewMemoryStore()
	client := &fakeAuthClient{
		signupErr: &api.AuthError{Status: http.StatusConflict, Detail: "Email already registered"},
	}

	var notices []Notice
	store := NewStore(client, durable, WithNotify(func(n Notice) { notices = append(notices, n) }))

	err := store.Signup(context.Background(), api.Registration{}, RoleManager)
	require.Error(t, err)
	assert.Equal(t, "Email already registered", err.Error())
	assert.Equal(t, Session{}, store.Current())

	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Level)
}

func TestLogout_ClearsEverythingIdempotently(t *testing.T) {
	durable := persist.NewMemoryStore()
	store := NewStore(&fakeAuthClient{loginResp: managerResponse()}, durable)
	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))

	store.Logout(context.Background())
	assert.Equal(t, Session{}, store.Current())
	_, err := durable.Load(context.Background(), PersistKey)
	assert.ErrorIs(t, err, persist.ErrNotFound)

	// Logging out while signed out is a no-op beyond the notice.
	store.Logout(context.Background())
	assert.Equal(t, Session{}, store.Current())
}

func TestLogout_SurvivesDurableFailure(t *testing.T) {
	store := NewStore(&fakeAuthClient{}, failingStore{})
	store.Logout(context.Background())
	assert.Equal(t, Session{}, store.Current())
}

func TestSubscribe_RunsAfterPersist(t *testing.T) {
	durable := persist.NewMemoryStore()
	store := NewStore(&fakeAuthClient{loginResp: managerResponse()}, durable)

	var persistedAtNotify []byte
	store.Subscribe(func(s Session) {
		persistedAtNotify, _ = durable.Load(context.Background(), PersistKey)
	})

	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))
	assert.NotEmpty(t, persistedAtNotify, "durable copy must be written before observers run")
}

func TestSubscribe_ObservesLogout(t *testing.T) {
	durable := persist.NewMemoryStore()
	store := NewStore(&fakeAuthClient{loginResp: managerResponse()}, durable)
	require.NoError(t, store.Login(context.Background(), "a@b.com", "secret"))

	var seen []Session
	store.Subscribe(func(s Session) { seen = append(seen, s) })

	store.Logout(context.Background())
	require.Len(t, seen, 1)
	assert.False(t, seen[0].Authenticated())
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (failingStore) Save(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (failingStore) Delete(context.Context, string) error       { return errors.New("disk on fire") }
