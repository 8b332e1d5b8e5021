package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanAndresGH-hub/marketplace/internal/apiclient"
	"github.com/JuanAndresGH-hub/marketplace/internal/session"
	"github.com/JuanAndresGH-hub/marketplace/internal/storage"
)

type stubAuthAPI struct {
	users map[string]string
	roles map[string]string
}

func (s *stubAuthAPI) Register(_ context.Context, username, password, role string) (string, error) {
	if _, ok := s.users[username]; ok {
		return "", &apiclient.StatusError{Code: 400, Status: "400 Bad Request", Body: "Usuario ya existe", Fallback: true}
	}
	s.users[username] = password
	s.roles[username] = role
	return "Usuario registrado", nil
}

func (s *stubAuthAPI) Login(_ context.Context, username, password string) (string, error) {
	if p, ok := s.users[username]; !ok || p != password {
		return "", &apiclient.StatusError{Code: 401, Status: "401 Unauthorized"}
	}
	return "token-" + username, nil
}

func newTestAuth() (*Auth, *stubAuthAPI, *session.KVPreferences) {
	kv := storage.NewMemory()
	api := &stubAuthAPI{users: map[string]string{}, roles: map[string]string{}}
	return &Auth{API: api, Sessions: session.NewKVSession(kv)}, api, session.NewKVPreferences(kv)
}

func TestAuth_RegisterLogsIn(t *testing.T) {
	a, api, _ := newTestAuth()
	ctx := context.Background()

	require.NoError(t, a.Register(ctx, "ana", "secret"))
	assert.Equal(t, apiclient.RoleUser, api.roles["ana"])
	assert.True(t, a.LoggedIn(ctx))

	s, err := a.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Session{Token: "token-ana", Username: "ana"}, s)

	err = a.Register(ctx, "ana", "secret")
	assert.ErrorIs(t, err, apiclient.ErrHTTPStatus)
}

func TestAuth_LoginFailureKeepsLoggedOut(t *testing.T) {
	a, api, _ := newTestAuth()
	ctx := context.Background()
	api.users["ana"] = "secret"

	err := a.Login(ctx, "ana", "wrong")
	require.Error(t, err)
	assert.Equal(t, 401, apiclient.StatusCode(err))
	assert.False(t, a.LoggedIn(ctx))
}

func TestAuth_Validation(t *testing.T) {
	a, _, _ := newTestAuth()
	ctx := context.Background()
	assert.ErrorIs(t, a.Login(ctx, " ", "x"), ErrValidation)
	assert.ErrorIs(t, a.Login(ctx, "ana", ""), ErrValidation)
	assert.ErrorIs(t, a.Register(ctx, "", "x"), ErrValidation)
}

func TestAuth_LogoutKeepsFavorites(t *testing.T) {
	a, api, prefs := newTestAuth()
	ctx := context.Background()
	api.users["ana"] = "secret"
	require.NoError(t, a.Login(ctx, "ana", "secret"))
	require.NoError(t, prefs.SetFavorites(ctx, []string{"1", "4"}))

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.LoggedIn(ctx))
	_, err := a.Current(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	favs, err := prefs.GetFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, favs)
}
