package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambiyansyah-risyal/antrean"
)

func newTestManager(t *testing.T, handler http.Handler) (*Manager, *Store, *TokenStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := NewTokenStore(NewMemStorage())
	client := antrean.New(
		antrean.WithBaseURL(server.URL),
		antrean.WithTokenStore(tokens),
	)
	require.NoError(t, client.ValidationError())

	store := NewStore(NewMemStorage())
	return NewManager(store, client, tokens), store, tokens
}

func TestLoginSuccess(t *testing.T) {
	var gotPath string
	var gotBody Credentials
	manager, store, tokens := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"user":{"id":"u1","email":"owner@example.com","name":"Owner","role":"admin"},"access_token":"tok-abc"}}`))
	}))

	user, err := manager.Login(context.Background(), "owner@example.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "/auth/login", gotPath)
	assert.Equal(t, Credentials{Email: "owner@example.com", Password: "hunter2"}, gotBody)
	assert.Equal(t, "Owner", user.Name)

	snap := store.Snapshot()
	require.NotNil(t, snap.User)
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Error)

	token, ok := tokens.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)
}

func TestLoginFailureSetsFixedMessage(t *testing.T) {
	manager, store, tokens := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid password for user owner@example.com","code":"BAD_CREDENTIALS","status":401}`))
	}))

	_, err := manager.Login(context.Background(), "owner@example.com", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "Login failed. Please check your credentials.")

	snap := store.Snapshot()
	assert.Equal(t, "Login failed. Please check your credentials.", snap.Error,
		"raw server error text must never reach session state")
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)

	_, ok := tokens.Token()
	assert.False(t, ok)
}

func TestLoginClearsPreviousError(t *testing.T) {
	attempt := 0
	manager, store, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempt++
		if attempt == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"no","code":"BAD_CREDENTIALS","status":401}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"user":{"id":"u1","email":"owner@example.com","name":"Owner"},"access_token":"tok"}}`))
	}))

	_, err := manager.Login(context.Background(), "owner@example.com", "wrong")
	require.Error(t, err)
	require.NotEmpty(t, store.Snapshot().Error)

	_, err = manager.Login(context.Background(), "owner@example.com", "right")
	require.NoError(t, err)
	assert.Empty(t, store.Snapshot().Error)
}

func TestRegisterSuccess(t *testing.T) {
	var gotBody RegisterRequest
	manager, store, tokens := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"success":true,"data":{"user":{"id":"u2","email":"new@example.com","name":"New"},"access_token":"tok-new"}}`))
	}))

	user, err := manager.Register(context.Background(), "New", "new@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, RegisterRequest{Name: "New", Email: "new@example.com", Password: "secret"}, gotBody)
	assert.Equal(t, "u2", user.ID)
	assert.True(t, store.Snapshot().IsAuthenticated)

	token, ok := tokens.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-new", token)
}

func TestRegisterFailureSetsFixedMessage(t *testing.T) {
	manager, store, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"email already taken","code":"CONFLICT","status":409}`))
	}))

	_, err := manager.Register(context.Background(), "New", "taken@example.com", "secret")
	require.Error(t, err)
	assert.EqualError(t, err, "Registration failed. Please try again.")
	assert.Equal(t, "Registration failed. Please try again.", store.Snapshot().Error)
}

func TestLogoutIsLocalOnly(t *testing.T) {
	serverHit := false
	manager, store, tokens := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHit = true
	}))

	store.SetUser(User{ID: "u1", Email: "owner@example.com"})
	require.NoError(t, tokens.SetToken("tok"))

	manager.Logout()

	assert.False(t, serverHit, "logout must not call the backend")
	assert.False(t, store.Snapshot().IsAuthenticated)
	_, ok := tokens.Token()
	assert.False(t, ok)
}

func TestCurrentUserSendsBearer(t *testing.T) {
	var gotAuth string
	manager, _, tokens := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"data":{"id":"u1","email":"owner@example.com","name":"Owner"}}`))
	}))
	require.NoError(t, tokens.SetToken("tok-xyz"))

	user, err := manager.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)
	assert.Equal(t, "Owner", user.Name)
}

func TestUpdateProfile(t *testing.T) {
	manager, store, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// Without a user the update is a no-op
	manager.UpdateProfile(func(u User) User {
		u.Name = "Changed"
		return u
	})
	assert.Nil(t, store.Snapshot().User)

	store.SetUser(User{ID: "u1", Email: "owner@example.com", Name: "Owner"})
	manager.UpdateProfile(func(u User) User {
		u.Name = "Renamed"
		return u
	})
	assert.Equal(t, "Renamed", store.Snapshot().User.Name)
}

func TestRefreshToken(t *testing.T) {
	manager, _, tokens := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"token":"tok-rotated"}}`))
	}))

	require.NoError(t, manager.RefreshToken(context.Background()))
	token, ok := tokens.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-rotated", token)
}

func TestPasswordResetFlow(t *testing.T) {
	var paths []string
	manager, _, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"success":true,"data":null}`))
	}))

	require.NoError(t, manager.RequestPasswordReset(context.Background(), "owner@example.com"))
	require.NoError(t, manager.ResetPassword(context.Background(), "reset-tok", "newpass"))
	assert.Equal(t, []string{"/auth/password-reset", "/auth/reset-password"}, paths)
}
