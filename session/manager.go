package session

import (
	"context"
	"errors"

	"github.com/ambiyansyah-risyal/antrean"
)

// Fixed user-facing failure messages. Raw server error text never reaches
// session state; callers show these as-is.
const (
	loginFailedMessage    = "Login failed. Please check your credentials."
	registerFailedMessage = "Registration failed. Please try again."
)

// Credentials are the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the signup request payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the payload returned by login and register.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Manager runs authentication flows: it wraps API calls with the store's
// loading/error transitions and owns bearer-token persistence.
type Manager struct {
	store  *Store
	client *antrean.Client
	tokens *TokenStore
}

// NewManager wires the session store, API client and token storage together.
func NewManager(store *Store, client *antrean.Client, tokens *TokenStore) *Manager {
	return &Manager{store: store, client: client, tokens: tokens}
}

// Login authenticates with email and password. On success the user is
// stored and the bearer token persisted; on failure the store records the
// fixed login message and the same message is returned to the caller.
func (m *Manager) Login(ctx context.Context, email, password string) (User, error) {
	m.store.SetLoading(true)
	m.store.SetError("")
	defer m.store.SetLoading(false)

	resp, err := antrean.Post[AuthResponse](ctx, m.client, "/auth/login", Credentials{Email: email, Password: password})
	if err != nil {
		m.store.SetError(loginFailedMessage)
		return User{}, errors.New(loginFailedMessage)
	}

	m.store.SetUser(resp.User)
	_ = m.tokens.SetToken(resp.AccessToken)
	return resp.User, nil
}

// Register creates an account and signs the new user in.
func (m *Manager) Register(ctx context.Context, name, email, password string) (User, error) {
	m.store.SetLoading(true)
	m.store.SetError("")
	defer m.store.SetLoading(false)

	resp, err := antrean.Post[AuthResponse](ctx, m.client, "/auth/register", RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		m.store.SetError(registerFailedMessage)
		return User{}, errors.New(registerFailedMessage)
	}

	m.store.SetUser(resp.User)
	_ = m.tokens.SetToken(resp.AccessToken)
	return resp.User, nil
}

// Logout is local-only: it clears the user and removes the persisted token
// without requiring a server round-trip.
func (m *Manager) Logout() {
	m.store.ClearUser()
	_ = m.tokens.ClearToken()
}

// CurrentUser fetches the authenticated user from the backend.
func (m *Manager) CurrentUser(ctx context.Context) (User, error) {
	return antrean.Get[User](ctx, m.client, "/auth/me")
}

// UpdateProfile applies an in-place update to the stored user, if any.
func (m *Manager) UpdateProfile(update func(User) User) {
	snap := m.store.Snapshot()
	if snap.User == nil {
		return
	}
	m.store.SetUser(update(*snap.User))
}

// RequestPasswordReset asks the backend to send a reset email.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := antrean.Post[struct{}](ctx, m.client, "/auth/password-reset", map[string]string{"email": email})
	return err
}

// ResetPassword redeems a reset token for a new password.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := antrean.Post[struct{}](ctx, m.client, "/auth/reset-password", map[string]string{
		"token":       token,
		"newPassword": newPassword,
	})
	return err
}

// RefreshToken rotates and persists the bearer token.
func (m *Manager) RefreshToken(ctx context.Context) error {
	resp, err := antrean.Post[tokenResponse](ctx, m.client, "/auth/refresh", nil)
	if err != nil {
		return err
	}
	return m.tokens.SetToken(resp.Token)
}

// Store exposes the underlying session store.
func (m *Manager) Store() *Store {
	return m.store
}
