// Package session tracks who is signed in and keeps the stored credentials
// in step with the backend.
package session

import (
	"context"
	"log/slog"
	"sync"

	"kanny/internal/api"
	"kanny/internal/errmsg"
)

type State int

const (
	Unauthenticated State = iota
	Checking
	Authenticated
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Backend is the part of the API client a session needs. *api.Client
// implements it.
type Backend interface {
	Signup(ctx context.Context, email, password, name string) (*api.AuthResult, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	FederatedLogin(ctx context.Context, idToken string) (*api.AuthResult, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (string, error)
	CurrentUser(ctx context.Context) (*api.User, error)

	AccessToken() string
	SetAccessToken(token string) error
	ClearSession() error
}

var _ Backend = (*api.Client)(nil)

// Manager owns the session state. It is safe for concurrent use.
type Manager struct {
	backend Backend
	logger  *slog.Logger

	mu    sync.RWMutex
	state State
	user  *api.User
}

func New(backend Backend, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{backend: backend, logger: logger}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *api.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

func (m *Manager) settle(state State, user *api.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, m.user = state, user
}

// Init restores a stored session. An access token the backend rejects gets
// exactly one refresh attempt; when that fails too the stored credentials
// are dropped. Init never fails, it only settles the state.
func (m *Manager) Init(ctx context.Context) {
	m.settle(Checking, nil)

	if m.backend.AccessToken() == "" {
		m.settle(Unauthenticated, nil)
		return
	}

	user, err := m.backend.CurrentUser(ctx)
	if err == nil {
		m.settle(Authenticated, user)
		return
	}
	m.logger.Info("stored session rejected, refreshing", "error", err)

	user, err = m.refresh(ctx)
	if err != nil {
		m.logger.Info("refresh failed, clearing credentials", "error", err)
		if err := m.backend.ClearSession(); err != nil {
			m.logger.Warn("clearing credentials", "error", err)
		}
		m.settle(Unauthenticated, nil)
		return
	}
	m.settle(Authenticated, user)
}

func (m *Manager) refresh(ctx context.Context) (*api.User, error) {
	token, err := m.backend.RefreshToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.backend.SetAccessToken(token); err != nil {
		return nil, err
	}
	return m.backend.CurrentUser(ctx)
}

func (m *Manager) Login(ctx context.Context, email, password string) error {
	res, err := m.backend.Login(ctx, email, password)
	return m.establish(res, err, "Login failed")
}

func (m *Manager) Signup(ctx context.Context, email, password, name string) error {
	res, err := m.backend.Signup(ctx, email, password, name)
	return m.establish(res, err, "Signup failed")
}

// FederatedLogin signs in with an ID token from the identity provider.
func (m *Manager) FederatedLogin(ctx context.Context, idToken string) error {
	res, err := m.backend.FederatedLogin(ctx, idToken)
	return m.establish(res, err, "Firebase login failed")
}

func (m *Manager) establish(res *api.AuthResult, err error, fallback string) error {
	if err != nil {
		m.logger.Debug("authentication failed", "error", err)
		return errmsg.WrapOr(err, fallback)
	}
	if err := m.backend.SetAccessToken(res.AccessToken); err != nil {
		return errmsg.WrapOr(err, fallback)
	}
	user := res.User
	m.settle(Authenticated, &user)
	return nil
}

// Logout tells the backend, then forgets the local session whatever the
// backend said.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.backend.Logout(ctx); err != nil {
		m.logger.Warn("logout request failed", "error", err)
	}
	if err := m.backend.ClearSession(); err != nil {
		m.logger.Warn("clearing credentials", "error", err)
	}
	m.settle(Unauthenticated, nil)
}
