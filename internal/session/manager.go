package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/millesime/barrels/internal/logger"
	"github.com/millesime/barrels/internal/storage"
	"github.com/millesime/barrels/pkg/client"
	"github.com/millesime/barrels/pkg/domain"
)

// Persisted keys.
const (
	KeyToken = "auth_token"
	KeyUser  = "user_data"
)

// DefaultCheckInterval is how often the background check tests the token.
const DefaultCheckInterval = time.Minute

var (
	// ErrUnauthenticated is returned before any network call when an
	// operation needs a token and none is held.
	ErrUnauthenticated = errors.New("session: not authenticated")
	// ErrIncompleteAuth is returned when the server answers a login or
	// registration without both a token and a user.
	ErrIncompleteAuth = errors.New("session: auth response missing token or user")
)

// Manager holds the current user and bearer token, keeps them in sync with
// the persistence store and runs the periodic token check.
type Manager struct {
	api       *client.Client
	store     storage.Store
	logger    *logger.Logger
	now       func() time.Time
	interval  time.Duration
	onExpired func()

	mu    sync.Mutex
	token string
	user  *domain.User
	// gen changes whenever a session begins or ends. Responses to requests
	// issued under an older generation are not applied.
	gen uint64

	lifeMu  sync.Mutex
	watcher *watcher
	closed  bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore sets the persistence store. Without one, persistence is a no-op.
func WithStore(s storage.Store) Option {
	return func(m *Manager) {
		m.store = storage.OrNop(s)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) {
		m.logger = logger.OrNop(l)
	}
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithCheckInterval sets the background token check period.
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithExpiryHook registers fn to run after the background check ends an
// expired session.
func WithExpiryHook(fn func()) Option {
	return func(m *Manager) {
		m.onExpired = fn
	}
}

// NewManager creates an anonymous session manager talking to api.
func NewManager(api *client.Client, opts ...Option) *Manager {
	m := &Manager{
		api:      api,
		store:    storage.Nop{},
		logger:   logger.NewNop(),
		now:      time.Now,
		interval: DefaultCheckInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Token returns the current bearer token, or "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneUser(m.user)
}

// Authenticated is true iff both a token and a user are held.
func (m *Manager) Authenticated() bool {
	return m.Snapshot().Authenticated()
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Session{Token: m.token, User: cloneUser(m.user)}
}

// Login authenticates with credentials and starts a session. Errors from
// the API are returned unchanged and leave the previous state in place.
func (m *Manager) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		m.logger.Warn("login failed", "email", creds.Email, "error", err)
		return nil, err
	}
	if err := m.begin(ctx, resp); err != nil {
		return nil, err
	}
	m.logger.Info("logged in", "email", resp.User.Email, "role", resp.User.Role)
	return resp, nil
}

// Register creates an account and starts a session for it. Only the b2b and
// b2c roles can be self-registered.
func (m *Manager) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	role, err := domain.RegistrationRole(req.Role)
	if err != nil {
		return nil, err
	}
	req.Role = role

	resp, err := m.api.Register(ctx, req)
	if err != nil {
		m.logger.Warn("registration failed", "email", req.Email, "error", err)
		return nil, err
	}
	if err := m.begin(ctx, resp); err != nil {
		return nil, err
	}
	m.logger.Info("registered", "email", resp.User.Email, "role", resp.User.Role)
	return resp, nil
}

// Logout tells the server to drop the token and clears the session. The
// server call is best-effort; local state is cleared whatever its outcome.
func (m *Manager) Logout(ctx context.Context) {
	token := m.Token()
	defer m.clear(context.WithoutCancel(ctx))

	if token == "" {
		return
	}
	if err := m.api.WithToken(token).Logout(ctx); err != nil {
		m.logger.Warn("server logout failed", "error", err)
	}
}

// FetchProfile reloads the current user from the server.
func (m *Manager) FetchProfile(ctx context.Context) (*domain.User, error) {
	token, gen, err := m.credential()
	if err != nil {
		return nil, err
	}
	u, err := m.api.WithToken(token).GetMe(ctx)
	if err != nil {
		m.logger.Warn("fetch profile failed", "error", err)
		return nil, err
	}
	m.applyUser(ctx, gen, u)
	return u, nil
}

// UpdateProfile sends a partial profile update and stores the result.
func (m *Manager) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	token, gen, err := m.credential()
	if err != nil {
		return nil, err
	}
	u, err := m.api.WithToken(token).UpdateMe(ctx, upd)
	if err != nil {
		m.logger.Warn("update profile failed", "error", err)
		return nil, err
	}
	m.applyUser(ctx, gen, u)
	return u, nil
}

// ChangePassword rotates the password. Local state is not touched.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) error {
	token, _, err := m.credential()
	if err != nil {
		return err
	}
	if err := m.api.WithToken(token).ChangePassword(ctx, current, next); err != nil {
		m.logger.Warn("change password failed", "error", err)
		return err
	}
	return nil
}

// Restore loads a persisted session. It does nothing when a session is
// already held. Corrupt user data is discarded together with the token.
// Restore never fails; problems are logged.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		return
	}
	token, ok := m.read(ctx, KeyToken)
	if !ok || token == "" {
		return
	}
	raw, ok := m.read(ctx, KeyUser)
	if !ok || raw == "" {
		return
	}

	var u *domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u == nil {
		if err == nil {
			err = errors.New("null user record")
		}
		m.logger.Warn("discarding corrupt persisted session", "error", err)
		m.drop(ctx)
		return
	}

	m.token = token
	m.user = u
	m.gen++
	m.logger.Debug("session restored", "email", u.Email)
}

// IsTokenValid reports whether the held token is present and unexpired.
func (m *Manager) IsTokenValid() bool {
	return tokenValid(m.Token(), m.now())
}

// TokenExpiry returns the expiry of the held token, if it can be decoded.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	token := m.Token()
	if token == "" {
		return time.Time{}, false
	}
	exp, err := ExpiresAt(token)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

// RefreshToken swaps the held token for a fresh one. It reports false on
// any failure and then leaves the current token in place.
func (m *Manager) RefreshToken(ctx context.Context) bool {
	m.mu.Lock()
	token, gen := m.token, m.gen
	m.mu.Unlock()

	if token == "" {
		return false
	}
	fresh, err := m.api.WithToken(token).RefreshToken(ctx)
	if err != nil {
		m.logger.Warn("token refresh failed", "error", err)
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		m.logger.Debug("discarding refreshed token for ended session")
		return false
	}
	m.token = fresh
	if err := m.store.Set(ctx, KeyToken, fresh); err != nil {
		m.logger.Warn("persist token failed", "error", err)
	}
	return true
}

func (m *Manager) credential() (string, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", 0, ErrUnauthenticated
	}
	return m.token, m.gen, nil
}

func (m *Manager) begin(ctx context.Context, resp *domain.AuthResponse) error {
	if resp == nil || resp.AccessToken == "" || resp.User == nil {
		return ErrIncompleteAuth
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = resp.AccessToken
	m.user = cloneUser(resp.User)
	m.gen++

	if err := m.store.Set(ctx, KeyToken, m.token); err != nil {
		m.logger.Warn("persist token failed", "error", err)
	}
	m.persistUser(ctx)
	return nil
}

func (m *Manager) applyUser(ctx context.Context, gen uint64, u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || m.token == "" {
		m.logger.Debug("discarding profile for ended session")
		return
	}
	m.user = cloneUser(u)
	m.persistUser(ctx)
}

func (m *Manager) clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	m.gen++
	m.drop(ctx)
}

// drop removes the persisted session. Callers hold mu.
func (m *Manager) drop(ctx context.Context) {
	for _, key := range []string{KeyToken, KeyUser} {
		if err := m.store.Delete(ctx, key); err != nil {
			m.logger.Warn("delete persisted session failed", "key", key, "error", err)
		}
	}
}

// persistUser writes the held user. Callers hold mu.
func (m *Manager) persistUser(ctx context.Context) {
	data, err := json.Marshal(m.user)
	if err != nil {
		m.logger.Warn("encode user failed", "error", err)
		return
	}
	if err := m.store.Set(ctx, KeyUser, string(data)); err != nil {
		m.logger.Warn("persist user failed", "error", err)
	}
}

// read returns a persisted value. Callers hold mu.
func (m *Manager) read(ctx context.Context, key string) (string, bool) {
	v, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("read persisted session failed", "key", key, "error", err)
		}
		return "", false
	}
	return v, true
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

// String implements fmt.Stringer without leaking the token.
func (m *Manager) String() string {
	s := m.Snapshot()
	if !s.Authenticated() {
		return "session(anonymous)"
	}
	return fmt.Sprintf("session(%s, %s)", s.User.Email, s.User.Role)
}
