// Package session owns the current-user state derived from the persisted
// access token.
package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"detectctl/internal/api"
	"detectctl/internal/config"
	"detectctl/internal/model"
)

// State of the session machine. A store starts in StateLoading and settles
// into exactly one of the other two after Init.
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "loading"
	}
}

// API is the slice of the HTTP client the store needs.
type API interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Profile(ctx context.Context) (*model.User, error)
}

// fallbackTTL is assumed when the token carries no readable expiry claim.
const fallbackTTL = 15 * time.Minute

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Store holds the session token and the user derived from it. It implements
// api.TokenSource, so the HTTP client reads the token through the store
// rather than through ambient storage.
type Store struct {
	mu    sync.Mutex
	dir   string
	log   *zap.Logger
	state State
	token string
	user  *model.User
}

// NewStore creates a store persisting its token under dir (config.Dir() when
// empty). The store starts in StateLoading; call Init to settle it.
func NewStore(dir string, log *zap.Logger) *Store {
	if dir == "" {
		dir = config.Dir()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{dir: dir, log: log, state: StateLoading}
}

func (s *Store) tokenPath() string { return filepath.Join(s.dir, "token.json") }

// Token returns the current bearer token; empty when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State reports the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the authenticated user, or nil.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Init settles the store from the persisted token. With no valid token on
// disk it reaches StateAnonymous without any network call; otherwise it runs
// the whoami check and any failure clears the token.
func (s *Store) Init(ctx context.Context, cli API) error {
	tok, ok := s.loadToken()
	if !ok {
		s.clearToken()
		s.become(StateAnonymous, "", nil)
		return nil
	}

	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()

	user, err := cli.Profile(ctx)
	if err != nil {
		s.log.Info("session check failed, clearing token", zap.Error(err))
		s.clearToken()
		s.become(StateAnonymous, "", nil)
		return nil
	}
	s.become(StateAuthenticated, tok, user)
	return nil
}

// Login authenticates, persists the returned token and becomes
// authenticated. On failure the error is returned unchanged and the prior
// state is kept; the caller renders the message.
func (s *Store) Login(ctx context.Context, cli API, email, password string) error {
	resp, err := cli.Login(ctx, email, password)
	if err != nil {
		return err
	}
	exp := tokenExpiry(resp.Token)
	if err := s.saveToken(resp.Token, exp); err != nil {
		return err
	}
	u := resp.User
	s.become(StateAuthenticated, resp.Token, &u)
	s.log.Info("logged in", zap.String("username", u.Username))
	return nil
}

// Logout deletes the persisted token and resets to anonymous. This is a hard
// reset: no per-user state survives in the store.
func (s *Store) Logout() {
	s.clearToken()
	s.become(StateAnonymous, "", nil)
	s.log.Info("logged out")
}

// RefreshUser re-runs the whoami check. Overlapping calls are safe:
// responses are idempotent reads, so last-resolved-wins.
func (s *Store) RefreshUser(ctx context.Context, cli API) error {
	return s.Init(ctx, cli)
}

func (s *Store) become(st State, token string, user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.token, s.user = st, token, user
}

// loadToken reads the persisted token. Expired or unreadable tokens count as
// absent; the expiry check here saves a whoami round-trip that could only
// fail.
func (s *Store) loadToken() (string, bool) {
	b, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return "", false
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", false
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", false
	}
	return tf.AccessToken, true
}

func (s *Store) saveToken(tok string, exp time.Time) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: tok, ExpiresAt: exp}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath(), b, 0o600)
}

func (s *Store) clearToken() {
	_ = os.Remove(s.tokenPath())
}

// tokenExpiry reads the exp claim without validating the signature; the
// client has no verification key and only needs the timestamp.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Now().Add(fallbackTTL)
}
