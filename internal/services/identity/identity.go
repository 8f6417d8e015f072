package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/fastprodman/keystore/internal/config"
	"github.com/fastprodman/keystore/internal/metrics"
	"github.com/fastprodman/keystore/internal/repos/sessions"
	pgsessions "github.com/fastprodman/keystore/internal/repos/sessions/postgres"
	"github.com/fastprodman/keystore/internal/repos/users"
	pgusers "github.com/fastprodman/keystore/internal/repos/users/postgres"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Session is an authenticated login: the bearer token, when it stops being
// accepted, and the user it belongs to.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      users.User `json:"user"`
}

type IdentityService struct {
	users    users.Users
	sessions sessions.Sessions
	secret   []byte
	ttl      time.Duration
	hashCost int
	now      func() time.Time
}

func New(dbx *sql.DB, cfg config.SessionConfig) *IdentityService {
	return &IdentityService{
		users:    pgusers.New(dbx),
		sessions: pgsessions.New(dbx),
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// Register creates a USER with a zero balance.
func (s *IdentityService) Register(ctx context.Context, username, password string) (users.User, error) {
	return s.create(ctx, username, password, users.RoleUser)
}

func (s *IdentityService) create(ctx context.Context, username, password string, role users.Role) (users.User, error) {
	if username == "" || password == "" {
		return users.User{}, fmt.Errorf("%w: username and password are required", apperr.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return users.User{}, fmt.Errorf("%w: password too long", apperr.ErrInvalidInput)
		}

		return users.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := users.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}

	err = s.users.Create(ctx, u)
	if err != nil {
		return users.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", u.ID, "username", u.Username, "role", u.Role)

	return u, nil
}

// Login checks the credentials and opens a session. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *IdentityService) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			metrics.Logins.WithLabelValues("invalid").Inc()
			return Session{}, apperr.ErrInvalidCredentials
		}

		return Session{}, fmt.Errorf("get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return Session{}, apperr.ErrInvalidCredentials
	}

	if u.Locked {
		metrics.Logins.WithLabelValues("locked").Inc()
		return Session{}, apperr.ErrUserLocked
	}

	now := s.now().UTC()
	sess := sessions.Session{
		ID:        uuid.New(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	err = s.sessions.Create(ctx, sess)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	token, err := s.sign(sess)
	if err != nil {
		return Session{}, err
	}

	metrics.Logins.WithLabelValues("ok").Inc()

	return Session{Token: token, ExpiresAt: sess.ExpiresAt, User: u}, nil
}

// Logout ends the session behind token. Unknown or expired tokens are ignored.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil //nolint:nilerr
	}

	err = s.sessions.Delete(ctx, claims.sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// CurrentUser resolves token to the user it was issued for.
func (s *IdentityService) CurrentUser(ctx context.Context, token string) (users.User, error) {
	_, u, err := s.resolve(ctx, token)
	if err != nil {
		return users.User{}, err
	}

	if u.Locked {
		return users.User{}, apperr.ErrUserLocked
	}

	return u, nil
}

// Refresh re-reads the session user and re-pins the session with a fresh
// expiry and token. A session whose user was deleted is dropped.
func (s *IdentityService) Refresh(ctx context.Context, token string) (Session, error) {
	sess, u, err := s.resolve(ctx, token)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			_ = s.sessions.Delete(ctx, sess.ID)
		}

		return Session{}, err
	}

	if u.Locked {
		return Session{}, apperr.ErrUserLocked
	}

	sess.ExpiresAt = s.now().UTC().Add(s.ttl)

	err = s.sessions.Extend(ctx, sess.ID, sess.ExpiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("extend session: %w", err)
	}

	fresh, err := s.sign(sess)
	if err != nil {
		return Session{}, err
	}

	return Session{Token: fresh, ExpiresAt: sess.ExpiresAt, User: u}, nil
}

// EnsureAdmin creates the administrator account unless a user with that
// username already exists.
func (s *IdentityService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}

	if !errors.Is(err, users.ErrUserNotFound) {
		return fmt.Errorf("get admin: %w", err)
	}

	_, err = s.create(ctx, username, password, users.RoleAdmin)
	if err != nil && !errors.Is(err, users.ErrDuplicateUsername) {
		return err
	}

	return nil
}

// resolve returns the live session for token and its user. On a missing user
// the session is still returned so the caller can drop it.
func (s *IdentityService) resolve(ctx context.Context, token string) (sessions.Session, users.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return sessions.Session{}, users.User{}, err
	}

	sess, err := s.sessions.Get(ctx, claims.sessionID, s.now().UTC())
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			return sessions.Session{}, users.User{}, fmt.Errorf("%w: session expired or revoked", apperr.ErrUnauthorized)
		}

		return sessions.Session{}, users.User{}, fmt.Errorf("get session: %w", err)
	}

	if sess.UserID != claims.userID {
		return sessions.Session{}, users.User{}, fmt.Errorf("%w: session/user mismatch", apperr.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return sess, users.User{}, fmt.Errorf("get user: %w", err)
	}

	return sess, u, nil
}

// PurgeExpiredSessions removes sessions that can no longer be used.
func (s *IdentityService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}

	if n > 0 {
		slog.Info("expired sessions purged", "count", n)
	}

	return n, nil
}
