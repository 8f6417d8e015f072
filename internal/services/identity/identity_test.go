package identity

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/fastprodman/keystore/internal/config"
	"github.com/fastprodman/keystore/internal/infra/pgtestutil"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, db *sql.DB) *IdentityService {
	t.Helper()

	s := New(db, config.SessionConfig{Secret: "test-secret", TTL: time.Hour})
	s.hashCost = bcrypt.MinCost

	return s
}

func TestIdentity_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := newTestService(t, db)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	u, err := s.Register(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Balance != 0 || u.IsAdmin() || u.Locked {
		t.Fatalf("unexpected new user: %+v", u)
	}
	if u.PasswordHash == "pw" {
		t.Fatalf("password stored in clear")
	}

	_, err = s.Register(ctx, "alice", "other")
	if !errors.Is(err, apperr.ErrDuplicateUsername) {
		t.Fatalf("want ErrDuplicateUsername, got %v", err)
	}

	sess, err := s.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.User.ID != u.ID {
		t.Fatalf("login user mismatch: %v vs %v", sess.User.ID, u.ID)
	}

	got, err := s.CurrentUser(ctx, sess.Token)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("current user: want alice, got %q", got.Username)
	}
}

func TestIdentity_Register_Validation(t *testing.T) {
	t.Parallel()

	s := &IdentityService{hashCost: bcrypt.MinCost, now: time.Now}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty_username", password: "pw"},
		{name: "empty_password", username: "bob"},
		{name: "both_empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := s.Register(t.Context(), tt.username, tt.password)
			if !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestIdentity_Login_Failures(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := newTestService(t, db)
	ctx := t.Context()

	_, err := s.Register(ctx, "carol", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, role, locked)
		SELECT gen_random_uuid(), 'dave', password_hash, 'USER', TRUE FROM users WHERE username = 'carol'`)
	if err != nil {
		t.Fatalf("seed locked user: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "unknown_user", username: "nobody", password: "secret", wantErr: apperr.ErrInvalidCredentials},
		{name: "wrong_password", username: "carol", password: "nope", wantErr: apperr.ErrInvalidCredentials},
		{name: "locked_user", username: "dave", password: "secret", wantErr: apperr.ErrUserLocked},
		{name: "locked_user_wrong_password", username: "dave", password: "nope", wantErr: apperr.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		_, err := s.Login(ctx, tt.username, tt.password)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("%s: want %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestIdentity_LogoutRevokesToken(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := newTestService(t, db)
	ctx := t.Context()

	_, err := s.Register(ctx, "erin", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	sess, err := s.Login(ctx, "erin", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	err = s.Logout(ctx, sess.Token)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err = s.CurrentUser(ctx, sess.Token)
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized after logout, got %v", err)
	}

	err = s.Logout(ctx, sess.Token)
	if err != nil {
		t.Fatalf("second logout must be a no-op, got %v", err)
	}

	err = s.Logout(ctx, "garbage")
	if err != nil {
		t.Fatalf("logout with garbage token must be a no-op, got %v", err)
	}
}

func TestIdentity_CurrentUser_BadTokens(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := newTestService(t, db)
	ctx := t.Context()

	_, err := s.Register(ctx, "frank", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	sess, err := s.Login(ctx, "frank", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := newTestService(t, db)
	other.secret = []byte("another-secret")

	_, err = other.CurrentUser(ctx, sess.Token)
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("foreign signature: want ErrUnauthorized, got %v", err)
	}

	later := newTestService(t, db)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = later.CurrentUser(ctx, sess.Token)
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expired token: want ErrUnauthorized, got %v", err)
	}

	_, err = s.CurrentUser(ctx, "")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("empty token: want ErrUnauthorized, got %v", err)
	}
}

func TestIdentity_Refresh(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := newTestService(t, db)
	ctx := t.Context()

	u, err := s.Register(ctx, "gina", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	sess, err := s.Login(ctx, "gina", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = db.ExecContext(ctx, `UPDATE users SET balance = 70000 WHERE id = $1`, u.ID)
	if err != nil {
		t.Fatalf("update balance: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(30 * time.Minute) }

	refreshed, err := s.Refresh(ctx, sess.Token)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.User.Balance != 70000 {
		t.Fatalf("refresh must re-read the user: got balance %d", refreshed.User.Balance)
	}
	if !refreshed.ExpiresAt.After(sess.ExpiresAt) {
		t.Fatalf("refresh must extend the session: %v !> %v", refreshed.ExpiresAt, sess.ExpiresAt)
	}

	_, err = s.CurrentUser(ctx, refreshed.Token)
	if err != nil {
		t.Fatalf("refreshed token rejected: %v", err)
	}
}

func TestIdentity_Refresh_DeletedUser(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := newTestService(t, db)
	ctx := t.Context()

	u, err := s.Register(ctx, "hank", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	sess, err := s.Login(ctx, "hank", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	if err != nil {
		t.Fatalf("delete user: %v", err)
	}

	_, err = s.Refresh(ctx, sess.Token)
	if err == nil {
		t.Fatalf("refresh for a deleted user must fail")
	}
	if !errors.Is(err, apperr.ErrUnauthorized) && !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want ErrUnauthorized or ErrNotFound, got %v", err)
	}
}

func TestIdentity_EnsureAdmin(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := newTestService(t, db)
	ctx := t.Context()

	for range 2 {
		err := s.EnsureAdmin(ctx, "root", "toor")
		if err != nil {
			t.Fatalf("ensure admin: %v", err)
		}
	}

	sess, err := s.Login(ctx, "root", "toor")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if !sess.User.IsAdmin() {
		t.Fatalf("bootstrap account must be ADMIN, got %s", sess.User.Role)
	}
}

func TestIdentity_PurgeExpiredSessions(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	s := newTestService(t, db)
	ctx := t.Context()

	_, err := s.Register(ctx, "ivy", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	for range 2 {
		_, err = s.Login(ctx, "ivy", "pw")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
	}

	n, err := s.PurgeExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 0 {
		t.Fatalf("live sessions must survive, purged %d", n)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	n, err = s.PurgeExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 expired sessions purged, got %d", n)
	}
}
