package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/google/uuid"
)

var ErrSessionNotFound = fmt.Errorf("session %w", apperr.ErrNotFound)

type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Sessions interface {
	Create(ctx context.Context, s Session) error
	// Get returns the session only while it has not expired at now.
	Get(ctx context.Context, sessionID uuid.UUID, now time.Time) (Session, error)
	Extend(ctx context.Context, sessionID uuid.UUID, expiresAt time.Time) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
