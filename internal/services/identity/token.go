package identity

import (
	"fmt"

	"github.com/fastprodman/keystore/internal/apperr"
	"github.com/fastprodman/keystore/internal/repos/sessions"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "keystore"

type tokenClaims struct {
	sessionID uuid.UUID
	userID    uuid.UUID
}

// sign issues an HS256 token whose jti is the session id and sub the user id.
func (s *IdentityService) sign(sess sessions.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sess.UserID.String(),
		ID:        sess.ID.String(),
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

func (s *IdentityService) parse(token string) (tokenClaims, error) {
	if token == "" {
		return tokenClaims{}, fmt.Errorf("%w: missing token", apperr.ErrUnauthorized)
	}

	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return tokenClaims{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return tokenClaims{}, fmt.Errorf("%w: bad session id", apperr.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return tokenClaims{}, fmt.Errorf("%w: bad subject", apperr.ErrUnauthorized)
	}

	return tokenClaims{sessionID: sessionID, userID: userID}, nil
}
