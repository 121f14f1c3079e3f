// Package token issues and verifies the two JWT classes used by the service.
// Access and refresh tokens are signed with distinct secrets so one class can
// never be replayed as the other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid covers malformed tokens, bad signatures, wrong token class and
// elapsed expiry alike.
var ErrInvalid = errors.New("invalid or expired token")

// Class selects the signing material and TTL for a token.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

// Claims embeds the user id alongside the registered JWT claims.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess mints a short-lived access token for userID.
func (i *Issuer) IssueAccess(userID string) (string, time.Time, error) {
	return i.issue(userID, i.accessSecret, i.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for userID.
func (i *Issuer) IssueRefresh(userID string) (string, time.Time, error) {
	return i.issue(userID, i.refreshSecret, i.refreshTTL)
}

func (i *Issuer) issue(userID string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and expiry against the given class's secret and
// returns the embedded claims. Any failure is reported as ErrInvalid.
func (i *Issuer) Verify(tokenString string, class Class) (*Claims, error) {
	secret := i.accessSecret
	if class == ClassRefresh {
		secret = i.refreshSecret
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return secret, nil
	})
	if err != nil || !tok.Valid || claims.UserID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
