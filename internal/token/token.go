// Package token implements the signed-token primitive of the API: minting
// and verifying the access/refresh JWT pair bound to a user-access record.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// A Kind discriminates the two token families. They are signed with
// independent secrets and carry independent expiry windows.
type Kind string

const (
	// KindAccess is the short-lived token presented on protected calls.
	KindAccess Kind = "access"
	// KindRefresh is the long-lived token consumed by the rotation endpoint.
	KindRefresh Kind = "refresh"
)

// Verification failures. Callers branch on ErrExpiredToken: an expired token
// is reported differently than an invalid one.
var (
	ErrMissingToken     = errors.New("token must be provided")
	ErrMalformedToken   = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpiredToken     = errors.New("token is expired")
)

type (
	// Claims are the payload embedded in every issued token. AccessID is the
	// id of the user-access record that was live at mint time; tokens never
	// reference the user directly so that flipping the record's status flags
	// revokes them without a blocklist.
	Claims struct {
		AccessID string `json:"accessId"`
		jwt.RegisteredClaims
	}

	// An Issuer mints and verifies the access/refresh token pair.
	// It is stateless; all parameters come from the configuration.
	Issuer struct {
		accessSecret  []byte
		refreshSecret []byte
		accessTTL     time.Duration
		refreshTTL    time.Duration
	}
)

// NewIssuer returns a new Issuer.
func NewIssuer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue mints a signed token of the given kind bound to the given
// user-access record id.
func (i *Issuer) Issue(kind Kind, accessID string) (string, error) {
	secret, ttl := i.params(kind)

	now := time.Now()
	claims := Claims{
		AccessID: accessID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return token, errors.Wrap(err, "could not sign token")
}

// Verify checks the given token against the given kind's secret and returns
// its claims. Failures are one of ErrMissingToken, ErrMalformedToken,
// ErrInvalidSignature or ErrExpiredToken.
func (i *Issuer) Verify(kind Kind, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	secret, _ := i.params(kind)

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})

	switch {
	case err == nil && parsed.Valid:
		return &claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformedToken
	default:
		// Wrong secret, tampered payload or any other verification failure.
		return nil, ErrInvalidSignature
	}
}

func (i *Issuer) params(kind Kind) ([]byte, time.Duration) {
	if kind == KindRefresh {
		return i.refreshSecret, i.refreshTTL
	}
	return i.accessSecret, i.accessTTL
}
