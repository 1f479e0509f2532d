// Package session carries the signed-in owner's identity and bearer
// credential to every remote call.
package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoOwner is returned when no owner id can be determined for a session.
var ErrNoOwner = errors.New("session has no owner id")

// Session identifies the authenticated restaurant owner. The owner id doubles
// as the restaurant id and does not change for the lifetime of the session.
type Session struct {
	OwnerID string
	Token   string
}

// New creates a session from explicit values.
func New(ownerID, token string) (Session, error) {
	if ownerID == "" {
		return Session{}, ErrNoOwner
	}
	return Session{OwnerID: ownerID, Token: token}, nil
}

// FromToken builds a session from a bearer JWT. The claims are read without
// signature verification; the store verifies the token on every call.
// A non-empty overrideOwnerID takes precedence over the claims.
func FromToken(token, overrideOwnerID string) (Session, error) {
	if overrideOwnerID != "" {
		return New(overrideOwnerID, token)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("failed to parse session token: %w", err)
	}

	ownerID, err := ownerFromClaims(claims)
	if err != nil {
		return Session{}, err
	}
	return New(ownerID, token)
}

// AuthorizationHeader returns the value for the Authorization header.
func (s Session) AuthorizationHeader() string {
	return "Bearer " + s.Token
}

func ownerFromClaims(claims jwt.MapClaims) (string, error) {
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}

	for _, key := range []string{"id", "user_id"} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v, nil
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	}

	return "", ErrNoOwner
}
