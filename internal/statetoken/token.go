// Package statetoken signs session state so a client can round-trip it
// without being able to edit it unnoticed.
//
// Tokens are HS256 JWTs carrying the full state in a "state" claim.
package statetoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/guessgames/internal/session"
)

// ErrInvalid is returned for tokens that fail signature, expiry or decoding.
var ErrInvalid = errors.New("statetoken: invalid token")

type claims struct {
	State session.State `json:"state"`
	jwt.RegisteredClaims
}

// Signer issues and verifies state tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New returns a Signer. A zero ttl means tokens do not expire.
func New(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign encodes st into a token.
func (s *Signer) Sign(st session.State) (string, error) {
	now := s.now()
	c := claims{
		State: st,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  st.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify decodes a token produced by Sign.
func (s *Signer) Verify(token string) (session.State, error) {
	var c claims
	t, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !t.Valid {
		return session.State{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return c.State, nil
}
