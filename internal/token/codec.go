// Package token issues and verifies the signed, time-bounded credentials used
// for both access and refresh tokens. A credential is a compact HMAC-signed
// JWT carrying {sub, iat, exp}; access and refresh credentials share the shape
// and differ only in lifetime.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when a credential's expiry, plus any leeway, has
	// passed while expiry enforcement is requested.
	ErrExpired = errors.New("credential expired")
	// ErrMalformed is returned when the signature does not verify or the
	// credential cannot be parsed at all.
	ErrMalformed = errors.New("credential malformed")
)

// Claims is the decoded payload of a credential.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and verifies credentials with a shared secret. It is stateless;
// the only inputs are the credential, the secret and the clock.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	alg    string
	now    func() time.Time
}

// Option modifies a Codec at construction time.
type Option func(*Codec)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a Codec for the given secret and algorithm identifier
// (HS256, HS384 or HS512). Unknown or non-HMAC algorithms are rejected so a
// misconfigured service fails at startup rather than issuing unverifiable
// credentials.
func NewCodec(secret, algorithm string, opts ...Option) (*Codec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC variant", algorithm)
	}
	c := &Codec{
		secret: []byte(secret),
		method: method,
		alg:    algorithm,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a credential for subject that expires lifetime from now.
func (c *Codec) Issue(subject string, lifetime time.Duration) (string, error) {
	now := c.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
	}
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and returns the embedded claims. When
// enforceExpiry is true, a credential whose expiry plus leeway has passed
// fails with ErrExpired. When enforceExpiry is false the expiry is ignored
// entirely; the signature is still checked. That mode exists so logout can
// recover the subject from an already expired refresh credential.
func (c *Codec) Decode(credential string, enforceExpiry bool, leeway time.Duration) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.alg}),
		jwt.WithTimeFunc(c.now),
	}
	if enforceExpiry {
		opts = append(opts, jwt.WithLeeway(leeway), jwt.WithExpirationRequired())
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	parsed, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	rc, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || rc.Subject == "" {
		return Claims{}, ErrMalformed
	}
	out := Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		out.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		out.ExpiresAt = rc.ExpiresAt.Time
	}
	return out, nil
}
