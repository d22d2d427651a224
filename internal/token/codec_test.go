package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhengdechang/auth-service/internal/token"
)

const (
	testSecret = "test-secret"
	leeway     = 60 * time.Second
)

// movableClock returns a clock function and a setter to advance it.
func movableClock(start time.Time) (func() time.Time, func(time.Time)) {
	now := start
	return func() time.Time { return now }, func(t time.Time) { now = t }
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock, _ := movableClock(start)
	codec, err := token.NewCodec(testSecret, "HS256", token.WithClock(clock))
	require.NoError(t, err)

	cred, err := codec.Issue("alice", 10*time.Minute)
	require.NoError(t, err)

	claims, err := codec.Decode(cred, true, leeway)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.True(t, claims.IssuedAt.Equal(start))
	require.True(t, claims.ExpiresAt.Equal(start.Add(10*time.Minute)))
}

func TestDecodeExpiryBoundary(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock, setNow := movableClock(start)
	codec, err := token.NewCodec(testSecret, "HS256", token.WithClock(clock))
	require.NoError(t, err)

	lifetime := 10 * time.Minute
	cred, err := codec.Issue("alice", lifetime)
	require.NoError(t, err)
	exp := start.Add(lifetime)

	// One second inside the leeway window: accepted.
	setNow(exp.Add(leeway - time.Second))
	_, err = codec.Decode(cred, true, leeway)
	require.NoError(t, err)

	// One second past the leeway window: rejected.
	setNow(exp.Add(leeway + time.Second))
	_, err = codec.Decode(cred, true, leeway)
	require.ErrorIs(t, err, token.ErrExpired)
}

func TestDecodeWithoutExpiryEnforcement(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock, setNow := movableClock(start)
	codec, err := token.NewCodec(testSecret, "HS256", token.WithClock(clock))
	require.NoError(t, err)

	cred, err := codec.Issue("alice", time.Minute)
	require.NoError(t, err)

	// Long after expiry the subject is still recoverable.
	setNow(start.Add(24 * time.Hour))
	claims, err := codec.Decode(cred, false, 0)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)

	// The same credential fails when expiry is enforced.
	_, err = codec.Decode(cred, true, leeway)
	require.ErrorIs(t, err, token.ErrExpired)
}

func TestDecodeMalformed(t *testing.T) {
	codec, err := token.NewCodec(testSecret, "HS256")
	require.NoError(t, err)

	// Garbage input.
	_, err = codec.Decode("not-a-credential", true, leeway)
	require.ErrorIs(t, err, token.ErrMalformed)

	// Valid structure, wrong signing key.
	other, err := token.NewCodec("other-secret", "HS256")
	require.NoError(t, err)
	cred, err := other.Issue("alice", time.Minute)
	require.NoError(t, err)
	_, err = codec.Decode(cred, true, leeway)
	require.ErrorIs(t, err, token.ErrMalformed)

	// The signature check applies even when expiry is not enforced.
	_, err = codec.Decode(cred, false, 0)
	require.ErrorIs(t, err, token.ErrMalformed)
}

func TestNewCodecRejectsBadAlgorithms(t *testing.T) {
	_, err := token.NewCodec(testSecret, "RS256")
	require.Error(t, err)
	_, err = token.NewCodec(testSecret, "nope")
	require.Error(t, err)
	_, err = token.NewCodec(testSecret, "HS512")
	require.NoError(t, err)
}
