package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-desk/internal/model"
)

const testSecret = "test-secret-which-is-long-enough"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := New(testSecret, 7*24*time.Hour)

	for _, subject := range []string{"user-1", "c7b3e1ce-9e52-4f3a-8d9f-0b2f6f1c0a11", "x"} {
		tok, err := svc.Issue(subject)
		require.NoError(t, err)

		claims, err := svc.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, subject, claims.SubjectID)
		assert.Equal(t, claims.IssuedAt+int64((7*24*time.Hour).Seconds()), claims.Expiry)
	}
}

func TestVerifyWireFormat(t *testing.T) {
	svc := New(testSecret, time.Hour)

	tok, err := svc.Issue("user-1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	for _, part := range parts {
		assert.NotContains(t, part, "=", "segments must be unpadded base64url")
		assert.NotContains(t, part, "+")
		assert.NotContains(t, part, "/")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	svc := New(testSecret, time.Hour)

	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(tok)
		assert.ErrorIs(t, err, model.ErrTokenMalformed, "token %q", tok)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	svc := New(testSecret, time.Hour)

	tok, err := svc.Issue("user-1")
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	flip := func(s string) string {
		b := []byte(s)
		// Swap a character for a different base64url character.
		if b[1] == 'A' {
			b[1] = 'B'
		} else {
			b[1] = 'A'
		}
		return string(b)
	}

	// Tampered claims segment.
	tamperedClaims := parts[0] + "." + flip(parts[1]) + "." + parts[2]
	_, err = svc.Verify(tamperedClaims)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrTokenExpired)

	// Tampered signature segment.
	tamperedSig := parts[0] + "." + parts[1] + "." + flip(parts[2])
	_, err = svc.Verify(tamperedSig)
	assert.ErrorIs(t, err, model.ErrTokenTampered)

	// Token signed with a different secret.
	other := New("a-completely-different-secret!!!", time.Hour)
	foreign, err := other.Issue("user-1")
	require.NoError(t, err)
	_, err = svc.Verify(foreign)
	assert.ErrorIs(t, err, model.ErrTokenTampered)
}

func TestVerifyExpiryIsStrict(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 7 * 24 * time.Hour

	svc := New(testSecret, ttl)
	svc.now = fixedClock(issuedAt)

	tok, err := svc.Issue("user-1")
	require.NoError(t, err)

	// One second before expiry: still valid.
	svc.now = fixedClock(issuedAt.Add(ttl - time.Second))
	_, err = svc.Verify(tok)
	assert.NoError(t, err)

	// Exactly at expiry: already rejected.
	svc.now = fixedClock(issuedAt.Add(ttl))
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, model.ErrTokenExpired)

	// Past expiry, valid signature: still rejected.
	svc.now = fixedClock(issuedAt.Add(ttl + time.Second))
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}
