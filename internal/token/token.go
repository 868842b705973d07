// Package token issues and verifies the signed session tokens that back
// browser sessions. Tokens are compact HS256 JWTs; nothing is persisted
// server-side, so a token is valid until its embedded expiry elapses.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"service-desk/internal/model"
)

// Claims is the full claim set embedded in a session token.
type Claims struct {
	SubjectID string `json:"subjectId"`
	IssuedAt  int64  `json:"issuedAt"`
	Expiry    int64  `json:"expiry"`
}

// The jwt.Claims getters below intentionally return nil for the
// registered timing claims: expiry lives in the custom "expiry" field
// and is validated by Service.Verify with strict semantics.
func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c Claims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c Claims) GetIssuer() (string, error)                   { return "", nil }
func (c Claims) GetSubject() (string, error)                  { return c.SubjectID, nil }
func (c Claims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New builds a token service around a process-wide signing secret. The
// secret is read-only for the lifetime of the process; there is no key
// rotation.
func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL reports the validity window of issued tokens. The session cookie
// lifetime is kept equal to it.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) Issue(subjectID string) (string, error) {
	now := s.now().Unix()
	claims := Claims{
		SubjectID: subjectID,
		IssuedAt:  now,
		Expiry:    now + int64(s.ttl.Seconds()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks structure, signature and expiry, in that order. The
// three failure modes stay distinguishable so the gate can log the real
// reason while answering with a generic 401.
func (s *Service) Verify(tokenString string) (Claims, error) {
	if strings.Count(tokenString, ".") != 2 {
		return Claims{}, model.ErrTokenMalformed
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return Claims{}, model.ErrTokenMalformed
	}
	if err != nil || !parsed.Valid {
		return Claims{}, model.ErrTokenTampered
	}
	if claims.SubjectID == "" {
		return Claims{}, model.ErrTokenMalformed
	}

	// Strict comparison: a token presented at exactly its expiry
	// second is already dead.
	if s.now().Unix() >= claims.Expiry {
		return Claims{}, model.ErrTokenExpired
	}

	return claims, nil
}
