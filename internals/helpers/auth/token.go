package helper

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"campusevents_backend/internals/constants"
)

const AccessTokenCookie = "access_token"

var (
	ErrMissingToken = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownRole  = errors.New("token carries an unknown role")
)

// Claims is the access token payload.
type Claims struct {
	UserID    uuid.UUID      `json:"id"`
	Role      constants.Role `json:"role"`
	CollegeID uuid.UUID      `json:"college_id"`
	Name      string         `json:"user_name,omitempty"`
	jwt.RegisteredClaims
}

type TokenSubject struct {
	UserID    uuid.UUID
	Role      constants.Role
	CollegeID uuid.UUID
	Name      string
}

// IssueToken signs an HS256 access token.
func IssueToken(secret string, sub TokenSubject, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	if !sub.Role.Valid() {
		return "", time.Time{}, ErrUnknownRole
	}
	exp := now.Add(ttl)
	claims := Claims{
		UserID:    sub.UserID,
		Role:      sub.Role,
		CollegeID: sub.CollegeID,
		Name:      sub.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken verifies signature (HMAC only), expiry and role.
// Pure: no I/O, safe for the access filter.
func ParseToken(secret, raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingToken
	}
	if strings.TrimSpace(secret) == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrUnknownRole
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractRawToken reads "Authorization: Bearer" first, then the access_token cookie.
func ExtractRawToken(c *fiber.Ctx, allowCookie bool) string {
	authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if fields := strings.Fields(authz); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	if allowCookie {
		return strings.TrimSpace(c.Cookies(AccessTokenCookie))
	}
	return ""
}

// TokenFingerprint is what the blacklist stores instead of the raw token.
func TokenFingerprint(raw, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}
