package helper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents_backend/internals/constants"
)

const testSecret = "test-secret"

func TestIssueAndParseToken(t *testing.T) {
	sub := TokenSubject{
		UserID:    uuid.New(),
		Role:      constants.RoleOrganizer,
		CollegeID: uuid.New(),
		Name:      "Asha",
	}
	raw, exp, err := IssueToken(testSecret, sub, time.Hour, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	cl, err := ParseToken(testSecret, raw)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, cl.UserID)
	assert.Equal(t, constants.RoleOrganizer, cl.Role)
	assert.Equal(t, sub.CollegeID, cl.CollegeID)
}

func TestParseToken_Rejects(t *testing.T) {
	sub := TokenSubject{UserID: uuid.New(), Role: constants.RoleStudent, CollegeID: uuid.New()}

	t.Run("wrong secret", func(t *testing.T) {
		raw, _, err := IssueToken(testSecret, sub, time.Hour, time.Now())
		require.NoError(t, err)
		_, err = ParseToken("other", raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		raw, _, err := IssueToken(testSecret, sub, time.Minute, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		_, err = ParseToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered role", func(t *testing.T) {
		claims := Claims{
			UserID: sub.UserID,
			Role:   constants.Role("SUPERADMIN"),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = ParseToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := Claims{UserID: sub.UserID, Role: constants.RoleAdmin}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = ParseToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseToken(testSecret, "  ")
		assert.ErrorIs(t, err, ErrMissingToken)
	})
}

func TestIssueToken_UnknownRole(t *testing.T) {
	_, _, err := IssueToken(testSecret, TokenSubject{UserID: uuid.New(), Role: "GUEST"}, time.Hour, time.Now())
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestTokenFingerprint(t *testing.T) {
	a := TokenFingerprint("tok", testSecret)
	assert.Len(t, a, 64)
	assert.Equal(t, a, TokenFingerprint("tok", testSecret))
	assert.NotEqual(t, a, TokenFingerprint("tok2", testSecret))
}
