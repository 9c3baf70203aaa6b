package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	verifier := NewVerifier([]byte(testSecret))
	userID := uuid.New()

	credential := signToken(t, testSecret, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	got, err := verifier.Verify(context.Background(), credential)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	verifier := NewVerifier([]byte(testSecret))
	userID := uuid.New()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name       string
		credential string
	}{
		{
			name:       "garbage",
			credential: "not-a-jwt",
		},
		{
			name: "wrong secret",
			credential: signToken(t, "another-secret", jwt.MapClaims{
				"sub": userID.String(), "exp": future,
			}),
		},
		{
			name: "expired",
			credential: signToken(t, testSecret, jwt.MapClaims{
				"sub": userID.String(), "exp": time.Now().Add(-time.Minute).Unix(),
			}),
		},
		{
			name:       "missing subject",
			credential: signToken(t, testSecret, jwt.MapClaims{"exp": future}),
		},
		{
			name: "subject is not a uuid",
			credential: signToken(t, testSecret, jwt.MapClaims{
				"sub": "user-42", "exp": future,
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(context.Background(), tt.credential)
			assert.Error(t, err)
			assert.Equal(t, uuid.Nil, got)
		})
	}
}
