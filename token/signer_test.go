package token_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-forum-auth/token"
	"github.com/stretchr/testify/require"
)

func TestNewHMACSigner(t *testing.T) {
	tests := []struct {
		algorithm string
		want      string
		wantErr   bool
	}{
		{algorithm: "", want: "HS256"},
		{algorithm: "HS256", want: "HS256"},
		{algorithm: "HS384", want: "HS384"},
		{algorithm: "HS512", want: "HS512"},
		{algorithm: "RS256", wantErr: true},
		{algorithm: "none", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("alg "+tt.algorithm, func(t *testing.T) {
			signer, err := token.NewHMACSigner("secret", tt.algorithm)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, signer.GetSigningMethod().Alg())
		})
	}

	t.Run("empty secret", func(t *testing.T) {
		_, err := token.NewHMACSigner("", "HS256")
		require.Error(t, err)
	})
}

func TestHMACsigner_GetVerificationKey(t *testing.T) {
	signer, err := token.NewHMACSigner("secret", "HS256")
	require.NoError(t, err)

	key, err := signer.GetVerificationKey(&jwt.Token{Method: jwt.SigningMethodHS256, Header: map[string]any{"alg": "HS256"}})
	require.NoError(t, err)
	require.Equal(t, []byte("secret"), key)

	_, err = signer.GetVerificationKey(&jwt.Token{Method: jwt.SigningMethodHS512, Header: map[string]any{"alg": "HS512"}})
	require.Error(t, err)
}
