package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signClaims(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}
	return tokenString
}

func TestValidateTokenValid(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken("sess-1", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty string")
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.SessionID != "sess-1" {
		t.Errorf("ValidateToken() SessionID = %q, want %q", claims.SessionID, "sess-1")
	}
}

func TestValidateTokenRejects(t *testing.T) {
	secret := "test-secret"
	valid := func() Claims {
		return Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				Audience:  jwt.ClaimStrings{tokenAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
			SessionID: "sess-1",
		}
	}

	wrongIssuer := valid()
	wrongIssuer.Issuer = "wrong-issuer"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"wrong-audience"}
	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noSession := valid()
	noSession.SessionID = ""

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-valid-token"},
		{"wrong secret", signClaims(t, valid(), "wrong-secret")},
		{"wrong issuer", signClaims(t, wrongIssuer, secret)},
		{"wrong audience", signClaims(t, wrongAudience, secret)},
		{"expired", signClaims(t, expired, secret)},
		{"missing session id", signClaims(t, noSession, secret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token, secret); err != ErrInvalidToken {
				t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}
