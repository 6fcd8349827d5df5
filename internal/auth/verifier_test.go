package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestVerifierRoundTrip(t *testing.T) {
	v := NewVerifier("secret", "nextdir", time.Hour)

	token, err := v.Issue(User{ID: "u1", Email: "ada@example.com", Name: "Ada"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	u, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if u.ID != "u1" || u.Email != "ada@example.com" || u.Name != "Ada" {
		t.Errorf("Verify() = %+v", u)
	}
}

func TestVerifierRejects(t *testing.T) {
	v := NewVerifier("secret", "nextdir", time.Hour)

	wrongKey, _ := NewVerifier("other", "nextdir", time.Hour).Issue(User{ID: "u1"})
	wrongIssuer, _ := NewVerifier("secret", "someone-else", time.Hour).Issue(User{ID: "u1"})
	noSubject, _ := v.Issue(User{})

	expiredIssuer := NewVerifier("secret", "nextdir", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredIssuer.Issue(User{ID: "u1"})

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "u1", Issuer: "nextdir"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", wrongKey},
		{"wrong issuer", wrongIssuer},
		{"missing subject", noSubject},
		{"expired", expired},
		{"alg none", none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); err == nil {
				t.Error("Verify() = nil error, want rejection")
			}
		})
	}
}
