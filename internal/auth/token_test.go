package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestSignParse_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Sign("cv37rs3pp9olc6atsptg", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("Sign() token doesn't look like a JWT: %q", token)
	}

	id, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if id != "cv37rs3pp9olc6atsptg" {
		t.Errorf("Parse() = %q, want %q", id, "cv37rs3pp9olc6atsptg")
	}
}

func TestParse_Expired(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Sign("sess", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if _, err := ts.Parse(token); err == nil {
		t.Fatal("Parse() should reject an expired token")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("a-completely-different-secret")

	token, _ := other.Sign("sess", time.Now().Add(time.Hour))
	if _, err := ts.Parse(token); err == nil {
		t.Fatal("Parse() should reject a token signed with another secret")
	}
}

func TestParse_Tampered(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Sign("sess", time.Now().Add(time.Hour))

	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	if _, err := ts.Parse(strings.Join(parts, ".")); err == nil {
		t.Fatal("Parse() should reject a tampered payload")
	}
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	ts := newTestTokenService(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ID:        "sess",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("building none token: %v", err)
	}

	if _, err := ts.Parse(token); err == nil {
		t.Fatal("Parse() should reject alg=none")
	}
}

func TestParse_Garbage(t *testing.T) {
	ts := newTestTokenService(t)
	for _, in := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ts.Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}
