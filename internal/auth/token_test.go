package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestPlayerTokenRoundTrip(t *testing.T) {
	tok, exp, err := IssuePlayerToken("secret", "sess-1", "ada", time.Hour)
	if err != nil {
		t.Fatalf("IssuePlayerToken failed: %v", err)
	}
	claims, err := ParsePlayerToken("secret", tok)
	if err != nil {
		t.Fatalf("ParsePlayerToken failed: %v", err)
	}
	if claims.SessionToken != "sess-1" || claims.Player != "ada" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ExpiresAt.Unix() != exp.Unix() {
		t.Errorf("expiry = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestPlayerTokenRejectsWrongSecret(t *testing.T) {
	tok, _, err := IssuePlayerToken("secret", "sess-1", "ada", time.Hour)
	if err != nil {
		t.Fatalf("IssuePlayerToken failed: %v", err)
	}
	if _, err := ParsePlayerToken("other", tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPlayerTokenRejectsExpired(t *testing.T) {
	tok, _, err := IssuePlayerToken("secret", "sess-1", "ada", -time.Minute)
	if err != nil {
		t.Fatalf("IssuePlayerToken failed: %v", err)
	}
	if _, err := ParsePlayerToken("secret", tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPlayerTokenRejectsOtherAlgorithm(t *testing.T) {
	claims := jwt.MapClaims{"session": "sess-1", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParsePlayerToken("secret", tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPlayerTokenRequiresSession(t *testing.T) {
	claims := jwt.MapClaims{"player": "ada", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParsePlayerToken("secret", tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
