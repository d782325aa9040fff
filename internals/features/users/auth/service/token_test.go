package service

import (
	"errors"
	"testing"
	"time"

	authModel "desaku_backend/internals/features/users/auth/model"

	"github.com/google/uuid"
)

func TestIssueAndParseAccessToken(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	u := authModel.UserModel{ID: uuid.New(), Role: "operator", UserName: "sekdes"}

	tok, exp, err := IssueAccessToken("s3cret", u, now, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("exp = %v", exp)
	}

	claims, err := ParseAccessToken("s3cret", tok, now.Add(30*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != u.ID || claims.Role != "operator" || claims.UserName != "sekdes" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	tok, _, err := IssueAccessToken("s3cret", authModel.UserModel{ID: uuid.New()}, now, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken("s3cret", tok, now.Add(time.Minute+10*time.Second)); err != nil {
		t.Fatalf("within skew should pass: %v", err)
	}
	if _, err := ParseAccessToken("s3cret", tok, now.Add(2*time.Minute)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	now := time.Now()
	tok, _, _ := IssueAccessToken("a", authModel.UserModel{ID: uuid.New()}, now, time.Hour)
	if _, err := ParseAccessToken("b", tok, now); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("rahasia123")
	if err != nil {
		t.Fatal(err)
	}
	if CheckPasswordHash(h, "rahasia123") != nil {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash(h, "salah") == nil {
		t.Fatal("wrong password accepted")
	}
}
