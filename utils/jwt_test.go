package utils

import (
	"testing"
	"time"

	"collabhub/models"

	"github.com/golang-jwt/jwt"
)

var testSecret = []byte("test-secret")

// signToken issues an HS256 token shaped like the ones the auth provider hands out.
func signToken(secret []byte, id models.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.ID,
		"email": id.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"user_metadata": map[string]interface{}{
			"name":       id.Name,
			"avatar_url": id.AvatarURL,
		},
	}).SignedString(secret)
}

func TestIdentityFromToken(t *testing.T) {
	want := models.Identity{ID: "user-1", Email: "ana@example.com", Name: "Ana", AvatarURL: "https://img.test/a.png"}
	token, err := signToken(testSecret, want, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	got, err := IdentityFromToken(testSecret, token)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if *got != want {
		t.Fatalf("got %+v, want %+v", *got, want)
	}
}

func TestIdentityFromTokenRejects(t *testing.T) {
	expired, _ := signToken(testSecret, models.Identity{ID: "user-1"}, -time.Minute)
	otherKey, _ := signToken([]byte("other"), models.Identity{ID: "user-1"}, time.Hour)
	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"}).SignedString(testSecret)

	for name, token := range map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"missing sub": noSub,
		"garbage":     "not-a-token",
	} {
		if _, err := IdentityFromToken(testSecret, token); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
	if _, err := IdentityFromToken(nil, otherKey); err == nil {
		t.Error("empty secret should be rejected")
	}
}

func TestIdentityFromTokenFullNameFallback(t *testing.T) {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           "user-2",
		"user_metadata": map[string]interface{}{"full_name": "Bea Lopez"},
	}).SignedString(testSecret)
	got, err := IdentityFromToken(testSecret, token)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	if got.Name != "Bea Lopez" || got.Email != "" {
		t.Fatalf("got %+v", got)
	}
}
