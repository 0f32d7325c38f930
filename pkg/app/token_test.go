package app

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	cfg := TokenConfig{
		SecretKey: "user-secret",
		Expiry:    1 * time.Hour,
		Issuer:    "test-issuer",
	}
	tm := NewTokenManager(cfg)

	token, err := tm.Generate(1001, "you@example.com", "you", "127.0.0.1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UID != 1001 {
		t.Errorf("Expected UID 1001, got %d", claims.UID)
	}
	if claims.Email != "you@example.com" {
		t.Errorf("Expected email you@example.com, got %s", claims.Email)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("Expected issuer test-issuer, got %s", claims.Issuer)
	}

	// 允许 1 秒内的误差
	expectedExp := time.Now().Add(cfg.Expiry)
	if d := claims.ExpiresAt.Sub(expectedExp); d > time.Second || d < -time.Second {
		t.Errorf("Expected ExpiresAt around %v, got %v", expectedExp, claims.ExpiresAt)
	}

	// 错误的密钥
	other := NewTokenManager(TokenConfig{SecretKey: "wrong-secret"})
	wrongToken, _ := other.Generate(1001, "you@example.com", "", "")
	if _, err := tm.Parse(wrongToken); err == nil {
		t.Error("Expected error when parsing token with wrong secret key, but got nil")
	}

	// 篡改后的 Token
	if _, err := tm.Parse(token + "tampered"); err == nil {
		t.Error("Expected error when parsing tampered token, but got nil")
	}
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(TokenConfig{SecretKey: "k", Expiry: -time.Minute})
	token, err := tm.Generate(1, "a@example.com", "", "")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := tm.Parse(token); err == nil {
		t.Error("Expected expired token to fail")
	}
}

func TestGetUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetUID(c); got != 0 {
		t.Errorf("Expected 0 without token, got %d", got)
	}
	c.Set(ContextKeyUser, &UserEntity{UID: 7, Email: "x@example.com"})
	if got := GetUID(c); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
	if got := GetEmail(c); got != "x@example.com" {
		t.Errorf("Expected x@example.com, got %s", got)
	}
}
