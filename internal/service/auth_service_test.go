package service

import (
	"context"
	"errors"
	"testing"

	"github.com/keyshop-admin/internal/config"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/repository"
)

func setupAuthTest(t *testing.T) (*AuthService, *models.Admin) {
	t.Helper()
	env := setupServiceTest(t)
	adminRepo := repository.NewAdminRepository(env.db)
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-for-auth"
	cfg.JWT.ExpireHours = 24

	service := NewAuthService(cfg, adminRepo)
	hash, err := service.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{Username: "admin", PasswordHash: hash}
	if err := adminRepo.Create(admin); err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return service, admin
}

func TestPasswordHashRoundTrip(t *testing.T) {
	service, _ := setupAuthTest(t)

	hash, err := service.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash should not equal plaintext")
	}
	if err := service.VerifyPassword(hash, "s3cret"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if err := service.VerifyPassword(hash, "wrong"); err == nil {
		t.Fatalf("wrong password should not verify")
	}
}

func TestLogin(t *testing.T) {
	service, admin := setupAuthTest(t)
	ctx := context.Background()

	loggedIn, token, expiresAt, err := service.Login(ctx, "admin", "correct-password", "127.0.0.1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.ID != admin.ID {
		t.Fatalf("admin id want %d got %d", admin.ID, loggedIn.ID)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if expiresAt.IsZero() {
		t.Fatalf("expected expiry time")
	}

	claims, err := service.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, _, _, err := service.Login(ctx, "admin", "wrong", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := service.Login(ctx, "nobody", "whatever", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}
}

func TestParseJWTRejectsTampered(t *testing.T) {
	service, admin := setupAuthTest(t)

	token, _, err := service.GenerateJWT(admin)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := service.ParseJWT(token + "x"); err == nil {
		t.Fatalf("tampered token should not parse")
	}
	if _, err := service.ParseJWT("not.a.token"); err == nil {
		t.Fatalf("garbage token should not parse")
	}
}

func TestChangePassword(t *testing.T) {
	service, admin := setupAuthTest(t)
	ctx := context.Background()

	if err := service.ChangePassword(admin.ID, "wrong", "new-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password want ErrInvalidCredentials got %v", err)
	}
	if err := service.ChangePassword(admin.ID, "correct-password", "new-password"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := service.Login(ctx, "admin", "new-password", ""); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, _, err := service.Login(ctx, "admin", "correct-password", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should be rejected, got %v", err)
	}
}
