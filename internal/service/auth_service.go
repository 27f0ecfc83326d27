package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keyshop-admin/internal/cache"
	"github.com/keyshop-admin/internal/config"
	"github.com/keyshop-admin/internal/logger"
	"github.com/keyshop-admin/internal/models"
	"github.com/keyshop-admin/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 认证服务
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{
		cfg:       cfg,
		adminRepo: adminRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims JWT 声明
type JWTClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := JWTClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("无效的 token")
}

// Login 管理员登录；按客户端 IP 做滑动窗口限流
func (s *AuthService) Login(ctx context.Context, username, password, clientIP string) (*models.Admin, string, time.Time, error) {
	username = strings.TrimSpace(username)
	if err := s.checkLoginRate(ctx, clientIP); err != nil {
		return nil, "", time.Time{}, err
	}

	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		s.recordLoginFailure(ctx, clientIP)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.VerifyPassword(admin.PasswordHash, password); err != nil {
		s.recordLoginFailure(ctx, clientIP)
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.clearLoginFailures(ctx, clientIP)
	logger.Infow("admin_login", "admin_id", admin.ID, "username", admin.Username)
	return admin, token, expiresAt, nil
}

// ChangePassword 修改管理员密码
func (s *AuthService) ChangePassword(adminID uint, oldPassword, newPassword string) error {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrInvalidCredentials
	}

	if err := s.VerifyPassword(admin.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	admin.PasswordHash = hashedPassword
	return s.adminRepo.Update(admin)
}

func loginFailureKey(clientIP string) string {
	return fmt.Sprintf("login_failures:%s", strings.TrimSpace(clientIP))
}

// checkLoginRate 失败次数达到上限则暂时拒绝；Redis 未启用时跳过
func (s *AuthService) checkLoginRate(ctx context.Context, clientIP string) error {
	if !cache.Enabled() || strings.TrimSpace(clientIP) == "" {
		return nil
	}
	limit := s.cfg.Security.LoginRateLimit
	if limit.MaxAttempts <= 0 {
		return nil
	}
	count, err := cache.Client().Get(ctx, loginFailureKey(clientIP)).Int()
	if err != nil {
		return nil
	}
	if count >= limit.MaxAttempts {
		logger.Warnw("login_rate_limited", "client_ip", clientIP, "failures", count)
		return ErrLoginRateLimited
	}
	return nil
}

func (s *AuthService) recordLoginFailure(ctx context.Context, clientIP string) {
	if !cache.Enabled() || strings.TrimSpace(clientIP) == "" {
		return
	}
	limit := s.cfg.Security.LoginRateLimit
	window := time.Duration(limit.WindowSeconds) * time.Second
	if window <= 0 {
		window = 5 * time.Minute
	}
	key := loginFailureKey(clientIP)
	count, err := cache.Client().Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if count == 1 {
		cache.Client().Expire(ctx, key, window)
	}
	if limit.MaxAttempts > 0 && count >= int64(limit.MaxAttempts) && limit.BlockSeconds > 0 {
		cache.Client().Expire(ctx, key, time.Duration(limit.BlockSeconds)*time.Second)
	}
}

func (s *AuthService) clearLoginFailures(ctx context.Context, clientIP string) {
	if !cache.Enabled() || strings.TrimSpace(clientIP) == "" {
		return
	}
	cache.Client().Del(ctx, loginFailureKey(clientIP))
}
