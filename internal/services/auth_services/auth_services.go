package auth_services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Goldexcool/TaskTrekBackend/internal/apperror"
	"github.com/Goldexcool/TaskTrekBackend/internal/model/auth_model"
)

// Config carries the token secrets and lifetimes. It is injected at
// construction; nothing in this package reads process environment.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type UserStore interface {
	Create(ctx context.Context, u *auth_model.User) error
	GetByEmail(ctx context.Context, email string) (*auth_model.User, error)
	GetByID(ctx context.Context, id string) (*auth_model.User, error)
	UpdatePassword(ctx context.Context, userID, newHash string) error
}

type RefreshStore interface {
	Store(ctx context.Context, userID, token string, exp time.Time) error
	Check(ctx context.Context, userID, token string) (bool, error)
	Delete(ctx context.Context, userID, token string) error
}

type AuthService struct {
	Users   UserStore
	Refresh RefreshStore
	cfg     Config
}

func NewAuthService(u UserStore, r RefreshStore, cfg Config) *AuthService {
	return &AuthService{Users: u, Refresh: r, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (string, string, *auth_model.User, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", "", nil, apperror.Validation("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", nil, apperror.Internal("failed to hash password", err)
	}

	u := &auth_model.User{Email: email, Password: string(hash)}
	if err := s.Users.Create(ctx, u); err != nil {
		return "", "", nil, err
	}

	accessToken, refreshToken, err := s.generateTokens(ctx, u)
	if err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, *auth_model.User, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	// Do not reveal whether the account exists.
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return "", "", nil, apperror.Unauthenticated("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", "", nil, apperror.Unauthenticated("invalid credentials")
	}

	access, refresh, err := s.generateTokens(ctx, u)
	if err != nil {
		return "", "", nil, err
	}
	return access, refresh, u, nil
}

func (s *AuthService) generateTokens(ctx context.Context, u *auth_model.User) (string, string, error) {
	accessClaims := jwt.MapClaims{
		"user_id": u.ID,
		"exp":     time.Now().Add(s.cfg.AccessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		log.Printf("ERROR: signing access token: %v", err)
		return "", "", err
	}

	refreshExp := time.Now().Add(s.cfg.RefreshTTL)
	refreshClaims := jwt.MapClaims{
		"user_id": u.ID,
		"exp":     refreshExp.Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		log.Printf("ERROR: signing refresh token: %v", err)
		return "", "", err
	}

	if err := s.Refresh.Store(ctx, u.ID, refreshToken, refreshExp); err != nil {
		log.Printf("ERROR: storing refresh token: %v", err)
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (string, *auth_model.User, error) {
	userID, err := s.parseToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return "", nil, err
	}

	ok, err := s.Refresh.Check(ctx, userID, refreshToken)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, apperror.Unauthenticated("refresh token not found or expired")
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	accessClaims := jwt.MapClaims{
		"user_id": u.ID,
		"exp":     time.Now().Add(s.cfg.AccessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return "", nil, apperror.Internal("failed to sign access token", err)
	}
	return access, u, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	userID, err := s.parseToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return err
	}
	return s.Refresh.Delete(ctx, userID, refreshToken)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if newPassword == "" {
		return apperror.Validation("new password is required")
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)) != nil {
		return apperror.Unauthenticated("invalid old password")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("failed to hash new password", err)
	}
	return s.Users.UpdatePassword(ctx, userID, string(newHash))
}

// ParseAccessToken verifies a bearer token and yields the principal id.
func (s *AuthService) ParseAccessToken(tokenStr string) (string, error) {
	return s.parseToken(tokenStr, s.cfg.AccessSecret)
}

func (s *AuthService) parseToken(tokenStr, secret string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.Unauthenticated("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", apperror.Unauthenticated("invalid token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", apperror.Unauthenticated("invalid token claims")
	}
	return userID, nil
}
