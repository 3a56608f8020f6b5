package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// AuthService handles registration, login, and token issue/verify.
type AuthService struct {
	users  repository.Users
	tokens TokenConfig
}

func NewAuthService(users repository.Users, tokens TokenConfig) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Claims defines the JWT payload: identity plus role for the gate.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SignUp validates input, hashes the password, persists the user with
// role "user", and returns a fresh token alongside the stored record.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateRegistration(username, email, password); err != nil {
		return "", nil, err
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return "", nil, err
	} else if existing != nil {
		return "", nil, ErrDuplicateUser
	}
	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return "", nil, err
	} else if existing != nil {
		return "", nil, ErrDuplicateUser
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.Create(ctx, username, email, hash, models.RoleUser)
	if err != nil {
		return "", nil, err
	}

	u := &models.User{
		ID:        id,
		Username:  username,
		Email:     email,
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// SignIn verifies credentials and returns a token. Unknown email and
// wrong password yield the same error so responses cannot be used to
// enumerate accounts.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
func (s *AuthService) ParseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.tokens.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateAdmin stores a user with role admin. Only the startup bootstrap
// uses this; the HTTP API never mints admins.
func CreateAdmin(ctx context.Context, users repository.Users, username, email, password string) (int, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return 0, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return users.Create(ctx, username, email, hash, models.RoleAdmin)
}

func validateRegistration(username, email, password string) error {
	if username == "" {
		return newValidationError("username", "must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return newValidationError("email", "must be a valid email address")
	}
	if len(password) < minPasswordLen {
		return newValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	return nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(u *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokens.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
	return token.SignedString(s.tokens.Secret)
}
