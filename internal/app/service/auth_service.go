package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotAllowed     = errors.New("role cannot be registered")
	ErrUsernameRequired   = errors.New("username is required")
)

// TokenBlacklist revokes tokens before their natural expiry
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string, expiry time.Duration) error
}

type RegisterInput struct {
	Username string
	Password string
	Role     model.UserRole // empty means merchant
	Email    string
	Phone    string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(username, password string) (*model.User, *util.IssuedToken, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo     repository.UserRepository
	blacklist    TokenBlacklist
	jwtSecret    string
	accessExpiry time.Duration
}

// NewAuthService builds the service. blacklist may be nil, in which case
// logout cannot revoke tokens and they stay valid until they expire.
func NewAuthService(
	userRepo repository.UserRepository,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		blacklist:    blacklist,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	role := input.Role
	if role == "" {
		role = model.RoleMerchant
	}

	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
		"role":     role,
	})

	if username == "" {
		return nil, ErrUsernameRequired
	}
	// admins are provisioned by the seeder only
	if !role.Valid() || role == model.RoleAdmin {
		logger.Warn("Registration refused: role not allowed", map[string]interface{}{
			"username": username,
			"role":     role,
		})
		return nil, ErrRoleNotAllowed
	}
	if err := util.CheckPasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
		"role":     user.Role,
	})
	return user, nil
}

func (s *authService) Login(username, password string) (*model.User, *util.IssuedToken, error) {
	username = strings.TrimSpace(username)
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"username": username,
			"user_id":  user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	token, err := util.GenerateToken(user.ID, user.Username, string(user.Role), s.jwtSecret, s.accessExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
		"role":     user.Role,
	})
	return user, token, nil
}

// Logout revokes token for the rest of its lifetime
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return err
	}
	if s.blacklist == nil {
		logger.Warn("Token blacklist unavailable, logout is client-side only", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, token, util.TokenTTL(claims)); err != nil {
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
