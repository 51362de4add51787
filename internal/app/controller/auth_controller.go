package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
	"github.com/ikkim/hotel-admin-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the token and when it stops being accepted
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expiresIn"`
	ExpiresAt int64       `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// Register handles account creation
// POST /api/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid registration data")
		return
	}

	user, err := ctrl.authService.Register(service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     model.UserRole(req.Role),
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "username is already taken")
		case errors.Is(err, service.ErrRoleNotAllowed):
			apperrors.BadRequest(c, apperrors.AuthRoleNotAllowed, "role cannot be registered")
		case errors.Is(err, service.ErrUsernameRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "username is required")
		case errors.Is(err, util.ErrPasswordTooShort), errors.Is(err, util.ErrPasswordTooLong):
			apperrors.BadRequest(c, apperrors.AuthWeakPassword, err.Error())
		default:
			log.Error("Registration failed", err)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register")
		}
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	apperrors.Created(c, "registered", gin.H{"user": user})
}

// Login exchanges credentials for an access token
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "username and password are required")
		return
	}

	user, token, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "wrong username or password")
			return
		}
		log.Error("Login failed", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	apperrors.SuccessMessage(c, "login successful", LoginResponse{
		Token:     token.Token,
		ExpiresIn: token.ExpiresIn,
		ExpiresAt: token.ExpiresAt.Unix(),
		User:      user,
	})
}

// Logout revokes the caller's token
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := middleware.GetToken(c)
	if !ok {
		apperrors.Unauthorized(c, "authentication required")
		return
	}
	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		log.Error("Logout failed", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "logout")
		return
	}
	apperrors.SuccessMessage(c, "logged out", nil)
}

// GetMe returns the authenticated account
// GET /api/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "user not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}
	apperrors.Success(c, gin.H{"user": user})
}
