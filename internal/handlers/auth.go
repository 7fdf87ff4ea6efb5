package handlers

import (
	"errors"
	"io"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/validation"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req validation.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.BindError(err))
		return
	}

	cmd, err := validation.Register(req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}

	apierrors.Created(c, dto.ToUserDTO(*user))
}

// Login authenticates a user, returns a token pair and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req validation.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validation.BindError(err))
		return
	}

	cmd, err := validation.Login(req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if !saveSession(c, result) {
		return
	}
	apierrors.OK(c, dto.ToAuthResponse(*result))
}

// Refresh exchanges a refresh token from the body, or from the session when
// the body has none, for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req validation.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(validation.BindError(err))
		return
	}

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = sessions.Default(c).Get(constants.SessionKeyRefreshToken).(string)
	}
	if refreshToken == "" {
		_ = c.Error(services.ErrInvalidRefreshToken)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if !saveSession(c, result) {
		return
	}
	apierrors.OK(c, dto.ToAuthResponse(*result))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	apierrors.Message(c, "Logged out successfully")
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	apierrors.OK(c, dto.ToUserDTO(*user))
}

func saveSession(c *gin.Context, result *services.AuthResult) bool {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, result.User.ID)
	session.Set(constants.SessionKeyRefreshToken, result.Tokens.RefreshToken)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}
