package handler

import (
	"context"
	"net/http"
	"strings"

	"restaurant-review-api/internal/logger"
	"restaurant-review-api/internal/middleware"
	"restaurant-review-api/internal/usecase/user"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthService is implemented by *user.Service.
type AuthService interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error)
	Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, req *user.ForgotPasswordRequest) error
	VerifyResetToken(ctx context.Context, token string) *user.VerifyResetTokenResponse
	ResetPassword(ctx context.Context, req *user.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID uint, req *user.ChangePasswordRequest) error
	GetProfile(ctx context.Context, userID uint) (*user.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req *user.UpdateProfileRequest) (*user.ProfileResponse, error)
}

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
func (h *AuthHandler) RegisterPublicRoutes(router gin.IRoutes) {
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/forgot-password", h.ForgotPassword)
	router.GET("/reset-password/verify", h.VerifyResetToken)
	router.POST("/reset-password", h.ResetPassword)
}

func (h *AuthHandler) RegisterProtectedRoutes(router gin.IRoutes) {
	router.GET("/me", h.Me)
	router.PUT("/profile", h.UpdateProfile)
	router.POST("/change-password", h.ChangePassword)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = sanitizeOptional(req.FullName, utils.SanitizeString)
	req.Country = sanitizeOptional(req.Country, utils.SanitizeString)

	authResponse, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", authResponse)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)

	authResponse, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", authResponse)
}

// ForgotPassword answers with the same message whatever happened, so the
// response cannot be used to discover registered addresses.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req user.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	email, err := utils.ValidateAndSanitizeEmail(req.Email)
	if err != nil {
		logger.Debug("Forgot password request with malformed email",
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		utils.SuccessResponse(c, http.StatusOK, user.PasswordResetRequestedMessage, nil)
		return
	}
	req.Email = email

	if err := h.service.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		logger.Debug("Forgot password request rejected",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}

	utils.SuccessResponse(c, http.StatusOK, user.PasswordResetRequestedMessage, nil)
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	resp := h.service.VerifyResetToken(c.Request.Context(), c.Query("token"))
	utils.SuccessResponse(c, http.StatusOK, "Token checked", resp)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	req.FullName = sanitizeOptional(req.FullName, utils.SanitizeString)
	req.Phone = sanitizeOptional(req.Phone, utils.SanitizePhone)
	req.Email = sanitizeOptional(req.Email, utils.SanitizeEmail)
	req.Country = sanitizeOptional(req.Country, utils.SanitizeString)
	req.ProfileImageURL = sanitizeOptional(req.ProfileImageURL, strings.TrimSpace)

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}

func sanitizeOptional(v *string, sanitize func(string) string) *string {
	if v == nil {
		return nil
	}
	s := sanitize(*v)
	return &s
}
