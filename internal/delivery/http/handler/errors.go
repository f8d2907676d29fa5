package handler

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant-review-api/internal/logger"
	"restaurant-review-api/internal/middleware"
	appErrors "restaurant-review-api/pkg/errors"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrEmailTaken),
		errors.Is(err, appErrors.ErrUsernameTaken),
		errors.Is(err, appErrors.ErrAlreadyFavorited),
		errors.Is(err, appErrors.ErrAlreadySaved):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrUserNotFound),
		errors.Is(err, appErrors.ErrMenuNotFound),
		errors.Is(err, appErrors.ErrRestaurantNotFound),
		errors.Is(err, appErrors.ErrFavoriteNotFound),
		errors.Is(err, appErrors.ErrSavedNotFound),
		errors.Is(err, appErrors.ErrReviewNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErrors.ErrResetTokenInvalid),
		errors.Is(err, appErrors.ErrResetTokenExpired),
		errors.Is(err, appErrors.ErrPasswordReused),
		errors.Is(err, appErrors.ErrCurrentPasswordIncorrect):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Error())
			return
		}
		// A bare ErrIngredientNotFound means the referenced ingredient is
		// missing. Inside a profile update it arrives wrapped as validation.
		if errors.Is(err, appErrors.ErrIngredientNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}

		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// bindJSON decodes the body and answers 400 itself when it cannot. Unknown
// fields are rejected through gin's decoder settings, see routes.Setup.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	return userID, true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
