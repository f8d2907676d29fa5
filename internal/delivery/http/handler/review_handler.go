package handler

import (
	"context"
	"net/http"
	"strconv"

	"restaurant-review-api/internal/usecase/review"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReviewService interface {
	ListByMenu(ctx context.Context, menuID uint, page, limit int) (*review.ListResponse, error)
	Create(ctx context.Context, userID uint, req *review.CreateRequest) (*review.ReviewResponse, error)
	Update(ctx context.Context, userID, reviewID uint, req *review.UpdateRequest) (*review.ReviewResponse, error)
	Delete(ctx context.Context, userID, reviewID uint) error
}

type ReviewHandler struct {
	service ReviewService
}

func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) RegisterPublicRoutes(router gin.IRoutes) {
	router.GET("/menu/:menuId", h.ListByMenu)
}

func (h *ReviewHandler) RegisterProtectedRoutes(router gin.IRoutes) {
	router.POST("", h.Create)
	router.PUT("/:id", h.Update)
	router.DELETE("/:id", h.Delete)
}

func (h *ReviewHandler) ListByMenu(c *gin.Context) {
	menuID, ok := idParam(c, "menuId")
	if !ok {
		return
	}
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", review.DefaultPageSize)
	if !ok {
		return
	}

	list, err := h.service.ListByMenu(c.Request.Context(), menuID, page, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Reviews retrieved successfully", list)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req review.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Comment = utils.SanitizeText(req.Comment)

	created, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Review created", created)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reviewID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req review.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Comment = sanitizeOptional(req.Comment, utils.SanitizeText)

	updated, err := h.service.Update(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Review updated", updated)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reviewID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, reviewID); err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Review deleted", nil)
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return n, true
}
