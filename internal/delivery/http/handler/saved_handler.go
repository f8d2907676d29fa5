package handler

import (
	"context"
	"net/http"

	domainSaved "restaurant-review-api/internal/domain/saved"
	"restaurant-review-api/internal/usecase/saved"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SavedService interface {
	List(ctx context.Context, userID uint) (*saved.ListResponse, error)
	Add(ctx context.Context, userID uint, kind domainSaved.Kind, targetID uint) (*saved.ActionResponse, error)
	Remove(ctx context.Context, userID uint, kind domainSaved.Kind, targetID uint) (*saved.ActionResponse, error)
	IsSaved(ctx context.Context, userID uint, kind domainSaved.Kind, targetID uint) (*saved.CheckResponse, error)
}

type SavedHandler struct {
	service SavedService
}

func NewSavedHandler(service SavedService) *SavedHandler {
	return &SavedHandler{service: service}
}

func (h *SavedHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("", h.List)
	router.POST("/menu/:menuId", h.add(domainSaved.KindMenu, "menuId"))
	router.DELETE("/menu/:menuId", h.remove(domainSaved.KindMenu, "menuId"))
	router.GET("/menu/:menuId/check", h.check(domainSaved.KindMenu, "menuId"))
	router.POST("/restaurant/:restaurantId", h.add(domainSaved.KindRestaurant, "restaurantId"))
	router.DELETE("/restaurant/:restaurantId", h.remove(domainSaved.KindRestaurant, "restaurantId"))
	router.GET("/restaurant/:restaurantId/check", h.check(domainSaved.KindRestaurant, "restaurantId"))
}

func (h *SavedHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Saved list retrieved successfully", list)
}

func (h *SavedHandler) add(kind domainSaved.Kind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, targetID, ok := savedTarget(c, param)
		if !ok {
			return
		}

		resp, err := h.service.Add(c.Request.Context(), userID, kind, targetID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusCreated, "Item saved", resp)
	}
}

func (h *SavedHandler) remove(kind domainSaved.Kind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, targetID, ok := savedTarget(c, param)
		if !ok {
			return
		}

		resp, err := h.service.Remove(c.Request.Context(), userID, kind, targetID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Item removed from saved list", resp)
	}
}

func (h *SavedHandler) check(kind domainSaved.Kind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, targetID, ok := savedTarget(c, param)
		if !ok {
			return
		}

		resp, err := h.service.IsSaved(c.Request.Context(), userID, kind, targetID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Saved status retrieved", resp)
	}
}

func savedTarget(c *gin.Context, param string) (uint, uint, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return 0, 0, false
	}
	targetID, ok := idParam(c, param)
	if !ok {
		return 0, 0, false
	}
	return userID, targetID, true
}
