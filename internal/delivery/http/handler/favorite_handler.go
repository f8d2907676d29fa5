package handler

import (
	"context"
	"net/http"

	"restaurant-review-api/internal/usecase/favorite"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type FavoriteService interface {
	List(ctx context.Context, userID uint) (*favorite.ListResponse, error)
	AddMenu(ctx context.Context, userID, menuID uint) (*favorite.MenuFavoriteResponse, error)
	RemoveMenu(ctx context.Context, userID, menuID uint) error
	IsMenuFavorite(ctx context.Context, userID, menuID uint) (*favorite.CheckResponse, error)
	AddRestaurant(ctx context.Context, userID, restaurantID uint) (*favorite.RestaurantFavoriteResponse, error)
	RemoveRestaurant(ctx context.Context, userID, restaurantID uint) error
	IsRestaurantFavorite(ctx context.Context, userID, restaurantID uint) (*favorite.CheckResponse, error)
}

type FavoriteHandler struct {
	service FavoriteService
}

func NewFavoriteHandler(service FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

func (h *FavoriteHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("", h.List)
	router.POST("/menu/:menuId", h.AddMenu)
	router.DELETE("/menu/:menuId", h.RemoveMenu)
	router.GET("/menu/:menuId/check", h.CheckMenu)
	router.POST("/restaurant/:restaurantId", h.AddRestaurant)
	router.DELETE("/restaurant/:restaurantId", h.RemoveRestaurant)
	router.GET("/restaurant/:restaurantId/check", h.CheckRestaurant)
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Favorites retrieved successfully", list)
}

func (h *FavoriteHandler) AddMenu(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	menuID, ok := idParam(c, "menuId")
	if !ok {
		return
	}

	fav, err := h.service.AddMenu(c.Request.Context(), userID, menuID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Menu added to favorites", fav)
}

func (h *FavoriteHandler) RemoveMenu(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	menuID, ok := idParam(c, "menuId")
	if !ok {
		return
	}

	if err := h.service.RemoveMenu(c.Request.Context(), userID, menuID); err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Menu removed from favorites", nil)
}

func (h *FavoriteHandler) CheckMenu(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	menuID, ok := idParam(c, "menuId")
	if !ok {
		return
	}

	check, err := h.service.IsMenuFavorite(c.Request.Context(), userID, menuID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Favorite status retrieved", check)
}

func (h *FavoriteHandler) AddRestaurant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	restaurantID, ok := idParam(c, "restaurantId")
	if !ok {
		return
	}

	fav, err := h.service.AddRestaurant(c.Request.Context(), userID, restaurantID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Restaurant added to favorites", fav)
}

func (h *FavoriteHandler) RemoveRestaurant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	restaurantID, ok := idParam(c, "restaurantId")
	if !ok {
		return
	}

	if err := h.service.RemoveRestaurant(c.Request.Context(), userID, restaurantID); err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Restaurant removed from favorites", nil)
}

func (h *FavoriteHandler) CheckRestaurant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	restaurantID, ok := idParam(c, "restaurantId")
	if !ok {
		return
	}

	check, err := h.service.IsRestaurantFavorite(c.Request.Context(), userID, restaurantID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Favorite status retrieved", check)
}
