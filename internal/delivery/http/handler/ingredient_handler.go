package handler

import (
	"context"
	"net/http"

	"restaurant-review-api/internal/usecase/ingredient"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

type IngredientService interface {
	Search(ctx context.Context, query string) ([]ingredient.IngredientResponse, error)
	ListAllergies(ctx context.Context, userID uint) ([]ingredient.IngredientResponse, error)
	AddAllergy(ctx context.Context, userID uint, req *ingredient.AllergyRequest) ([]ingredient.IngredientResponse, error)
	RemoveAllergy(ctx context.Context, userID uint, req *ingredient.AllergyRequest) ([]ingredient.IngredientResponse, error)
}

type IngredientHandler struct {
	service IngredientService
}

func NewIngredientHandler(service IngredientService) *IngredientHandler {
	return &IngredientHandler{service: service}
}

func (h *IngredientHandler) RegisterIngredientRoutes(router gin.IRoutes) {
	router.GET("", h.Search)
	router.GET("/search", h.Search)
}

func (h *IngredientHandler) RegisterAllergyRoutes(router gin.IRoutes) {
	router.GET("", h.ListAllergies)
	router.POST("", h.AddAllergy)
	router.DELETE("", h.RemoveAllergy)
}

func (h *IngredientHandler) Search(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Ingredients retrieved successfully", items)
}

func (h *IngredientHandler) ListAllergies(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.service.ListAllergies(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Allergies retrieved successfully", items)
}

func (h *IngredientHandler) AddAllergy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ingredient.AllergyRequest
	if !bindJSON(c, &req) {
		return
	}

	items, err := h.service.AddAllergy(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Allergy added successfully", items)
}

func (h *IngredientHandler) RemoveAllergy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ingredient.AllergyRequest
	if !bindJSON(c, &req) {
		return
	}

	items, err := h.service.RemoveAllergy(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Allergy removed successfully", items)
}
