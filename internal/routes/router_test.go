package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurant-review-api/internal/config"
	domainSaved "restaurant-review-api/internal/domain/saved"
	domainUser "restaurant-review-api/internal/domain/user"
	"restaurant-review-api/internal/usecase/favorite"
	"restaurant-review-api/internal/usecase/ingredient"
	"restaurant-review-api/internal/usecase/review"
	"restaurant-review-api/internal/usecase/saved"
	"restaurant-review-api/internal/usecase/user"
	appErrors "restaurant-review-api/pkg/errors"
	"restaurant-review-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDB struct{ err error }

func (s stubDB) Health(context.Context) error { return s.err }

type stubUsers struct{}

func (stubUsers) Register(context.Context, *user.RegisterRequest) (*user.AuthResponse, error) {
	return &user.AuthResponse{}, nil
}
func (stubUsers) Login(context.Context, *user.LoginRequest) (*user.AuthResponse, error) {
	return nil, appErrors.ErrInvalidCredentials
}
func (stubUsers) RequestPasswordReset(context.Context, *user.ForgotPasswordRequest) error {
	return nil
}
func (stubUsers) VerifyResetToken(context.Context, string) *user.VerifyResetTokenResponse {
	return &user.VerifyResetTokenResponse{}
}
func (stubUsers) ResetPassword(context.Context, *user.ResetPasswordRequest) error { return nil }
func (stubUsers) ChangePassword(context.Context, uint, *user.ChangePasswordRequest) error {
	return nil
}
func (stubUsers) GetProfile(_ context.Context, id uint) (*user.ProfileResponse, error) {
	return &user.ProfileResponse{UserResponse: user.UserResponse{ID: id}}, nil
}
func (stubUsers) UpdateProfile(_ context.Context, id uint, _ *user.UpdateProfileRequest) (*user.ProfileResponse, error) {
	return &user.ProfileResponse{UserResponse: user.UserResponse{ID: id}}, nil
}
func (stubUsers) Authenticate(_ context.Context, id uint) (*domainUser.User, error) {
	if id != 1 {
		return nil, appErrors.ErrUnauthorized
	}
	return &domainUser.User{ID: 1, Username: "u1"}, nil
}

type stubIngredients struct{}

func (stubIngredients) Search(context.Context, string) ([]ingredient.IngredientResponse, error) {
	return []ingredient.IngredientResponse{}, nil
}
func (stubIngredients) ListAllergies(context.Context, uint) ([]ingredient.IngredientResponse, error) {
	return []ingredient.IngredientResponse{}, nil
}
func (stubIngredients) AddAllergy(context.Context, uint, *ingredient.AllergyRequest) ([]ingredient.IngredientResponse, error) {
	return []ingredient.IngredientResponse{}, nil
}
func (stubIngredients) RemoveAllergy(context.Context, uint, *ingredient.AllergyRequest) ([]ingredient.IngredientResponse, error) {
	return []ingredient.IngredientResponse{}, nil
}

type stubFavorites struct{}

func (stubFavorites) List(context.Context, uint) (*favorite.ListResponse, error) {
	return &favorite.ListResponse{}, nil
}
func (stubFavorites) AddMenu(context.Context, uint, uint) (*favorite.MenuFavoriteResponse, error) {
	return &favorite.MenuFavoriteResponse{}, nil
}
func (stubFavorites) RemoveMenu(context.Context, uint, uint) error { return nil }
func (stubFavorites) IsMenuFavorite(context.Context, uint, uint) (*favorite.CheckResponse, error) {
	return &favorite.CheckResponse{}, nil
}
func (stubFavorites) AddRestaurant(context.Context, uint, uint) (*favorite.RestaurantFavoriteResponse, error) {
	return &favorite.RestaurantFavoriteResponse{}, nil
}
func (stubFavorites) RemoveRestaurant(context.Context, uint, uint) error { return nil }
func (stubFavorites) IsRestaurantFavorite(context.Context, uint, uint) (*favorite.CheckResponse, error) {
	return &favorite.CheckResponse{}, nil
}

type stubSaved struct{}

func (stubSaved) List(context.Context, uint) (*saved.ListResponse, error) {
	return &saved.ListResponse{}, nil
}
func (stubSaved) Add(_ context.Context, _ uint, kind domainSaved.Kind, id uint) (*saved.ActionResponse, error) {
	return &saved.ActionResponse{Type: kind, ItemID: id, Action: saved.ActionAdded}, nil
}
func (stubSaved) Remove(_ context.Context, _ uint, kind domainSaved.Kind, id uint) (*saved.ActionResponse, error) {
	return &saved.ActionResponse{Type: kind, ItemID: id, Action: saved.ActionRemoved}, nil
}
func (stubSaved) IsSaved(context.Context, uint, domainSaved.Kind, uint) (*saved.CheckResponse, error) {
	return &saved.CheckResponse{}, nil
}

type stubReviews struct{}

func (stubReviews) ListByMenu(_ context.Context, _ uint, page, limit int) (*review.ListResponse, error) {
	return &review.ListResponse{Reviews: []review.ReviewResponse{}, Meta: review.PageMeta{Page: page, Limit: limit}}, nil
}
func (stubReviews) Create(_ context.Context, _ uint, req *review.CreateRequest) (*review.ReviewResponse, error) {
	return &review.ReviewResponse{ID: 9, MenuID: req.MenuID, Rating: req.Rating, Comment: req.Comment}, nil
}
func (stubReviews) Update(_ context.Context, _, id uint, _ *review.UpdateRequest) (*review.ReviewResponse, error) {
	return &review.ReviewResponse{ID: id}, nil
}
func (stubReviews) Delete(context.Context, uint, uint) error { return nil }

func newTestRouter(t *testing.T, db HealthChecker) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		JWT:    config.JWTConfig{Secret: testSecret, ExpiryHours: 1},
		RateLimit: config.RateLimitConfig{
			GeneralRPS: 100, GeneralBurst: 100,
			AuthRPS: 0.001, AuthBurst: 3,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST"},
		},
	}
	return SetupRoutes(ctx, cfg, db, Services{
		Users:       stubUsers{},
		Ingredients: stubIngredients{},
		Favorites:   stubFavorites{},
		Saved:       stubSaved{},
		Reviews:     stubReviews{},
	})
}

func serve(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:4000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestRouter(t, stubDB{}), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(newTestRouter(t, stubDB{err: errors.New("down")}), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t, stubDB{})

	for _, path := range []string{"/auth/me", "/user/allergy", "/api/favorites", "/api/saved"} {
		w := serve(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	session, err := utils.GenerateAccessToken(1, "a@x.com", "u1", testSecret, time.Hour, time.Now())
	require.NoError(t, err)
	for _, path := range []string{"/auth/me", "/user/allergy", "/api/favorites", "/api/saved"} {
		w := serve(r, http.MethodGet, path, session.AccessToken, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := serve(r, http.MethodGet, "/ingredient/search?q=egg", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommentRoutes(t *testing.T) {
	r := newTestRouter(t, stubDB{})

	w := serve(r, http.MethodGet, "/comments/menu/4", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := `{"menu_id":4,"rating":5,"comment":"great"}`
	w = serve(r, http.MethodPost, "/comments", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = serve(r, http.MethodDelete, "/comments/9", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	session, err := utils.GenerateAccessToken(1, "a@x.com", "u1", testSecret, time.Hour, time.Now())
	require.NoError(t, err)
	w = serve(r, http.MethodPost, "/comments", session.AccessToken, body)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = serve(r, http.MethodPut, "/comments/9", session.AccessToken, `{"rating":4}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	r := newTestRouter(t, stubDB{})

	for i := 0; i < 3; i++ {
		w := serve(r, http.MethodPost, "/auth/forgot-password", "", `{"email":"a@x.com"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(r, http.MethodPost, "/auth/forgot-password", "", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	w := serve(newTestRouter(t, stubDB{}), http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
