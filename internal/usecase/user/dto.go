package user

import (
	"time"

	domainIngredient "restaurant-review-api/internal/domain/ingredient"
	domainUser "restaurant-review-api/internal/domain/user"
)

// PasswordResetRequestedMessage is returned for every forgot-password call so
// the response never reveals whether the address is registered.
const PasswordResetRequestedMessage = "If the email is registered, a password reset link has been sent. Please check your inbox."

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,max=50,username"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Country  *string `json:"country" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// UpdateProfileRequest only touches the fields that are present. Allergies,
// when present, replaces the whole set.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name" validate:"omitempty,max=255"`
	Phone           *string `json:"phone" validate:"omitempty,max=30"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	ProfileImageURL *string `json:"profile_image_url" validate:"omitempty,url,max=2048"`
	Country         *string `json:"country" validate:"omitempty,max=100"`
	Allergies       *[]uint `json:"allergies" validate:"omitempty,dive,gt=0"`
}

type VerifyResetTokenResponse struct {
	Valid bool `json:"valid"`
}

type UserResponse struct {
	ID              uint       `json:"user_id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	FullName        *string    `json:"full_name"`
	Country         *string    `json:"country"`
	ProfileImageURL *string    `json:"profile_image_url"`
	CreatedAt       time.Time  `json:"created_at"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
}

type AllergyResponse struct {
	IngredientID   uint   `json:"ingredient_id"`
	IngredientName string `json:"ingredient_name"`
}

type ProfileResponse struct {
	UserResponse
	Phone     *string           `json:"phone"`
	UpdatedAt time.Time         `json:"updated_at"`
	Allergies []AllergyResponse `json:"allergies"`
}

type AuthResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"access_token"`
	ExpiresAt   int64         `json:"expires_at"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FullName:        u.FullName,
		Country:         u.Country,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		LastLogin:       u.LastLogin,
	}
}

func ToProfileResponse(u *domainUser.User, allergies []*domainIngredient.Ingredient) *ProfileResponse {
	out := &ProfileResponse{
		UserResponse: *ToUserResponse(u),
		Phone:        u.Phone,
		UpdatedAt:    u.UpdatedAt,
		Allergies:    make([]AllergyResponse, 0, len(allergies)),
	}
	for _, a := range allergies {
		out.Allergies = append(out.Allergies, AllergyResponse{IngredientID: a.ID, IngredientName: a.Name})
	}
	return out
}
