package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"restaurant-review-api/internal/config"
	domainIngredient "restaurant-review-api/internal/domain/ingredient"
	domainUser "restaurant-review-api/internal/domain/user"
	"restaurant-review-api/internal/logger"
	appErrors "restaurant-review-api/pkg/errors"
	"restaurant-review-api/pkg/utils"

	"go.uber.org/zap"
)

// Notifier delivers the password reset link to the account owner.
type Notifier interface {
	SendPasswordResetEmail(ctx context.Context, to, resetURL string) error
}

// EventPublisher fans account events out to other systems. Failures are
// logged and never change the outcome of the operation that raised them.
type EventPublisher interface {
	Publish(ctx context.Context, event domainUser.Event) error
}

type Option func(*Service)

// WithClock replaces time.Now, mainly so tests can pin token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRandomSource replaces crypto/rand as the reset token entropy source.
func WithRandomSource(r io.Reader) Option {
	return func(s *Service) {
		s.random = r
	}
}

// Service implements user use cases
type Service struct {
	userRepo       domainUser.Repository
	resetTokenRepo domainUser.ResetTokenRepository
	allergyRepo    domainIngredient.Repository
	notifier       Notifier
	publisher      EventPublisher
	config         *config.Config

	now    func() time.Time
	random io.Reader
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	resetTokenRepo domainUser.ResetTokenRepository,
	allergyRepo domainIngredient.Repository,
	notifier Notifier,
	publisher EventPublisher,
	cfg *config.Config,
	opts ...Option,
) *Service {
	s := &Service{
		userRepo:       userRepo,
		resetTokenRepo: resetTokenRepo,
		allergyRepo:    allergyRepo,
		notifier:       notifier,
		publisher:      publisher,
		config:         cfg,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	existing, err := s.userRepo.FindByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if conflict := registrationConflict(existing, req); conflict != nil {
		logger.Warn("Registration attempt with taken credentials",
			zap.String("username", req.Username),
			zap.String("reason", conflict.Error()),
			zap.String("event", "registration_failed_duplicate"),
		)
		return nil, conflict
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeWeakPassword, err.Error(), nil)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domainUser.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FullName:     req.FullName,
		Country:      req.Country,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapUserError(err)
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("event", "user_registered"),
	)
	s.publish(ctx, domainUser.EventRegistered, user.ID)

	return &AuthResponse{
		User:        ToUserResponse(user),
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// registrationConflict names the taken field. Email wins when both collide.
func registrationConflict(existing []*domainUser.User, req *RegisterRequest) error {
	var usernameTaken bool
	for _, u := range existing {
		if strings.EqualFold(u.Email, req.Email) {
			return appErrors.ErrEmailTaken
		}
		if u.Username == req.Username {
			usernameTaken = true
		}
	}
	if usernameTaken {
		return appErrors.ErrUsernameTaken
	}
	return nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			utils.CheckPassword(utils.DummyPasswordHash(), req.Password)
			logger.Warn("Login attempt with non-existent email",
				zap.String("event", "login_failed_unknown_email"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.Uint("user_id", user.ID),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.Error("Failed to record last login",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	} else {
		user.LastLogin = &now
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in successfully",
		zap.Uint("user_id", user.ID),
		zap.String("event", "login_success"),
	)
	s.publish(ctx, domainUser.EventLoggedIn, user.ID)

	return &AuthResponse{
		User:        ToUserResponse(user),
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// RequestPasswordReset issues and mails a reset token when the address is
// registered. Apart from input validation it always returns nil so callers
// cannot tell registered and unknown addresses apart.
func (s *Service) RequestPasswordReset(ctx context.Context, req *ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for non-existent email",
				zap.String("event", "password_reset_requested_unknown_email"),
			)
			return nil
		}
		logger.Error("Failed to look up user for password reset",
			zap.String("event", "password_reset_lookup_failed"),
			zap.Error(err),
		)
		return nil
	}

	token, err := utils.GenerateResetToken(s.random)
	if err != nil {
		logger.Error("Failed to generate password reset token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil
	}

	now := s.now()
	resetToken := &domainUser.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(s.config.Reset.TokenTTL()),
		CreatedAt: now,
	}
	if err := s.resetTokenRepo.Create(ctx, resetToken); err != nil {
		logger.Error("Failed to store password reset token",
			zap.Uint("user_id", user.ID),
			zap.String("event", "password_reset_token_store_failed"),
			zap.Error(err),
		)
		return nil
	}

	logger.Info("Password reset token generated",
		zap.Uint("user_id", user.ID),
		zap.Uint("token_id", resetToken.ID),
		zap.Time("expires_at", resetToken.ExpiresAt),
		zap.String("event", "password_reset_token_generated"),
	)
	s.publish(ctx, domainUser.EventPasswordResetRequested, user.ID)

	if err := s.notifier.SendPasswordResetEmail(ctx, user.Email, s.buildResetURL(token)); err != nil {
		logger.Warn("Failed to deliver password reset email",
			zap.Uint("user_id", user.ID),
			zap.Uint("token_id", resetToken.ID),
			zap.String("event", "password_reset_email_failed"),
			zap.Error(err),
		)
		s.publish(ctx, domainUser.EventResetEmailFailed, user.ID)
	}

	return nil
}

func (s *Service) buildResetURL(token string) string {
	base := strings.TrimSuffix(s.config.Reset.FrontendURL, "/")
	return fmt.Sprintf("%s/reset-password?token=%s", base, token)
}

// VerifyResetToken is a read-only check used by the reset page before it
// shows the password form. Lookup failures read as invalid.
func (s *Service) VerifyResetToken(ctx context.Context, token string) *VerifyResetTokenResponse {
	if !utils.IsResetTokenFormat(token) {
		return &VerifyResetTokenResponse{Valid: false}
	}

	resetToken, err := s.resetTokenRepo.GetByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, domainUser.ErrResetTokenNotFound) {
			logger.Error("Failed to look up reset token",
				zap.String("event", "reset_token_verify_failed"),
				zap.Error(err),
			)
		}
		return &VerifyResetTokenResponse{Valid: false}
	}

	return &VerifyResetTokenResponse{Valid: resetToken.IsUsable(s.now())}
}

func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	if !utils.IsResetTokenFormat(req.Token) {
		logger.Warn("Password reset attempt with malformed token",
			zap.String("event", "password_reset_failed_invalid_token"),
		)
		return appErrors.ErrResetTokenInvalid
	}

	resetToken, err := s.resetTokenRepo.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, domainUser.ErrResetTokenNotFound) {
			logger.Warn("Password reset attempt with unknown token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
			return appErrors.ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	if resetToken.Used {
		logger.Warn("Password reset attempt with used token",
			zap.Uint("token_id", resetToken.ID),
			zap.String("event", "password_reset_failed_used_token"),
		)
		return appErrors.ErrResetTokenInvalid
	}

	now := s.now()
	if resetToken.IsExpired(now) {
		logger.Warn("Password reset attempt with expired token",
			zap.Uint("token_id", resetToken.ID),
			zap.String("event", "password_reset_failed_expired_token"),
		)
		return appErrors.ErrResetTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, resetToken.UserID)
	if err != nil {
		return mapUserError(err)
	}

	hashedPassword, err := preparePassword(user, req.Password)
	if err != nil {
		return err
	}

	if err := s.resetTokenRepo.Consume(ctx, resetToken, hashedPassword, now); err != nil {
		if errors.Is(err, domainUser.ErrResetTokenConsumed) {
			return appErrors.ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	logger.Info("Password reset successfully",
		zap.Uint("user_id", user.ID),
		zap.Uint("token_id", resetToken.ID),
		zap.String("event", "password_reset_success"),
	)
	s.publish(ctx, domainUser.EventPasswordResetCompleted, user.ID)

	return nil
}

// ChangePassword applies the same strength and reuse rules as ResetPassword
// and also burns any reset links still in flight.
func (s *Service) ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return mapUserError(err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		logger.Warn("Password change attempt with invalid current password",
			zap.Uint("user_id", user.ID),
			zap.String("event", "password_change_failed_invalid_current_password"),
		)
		return appErrors.ErrCurrentPasswordIncorrect
	}

	hashedPassword, err := preparePassword(user, req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.ChangePassword(ctx, userID, hashedPassword, s.now()); err != nil {
		return mapUserError(err)
	}

	logger.Info("Password changed successfully",
		zap.Uint("user_id", user.ID),
		zap.String("event", "password_change_success"),
	)
	s.publish(ctx, domainUser.EventPasswordChanged, user.ID)

	return nil
}

// preparePassword enforces the password policy against u and returns the
// hash to store.
func preparePassword(u *domainUser.User, newPassword string) (string, error) {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return "", appErrors.NewAppError(appErrors.CodeWeakPassword, err.Error(), nil)
	}

	if utils.CheckPassword(u.PasswordHash, newPassword) {
		logger.Warn("Password update rejected: reuse of current password",
			zap.Uint("user_id", u.ID),
			zap.String("event", "password_reuse_rejected"),
		)
		return "", appErrors.ErrPasswordReused
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashedPassword, nil
}

// Authenticate resolves the user behind a verified session token.
func (s *Service) Authenticate(ctx context.Context, userID uint) (*domainUser.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uint) (*ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err)
	}

	allergies, err := s.allergyRepo.ListUserAllergies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load allergies: %w", err)
	}

	return ToProfileResponse(user, allergies), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*ProfileResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err)
	}

	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		other, err := s.userRepo.GetByEmail(ctx, *req.Email)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, appErrors.ErrEmailTaken
		case err != nil && !errors.Is(err, domainUser.ErrUserNotFound):
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = req.ProfileImageURL
	}
	if req.Country != nil {
		user.Country = req.Country
	}

	var allergyIDs []uint
	if req.Allergies != nil {
		allergyIDs = uniqueIDs(*req.Allergies)
		found, err := s.allergyRepo.GetByIDs(ctx, allergyIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to check allergies: %w", err)
		}
		if len(found) != len(allergyIDs) {
			return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", appErrors.ErrIngredientNotFound)
		}
	}

	if req.Allergies != nil {
		err = s.userRepo.UpdateWithAllergies(ctx, user, allergyIDs)
	} else {
		err = s.userRepo.Update(ctx, user)
	}
	if err != nil {
		return nil, mapUserError(err)
	}

	logger.Info("Profile updated",
		zap.Uint("user_id", userID),
		zap.String("event", "profile_updated"),
	)

	return s.GetProfile(ctx, userID)
}

func (s *Service) issueSession(u *domainUser.User) (*utils.SessionToken, error) {
	session, err := utils.GenerateAccessToken(
		u.ID,
		u.Email,
		u.Username,
		s.config.JWT.Secret,
		s.config.JWT.TTL(),
		s.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return session, nil
}

func (s *Service) publish(ctx context.Context, eventType domainUser.EventType, userID uint) {
	if s.publisher == nil {
		return
	}
	event := domainUser.Event{Type: eventType, UserID: userID, OccurredAt: s.now()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish auth event",
			zap.String("type", string(eventType)),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}

func mapUserError(err error) error {
	switch {
	case errors.Is(err, domainUser.ErrUserNotFound):
		return appErrors.ErrUserNotFound
	case errors.Is(err, domainUser.ErrEmailTaken):
		return appErrors.ErrEmailTaken
	case errors.Is(err, domainUser.ErrUsernameTaken):
		return appErrors.ErrUsernameTaken
	default:
		return err
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
