package notification

import (
	"context"
	"time"

	"restaurant-review-api/internal/config"
	"restaurant-review-api/internal/logger"

	"go.uber.org/zap"
)

// Notifier delivers the password reset link to an account owner.
type Notifier interface {
	SendPasswordResetEmail(ctx context.Context, to, resetURL string) error
}

// NewNotifier returns an SMTP sender when the mail server is fully configured
// and falls back to logging the link otherwise.
func NewNotifier(cfg config.SMTPConfig, tokenTTL time.Duration) (Notifier, error) {
	if !cfg.Enabled() {
		logger.Warn("SMTP is not configured, password reset links will only be logged",
			zap.String("smtp_host", cfg.Host),
		)
		return NewLogNotifier(), nil
	}
	return NewSMTPNotifier(cfg, tokenTTL)
}

// LogNotifier writes reset links to the log instead of sending them. It is
// meant for local development.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SendPasswordResetEmail(_ context.Context, to, resetURL string) error {
	logger.Info("Password reset link (mail delivery disabled)",
		zap.String("to", to),
		zap.String("reset_url", resetURL),
		zap.String("event", "password_reset_link_logged"),
	)
	return nil
}
