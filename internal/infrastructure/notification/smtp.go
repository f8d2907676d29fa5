package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"restaurant-review-api/internal/config"
	"restaurant-review-api/internal/logger"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const (
	resetSubject    = "Reset your password"
	defaultFrom     = "no-reply@example.com"
	sendTimeout     = 15 * time.Second
	implicitTLSPort = 465
)

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset</h2>
  <p>We received a request to reset the password for your account.</p>
  <p><a href="{{.ResetURL}}" style="background:#e4572e;color:#fff;padding:10px 18px;border-radius:4px;text-decoration:none;">Reset password</a></p>
  <p>Or copy this link into your browser:<br>{{.ResetURL}}</p>
  <p>The link expires in {{.TTLMinutes}} minutes and can be used once.</p>
  <p>If you did not ask for this, you can ignore this email.</p>
</body>
</html>`))

type resetEmailData struct {
	ResetURL   string
	TTLMinutes int
}

// mailSender is the part of *mail.Client the notifier uses.
type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type SMTPNotifier struct {
	client     mailSender
	from       string
	ttlMinutes int
}

func NewSMTPNotifier(cfg config.SMTPConfig, tokenTTL time.Duration) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(sendTimeout),
	}
	if cfg.Port == implicitTLSPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	logger.Info("SMTP notifier configured",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)
	return newSMTPNotifier(client, senderAddress(cfg), tokenTTL), nil
}

func newSMTPNotifier(client mailSender, from string, tokenTTL time.Duration) *SMTPNotifier {
	return &SMTPNotifier{client: client, from: from, ttlMinutes: int(tokenTTL / time.Minute)}
}

func senderAddress(cfg config.SMTPConfig) string {
	switch {
	case cfg.From != "":
		return cfg.From
	case cfg.User != "":
		return cfg.User
	default:
		return defaultFrom
	}
}

func (n *SMTPNotifier) SendPasswordResetEmail(ctx context.Context, to, resetURL string) error {
	msg, err := n.buildResetMessage(to, resetURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	logger.Info("Password reset email sent",
		zap.String("event", "password_reset_email_sent"),
	)
	return nil
}

func (n *SMTPNotifier) buildResetMessage(to, resetURL string) (*mail.Msg, error) {
	ttl := n.ttlMinutes
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, resetEmailData{ResetURL: resetURL, TTLMinutes: ttl}); err != nil {
		return nil, fmt.Errorf("failed to render password reset email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(mail.TypeTextHTML, body.String())
	msg.AddAlternativeString(mail.TypeTextPlain, fmt.Sprintf(
		"Reset your password using this link: %s\nThe link expires in %d minutes and can be used once.\n",
		resetURL, ttl,
	))
	return msg, nil
}
