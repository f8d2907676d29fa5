package user

import (
	"context"
	"fmt"

	"restaurant-review-api/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartResetTokenAuditJob schedules a periodic report of the reset token
// table on expr (standard cron syntax or descriptors such as @hourly). Tokens
// are never deleted, so the job only counts. It stops when ctx is done.
func (s *Service) StartResetTokenAuditJob(ctx context.Context, expr string) error {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return fmt.Errorf("invalid reset token audit schedule %q: %w", expr, err)
	}

	scheduler := cron.New()
	scheduler.Schedule(schedule, cron.FuncJob(func() {
		s.auditResetTokens(ctx)
	}))
	scheduler.Start()

	logger.Info("Reset token audit job started",
		zap.String("schedule", expr),
		zap.Time("next_run", schedule.Next(s.now())),
	)

	go func() {
		<-ctx.Done()
		<-scheduler.Stop().Done()
		logger.Info("Reset token audit job stopped")
	}()

	return nil
}

func (s *Service) auditResetTokens(ctx context.Context) {
	stats, err := s.resetTokenRepo.Stats(ctx, s.now())
	if err != nil {
		logger.Error("Failed to audit reset tokens", zap.Error(err))
		return
	}

	logger.Info("Reset token audit",
		zap.Int64("active", stats.Active),
		zap.Int64("expired_unused", stats.Expired),
		zap.Int64("used", stats.Used),
		zap.String("event", "reset_token_audit"),
	)
}
