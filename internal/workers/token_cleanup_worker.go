package workers

import (
	"context"
	"time"

	"nopo_backend/internal/logger"
	"nopo_backend/internal/repositories"

	"gorm.io/gorm"
)

// DefaultTokenCleanupInterval - как часто чистятся истекшие refresh-токены
const DefaultTokenCleanupInterval = 6 * time.Hour

type TokenCleanupWorker struct {
	db       *gorm.DB
	repo     repositories.RefreshTokenRepository
	interval time.Duration
	now      func() time.Time
}

func NewTokenCleanupWorker(db *gorm.DB, repo repositories.RefreshTokenRepository, interval time.Duration) *TokenCleanupWorker {
	if interval <= 0 {
		interval = DefaultTokenCleanupInterval
	}
	return &TokenCleanupWorker{
		db:       db,
		repo:     repo,
		interval: interval,
		now:      time.Now,
	}
}

// Start запускает фоновую очистку; останавливается при отмене ctx.
// Возвращаемый канал закрывается после выхода горутины.
func (w *TokenCleanupWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(ctx)
	}()
	return done
}

func (w *TokenCleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce удаляет истекшие токены один раз.
func (w *TokenCleanupWorker) RunOnce(ctx context.Context) int64 {
	deleted, err := w.repo.DeleteExpired(w.db.WithContext(ctx), w.now())
	if err != nil {
		logger.CtxWithError(ctx, "Failed to delete expired refresh tokens", err)
		return 0
	}
	if deleted > 0 {
		logger.CtxInfo(ctx, "Expired refresh tokens deleted", "count", deleted)
	}
	return deleted
}
