package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"samajhub/internal/adapters/persistence/repositories"
	"samajhub/internal/pkg/ratelimit"
)

// MaintenanceService runs scheduled housekeeping jobs: clearing expired
// account lockouts and pruning stale rate-limit windows.
type MaintenanceService struct {
	systemUserRepo repositories.SystemUserRepository
	limiter        *ratelimit.MemoryLimiter
	cron           *cron.Cron
}

// NewMaintenanceService creates a maintenance service. limiter may be nil
// when a Redis limiter is in use (Redis keys expire on their own).
func NewMaintenanceService(systemUserRepo repositories.SystemUserRepository, limiter *ratelimit.MemoryLimiter) *MaintenanceService {
	return &MaintenanceService{
		systemUserRepo: systemUserRepo,
		limiter:        limiter,
		cron:           cron.New(),
	}
}

// Start registers and launches the scheduled jobs.
func (s *MaintenanceService) Start() {
	// Expired lockouts: every 15 minutes
	s.cron.AddFunc("*/15 * * * *", s.clearExpiredLockouts)

	// Rate-limit window pruning: hourly
	if s.limiter != nil {
		s.cron.AddFunc("0 * * * *", s.pruneRateLimitWindows)
	}

	s.cron.Start()
	log.Println("🚀 MaintenanceService started")
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 MaintenanceService stopped")
}

func (s *MaintenanceService) clearExpiredLockouts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cleared, err := s.systemUserRepo.ClearExpiredLockouts(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to clear expired lockouts: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("✅ Cleared %d expired account lockout(s)", cleared)
	}
}

func (s *MaintenanceService) pruneRateLimitWindows() {
	pruned := s.limiter.Prune()
	if pruned > 0 {
		log.Printf("✅ Pruned %d expired rate-limit window(s)", pruned)
	}
}
