package cleanup

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/metrics"
	"github.com/killallgit/recipe-api/pkg/download"
)

// Service periodically removes stale downloaded videos and extracted audio
type Service struct {
	tempDir         string
	maxAge          time.Duration
	cleanupInterval time.Duration
	logger          *zap.Logger
	metrics         *metrics.Collector

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new cleanup service
func NewService(tempDir string, maxAge, cleanupInterval time.Duration, logger *zap.Logger, m *metrics.Collector) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	return &Service{
		tempDir:         tempDir,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		logger:          logger.Named("cleanup"),
		metrics:         m,
	}
}

// Start runs an initial sweep and then sweeps on every interval until Stop or ctx is done
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.RunOnce()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce()
			case <-ctx.Done():
				s.logger.Info("cleanup service stopped")
				return
			}
		}
	}()

	s.logger.Info("cleanup service started",
		zap.Duration("interval", s.cleanupInterval),
		zap.Duration("max_age", s.maxAge))
}

// Stop stops the cleanup service and waits for the loop to exit
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// RunOnce sweeps the temp directory and returns the number of files removed
func (s *Service) RunOnce() int {
	if _, err := os.Stat(s.tempDir); os.IsNotExist(err) {
		return 0
	}

	removed, err := download.CleanupOldTempFiles(s.tempDir, s.maxAge)
	if err != nil {
		s.logger.Error("cleanup sweep failed", zap.String("dir", s.tempDir), zap.Error(err))
		return 0
	}

	if removed > 0 {
		s.logger.Debug("removed stale temp files", zap.Int("count", removed))
		s.metrics.TempFilesRemoved(removed)
	}
	return removed
}
