package usecases

import (
	stderrors "errors"
	"fmt"
	"time"

	"convert-mastery/internal/pkg/fileutils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type CleanupService interface {
	CleanupOldFiles(dir string, maxAge time.Duration) (int, error)
	Sweep()
}

type RetentionPolicy struct {
	UploadDir         string
	UploadRetention   time.Duration
	ConvertedDir      string
	ArtifactRetention time.Duration
}

type cleanupService struct {
	policy RetentionPolicy
	logger *zap.Logger
	now    func() time.Time
}

func NewCleanupService(policy RetentionPolicy, logger *zap.Logger) CleanupService {
	return &cleanupService{
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// CleanupOldFiles removes the regular files in dir last modified more than
// maxAge ago. A non-positive maxAge disables the sweep.
func (s *cleanupService) CleanupOldFiles(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 || dir == "" {
		return 0, nil
	}
	files, err := fileutils.FilesOlderThan(dir, s.now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}

	removed := 0
	var errs []error
	for _, path := range files {
		if err := fileutils.RemoveIfExists(path); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
			continue
		}
		removed++
		s.logger.Debug("Removed old file", zap.String("path", path))
	}
	return removed, stderrors.Join(errs...)
}

// Sweep applies the retention policy to both directories.
func (s *cleanupService) Sweep() {
	for _, target := range []struct {
		dir    string
		maxAge time.Duration
	}{
		{s.policy.UploadDir, s.policy.UploadRetention},
		{s.policy.ConvertedDir, s.policy.ArtifactRetention},
	} {
		n, err := s.CleanupOldFiles(target.dir, target.maxAge)
		if err != nil {
			s.logger.Error("Error cleaning up old files", zap.String("dir", target.dir), zap.Error(err))
		}
		if n > 0 {
			s.logger.Info("Removed old files", zap.String("dir", target.dir), zap.Int("count", n))
		}
	}
}

// NewRetentionScheduler registers Sweep on a seconds-enabled cron spec. The
// caller starts and stops the returned scheduler.
func NewRetentionScheduler(spec string, svc CleanupService, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))),
	)
	if _, err := c.AddFunc(spec, svc.Sweep); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	return c, nil
}
