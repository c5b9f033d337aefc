package processor

import (
	"sync"

	"go.uber.org/zap"
)

// Publisher fans a job's progress out to whoever is listening.
type Publisher interface {
	Publish(topic string, percent int) int
}

// ProgressTracker turns ffmpeg events into percentages for one job.
type ProgressTracker struct {
	jobID     string
	publisher Publisher
	logger    *zap.Logger

	mu    sync.Mutex
	total float64
	last  int
}

func NewProgressTracker(jobID string, publisher Publisher, logger *zap.Logger) *ProgressTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressTracker{
		jobID:     jobID,
		publisher: publisher,
		logger:    logger.With(zap.String("job_id", jobID)),
	}
}

func (t *ProgressTracker) OnCodecData(data CodecData) {
	t.logger.Debug("codecData",
		zap.String("format", data.Format),
		zap.String("duration", data.Duration),
		zap.String("video", data.Video),
		zap.String("audio", data.Audio),
	)

	total := ParseTimemark(data.Duration)
	if !ValidDuration(total) {
		t.logger.Warn("Invalid duration", zap.String("duration", data.Duration))
		total = 0
	}

	t.mu.Lock()
	t.total = total
	t.mu.Unlock()
}

func (t *ProgressTracker) OnProgress(p Progress) {
	t.mu.Lock()
	percent := Percent(ParseTimemark(p.Timemark), t.total)
	t.last = percent
	t.mu.Unlock()

	t.logger.Debug("Conversion progress",
		zap.Int("percent", percent),
		zap.String("timemark", p.Timemark),
		zap.Int64("frames", p.Frames),
	)
	if t.publisher != nil {
		t.publisher.Publish(t.jobID, percent)
	}
}

// Last returns the most recently reported percentage.
func (t *ProgressTracker) Last() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}
