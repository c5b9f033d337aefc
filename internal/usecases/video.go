package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sync"
	"time"

	"convert-mastery/internal/domain/dto"
	"convert-mastery/internal/domain/entities"
	"convert-mastery/internal/domain/repositories"
	"convert-mastery/internal/infrastructure/processor"
	"convert-mastery/internal/pkg/fileutils"
	"convert-mastery/pkg/errors"
	"convert-mastery/pkg/helper"

	"go.uber.org/zap"
)

type Transcoder interface {
	Transcode(ctx context.Context, src, dst string, h processor.EventHandler) error
}

// ProgressPublisher relays a job's percentages and ends its stream once the
// job is over.
type ProgressPublisher interface {
	processor.Publisher
	CloseTopic(topic string)
}

type VideoService interface {
	Convert(fileHeader *multipart.FileHeader, req dto.ConvertVideoRequestDTO) (*dto.ConvertVideoResponse, error)
}

type videoService struct {
	uploads      repositories.UploadRepository
	transcoder   Transcoder
	storage      repositories.ArtifactStorage
	publisher    ProgressPublisher
	convertedDir string
	logger       *zap.Logger

	// baseCtx outlives the request so a client disconnect does not kill
	// ffmpeg. It is cancelled on shutdown.
	baseCtx context.Context

	mu         sync.Mutex
	lastMillis int64
	now        func() time.Time
}

func NewVideoService(
	baseCtx context.Context,
	uploads repositories.UploadRepository,
	transcoder Transcoder,
	storage repositories.ArtifactStorage,
	publisher ProgressPublisher,
	convertedDir string,
	logger *zap.Logger,
) VideoService {
	return &videoService{
		uploads:      uploads,
		transcoder:   transcoder,
		storage:      storage,
		publisher:    publisher,
		convertedDir: convertedDir,
		logger:       logger,
		baseCtx:      baseCtx,
		now:          time.Now,
	}
}

// Convert transcodes the upload into the requested format. Progress goes to
// req.JobID's topic and the global topic; an empty JobID reports to the
// global topic only.
func (s *videoService) Convert(fileHeader *multipart.FileHeader, req dto.ConvertVideoRequestDTO) (*dto.ConvertVideoResponse, error) {
	if fileHeader == nil {
		return nil, errors.ErrMissingUpload("video")
	}

	upload, err := s.uploads.Save(fileHeader, entities.KindVideo)
	if err != nil {
		s.logger.Error("Video upload error", zap.String("job_id", req.JobID), zap.Error(err))
		return nil, errors.ErrUpload(err)
	}
	defer func() {
		if err := s.uploads.Remove(upload); err != nil {
			s.logger.Warn("Could not remove upload", zap.String("path", upload.Path), zap.Error(err))
		}
	}()

	conv := entities.ConversionRequest{
		JobID:      req.JobID,
		SourcePath: upload.Path,
		Format:     helper.NormalizeFormat(req.Format),
	}
	conv.OutputPath, err = s.nextOutputPath(conv.Format)
	if err != nil {
		s.logger.Error("Video upload error", zap.String("job_id", req.JobID), zap.Error(err))
		return nil, errors.ErrUpload(err)
	}

	log := s.logger.With(zap.String("job_id", conv.JobID))
	log.Info("Converting video",
		zap.String("file", upload.OriginalName),
		zap.String("format", conv.Format),
		zap.String("output", filepath.Base(conv.OutputPath)),
	)

	var publisher processor.Publisher
	if s.publisher != nil {
		publisher = s.publisher
		defer s.publisher.CloseTopic(conv.JobID)
	}
	tracker := processor.NewProgressTracker(conv.JobID, publisher, s.logger)
	if err := s.transcoder.Transcode(s.baseCtx, conv.SourcePath, conv.OutputPath, tracker); err != nil {
		fields := []zap.Field{zap.Error(err)}
		var te *processor.TranscodeError
		if stderrors.As(err, &te) {
			fields = append(fields, zap.String("stdout", te.Stdout), zap.String("stderr", te.Stderr))
		}
		log.Error("Video conversion error", fields...)
		_ = fileutils.RemoveIfExists(conv.OutputPath)
		return nil, errors.ErrConversion(err)
	}

	url, err := s.storage.Publish(s.baseCtx, conv.OutputPath)
	if err != nil {
		log.Error("Video upload error", zap.String("storage", s.storage.Name()), zap.Error(err))
		return nil, errors.ErrUpload(err)
	}

	artifact := entities.ConvertedArtifact{
		JobID:     conv.JobID,
		Path:      conv.OutputPath,
		URL:       url,
		Format:    conv.Format,
		CreatedAt: s.now(),
	}
	log.Info("Video converted", zap.String("url", artifact.URL), zap.Int("last_percent", tracker.Last()))

	return &dto.ConvertVideoResponse{URL: artifact.URL, JobID: artifact.JobID}, nil
}

// nextOutputPath names the artifact after the current epoch millis. Names
// never repeat within the process and skip files already on disk.
func (s *videoService) nextOutputPath(format string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.lastMillis {
		ms = s.lastMillis + 1
	}
	for i := 0; i < 1000; i++ {
		path := filepath.Join(s.convertedDir, fmt.Sprintf("%d.%s", ms, format))
		if !fileutils.Exists(path) {
			s.lastMillis = ms
			return path, nil
		}
		ms++
	}
	return "", fmt.Errorf("no free output name in %s", s.convertedDir)
}
