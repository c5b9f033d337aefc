package usecases

import (
	"context"
	"mime/multipart"

	"convert-mastery/internal/domain/dto"
	"convert-mastery/internal/domain/entities"
	"convert-mastery/internal/domain/repositories"
	"convert-mastery/internal/infrastructure/ocr"
	"convert-mastery/internal/infrastructure/processor"
	"convert-mastery/internal/pkg/fileutils"
	"convert-mastery/pkg/errors"

	"go.uber.org/zap"
)

type OCRService interface {
	ExtractText(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.OCRResponse, error)
}

type ocrService struct {
	uploads repositories.UploadRepository
	engine  ocr.Engine
	lang    string
	maxEdge int
	logger  *zap.Logger
}

func NewOCRService(uploads repositories.UploadRepository, engine ocr.Engine, lang string, maxEdge int, logger *zap.Logger) OCRService {
	return &ocrService{
		uploads: uploads,
		engine:  engine,
		lang:    lang,
		maxEdge: maxEdge,
		logger:  logger,
	}
}

// ExtractText stores the upload, runs it through the OCR engine and removes
// every file it created, whatever the outcome.
func (s *ocrService) ExtractText(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.OCRResponse, error) {
	if fileHeader == nil {
		return nil, errors.ErrMissingUpload("image")
	}

	upload, err := s.uploads.Save(fileHeader, entities.KindImage)
	if err != nil {
		s.logger.Error("Image upload error", zap.Error(err))
		return nil, errors.ErrProcessing(err)
	}
	defer s.remove(upload.Path)

	prepared, err := processor.PrepareForOCR(upload.Path, processor.OCROption{MaxEdge: s.maxEdge})
	if err != nil {
		s.logger.Error("Image processing error", zap.String("file", upload.OriginalName), zap.Error(err))
		return nil, errors.ErrProcessing(err)
	}
	defer s.remove(prepared)

	text, err := s.engine.Recognize(ctx, prepared, s.lang)
	if err != nil {
		s.logger.Error("Image processing error",
			zap.String("file", upload.OriginalName),
			zap.String("engine", s.engine.Name()),
			zap.Error(err),
		)
		return nil, errors.ErrProcessing(err)
	}

	s.logger.Info("Image recognized",
		zap.String("file", upload.OriginalName),
		zap.String("engine", s.engine.Name()),
		zap.Int("chars", len(text)),
	)
	return &dto.OCRResponse{Text: text}, nil
}

func (s *ocrService) remove(path string) {
	if err := fileutils.RemoveIfExists(path); err != nil {
		s.logger.Warn("Could not remove temp file", zap.String("path", path), zap.Error(err))
	}
}
