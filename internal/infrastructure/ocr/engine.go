package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"convert-mastery/internal/pkg/config"

	"go.uber.org/zap"
)

const (
	EngineCLI       = "cli"
	EngineGosseract = "gosseract"
)

var ErrEngineNotCompiled = errors.New("gosseract engine is not compiled in, rebuild with -tags gosseract")

// Engine extracts the plain text of a whole image. Layout and confidence are
// not exposed.
type Engine interface {
	Recognize(ctx context.Context, imagePath, lang string) (string, error)
	Name() string
}

// NewEngine picks the engine named by cfg.Engine.
func NewEngine(cfg config.OCRConfig, logger *zap.Logger) (Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(cfg.Engine) {
	case "", EngineCLI:
		return NewCLIEngine(cfg.TesseractPath, cfg.Timeout, logger), nil
	case EngineGosseract:
		return newGosseractEngine(logger)
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.Engine)
	}
}

func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\f", ""))
}
