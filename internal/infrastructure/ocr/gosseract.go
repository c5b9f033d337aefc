//go:build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// GosseractEngine uses libtesseract in-process through cgo.
type GosseractEngine struct {
	clientFactory func() *gosseract.Client
	logger        *zap.Logger
}

func newGosseractEngine(logger *zap.Logger) (Engine, error) {
	return &GosseractEngine{clientFactory: gosseract.NewClient, logger: logger}, nil
}

func (e *GosseractEngine) Name() string { return EngineGosseract }

func (e *GosseractEngine) Recognize(ctx context.Context, imagePath, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if lang != "" {
		if err := c.SetLanguage(lang); err != nil {
			return "", fmt.Errorf("set language: %w", err)
		}
	}

	e.logger.Debug("Recognizing image", zap.String("path", imagePath), zap.String("lang", lang))
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return cleanText(text), nil
}
