//go:build !gosseract

package ocr

import "go.uber.org/zap"

func newGosseractEngine(_ *zap.Logger) (Engine, error) {
	return nil, ErrEngineNotCompiled
}
