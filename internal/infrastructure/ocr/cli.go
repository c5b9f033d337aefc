package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CLIEngine runs the tesseract binary and reads the text from its stdout.
type CLIEngine struct {
	Binary  string
	Timeout time.Duration
	logger  *zap.Logger
}

func NewCLIEngine(binary string, timeout time.Duration, logger *zap.Logger) *CLIEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLIEngine{Binary: binary, Timeout: timeout, logger: logger}
}

func (e *CLIEngine) Name() string { return EngineCLI }

func (e *CLIEngine) Recognize(ctx context.Context, imagePath, lang string) (string, error) {
	if imagePath == "" {
		return "", errors.New("image path is required")
	}
	binary := e.Binary
	if binary == "" {
		binary = "tesseract"
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	args := []string{imagePath, "stdout"}
	if lang != "" {
		args = append(args, "-l", lang)
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	e.logger.Debug("Recognizing image", zap.String("path", imagePath), zap.String("lang", lang))
	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() != nil {
			return "", fmt.Errorf("tesseract: %w", cmdCtx.Err())
		}
		return "", fmt.Errorf("tesseract: %w - %s", err, strings.TrimSpace(stderr.String()))
	}
	e.logger.Debug("Recognition finished", zap.Duration("took", time.Since(start)), zap.Int("chars", stdout.Len()))

	return cleanText(stdout.String()), nil
}

// EnsureBinary checks whether the tesseract binary is available on PATH.
func EnsureBinary(binary string) error {
	if binary == "" {
		binary = "tesseract"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("tesseract binary not found (%s): %w", binary, err)
	}
	return nil
}
