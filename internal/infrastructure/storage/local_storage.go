package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	consts "convert-mastery/pkg/constants"
)

// LocalStorage leaves artifacts in the converted directory, which the HTTP
// server exposes under consts.ConvertedRoute.
type LocalStorage struct {
	BasePath      string
	PublicBaseURL string
}

func NewLocalStorage(basePath, publicBaseURL string) *LocalStorage {
	return &LocalStorage{BasePath: basePath, PublicBaseURL: publicBaseURL}
}

func (l *LocalStorage) Name() string { return "local" }

func (l *LocalStorage) Publish(_ context.Context, localPath string) (string, error) {
	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("artifact not found: %w", err)
	}
	if rel, err := filepath.Rel(l.BasePath, localPath); err != nil || rel != filepath.Base(localPath) {
		return "", fmt.Errorf("artifact %s is outside %s", localPath, l.BasePath)
	}
	return l.URL(filepath.Base(localPath))
}

// URL returns the public address of a file in the converted directory.
func (l *LocalStorage) URL(name string) (string, error) {
	u, err := url.JoinPath(l.PublicBaseURL, consts.ConvertedRoute, name)
	if err != nil {
		return "", fmt.Errorf("build artifact url: %w", err)
	}
	return u, nil
}
