package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"convert-mastery/internal/domain/entities"
	"convert-mastery/internal/pkg/fileutils"

	"github.com/google/uuid"
)

// UploadStore writes incoming multipart files to the upload directory under
// a fresh uuid name that keeps the original extension.
type UploadStore struct {
	BasePath string
}

func NewUploadStore(basePath string) *UploadStore {
	return &UploadStore{BasePath: basePath}
}

func (u *UploadStore) Dir() string { return u.BasePath }

func (u *UploadStore) Save(fileHeader *multipart.FileHeader, kind entities.MediaKind) (*entities.Upload, error) {
	if err := os.MkdirAll(u.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	fullPath := filepath.Join(u.BasePath, id+ext)

	outFile, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(outFile, src)
	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = fileutils.RemoveIfExists(fullPath)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	return &entities.Upload{
		ID:           id,
		OriginalName: fileHeader.Filename,
		Path:         fullPath,
		Kind:         kind,
		Size:         size,
		CreatedAt:    time.Now(),
	}, nil
}

func (u *UploadStore) Remove(upload *entities.Upload) error {
	if upload == nil {
		return nil
	}
	return fileutils.RemoveIfExists(upload.Path)
}
