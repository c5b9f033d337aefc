package repositories

import (
	"context"
	"mime/multipart"

	"convert-mastery/internal/domain/entities"
)

// ArtifactStorage publishes a finished conversion and returns the URL the
// client should use to fetch it.
type ArtifactStorage interface {
	Publish(ctx context.Context, localPath string) (string, error)
	Name() string
}

type UploadRepository interface {
	Save(fileHeader *multipart.FileHeader, kind entities.MediaKind) (*entities.Upload, error)
	Remove(upload *entities.Upload) error
	Dir() string
}
