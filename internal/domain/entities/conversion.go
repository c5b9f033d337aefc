package entities

import "time"

type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// Upload is a client file persisted under a server-chosen name until the
// consuming tool has finished with it.
type Upload struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Path         string    `json:"path"`
	Kind         MediaKind `json:"kind"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

type ConversionRequest struct {
	JobID      string `json:"job_id"`
	SourcePath string `json:"source_path"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
}

type ConvertedArtifact struct {
	JobID     string    `json:"job_id"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
}
