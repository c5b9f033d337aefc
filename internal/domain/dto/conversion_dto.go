package dto

type OCRResponse struct {
	Text string `json:"text"`
}

type ConvertVideoRequestDTO struct {
	Format string `json:"format" form:"format"`
	JobID  string `json:"job_id" form:"job_id"`
}

type ConvertVideoResponse struct {
	URL   string `json:"url"`
	JobID string `json:"job_id,omitempty"`
}

// ProgressMessage is the payload of a single server-sent progress frame.
type ProgressMessage struct {
	Progress int `json:"progress"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
