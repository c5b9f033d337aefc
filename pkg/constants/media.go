package constants

// Multipart field names accepted by the conversion routes.
const (
	FieldImage  = "image"
	FieldVideo  = "video"
	FieldFormat = "format"
	FieldJobID  = "job_id"
)

const (
	HeaderJobID = "X-Job-ID"
	QueryJobID  = "job"
)

// ConvertedRoute is the public mount of the converted-artifact directory.
const ConvertedRoute = "/uploads/converted"

const DefaultVideoFormat = "mp4"

// VideoFormats is the closed set of output containers the transcoder may target.
var VideoFormats = []string{"mp4", "avi", "mov", "flv", "mkv", "webm"}
