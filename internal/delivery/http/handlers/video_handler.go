package handlers

import (
	"convert-mastery/internal/domain/dto"
	"convert-mastery/internal/usecases"
	consts "convert-mastery/pkg/constants"
	"convert-mastery/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VideoHandler struct {
	videoService usecases.VideoService
	logger       *zap.Logger
}

func NewVideoHandler(videoService usecases.VideoService, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		logger:       logger,
	}
}

// ConvertVideo
//
// @Summary      Convert a video
// @Description  Transcodes the uploaded video with ffmpeg. Unknown formats fall back to mp4. Progress is streamed on /api/progress?job=<job_id>.
// @Tags         Convert
// @Accept       multipart/form-data
// @Produce      json
// @Param        video   formData  file    true   "Video file"
// @Param        format  formData  string  false  "Target format"  Enums(mp4, avi, mov, flv, mkv, webm)
// @Param        job_id  formData  string  false  "Client chosen job id for the progress stream"
// @Success      200     {object}  dto.ConvertVideoResponse
// @Header       200     {string}  X-Job-ID  "Job id used for progress updates"
// @Failure      400     {object}  dto.ErrorResponse  "No video uploaded"
// @Failure      500     {object}  dto.ErrorResponse  "Video conversion failed"
// @Router       /api/convert-video [post]
func (h *VideoHandler) ConvertVideo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(consts.FieldVideo)
	if err != nil {
		return errors.HandleError(c, h.logger, errors.ErrMissingUpload(consts.FieldVideo))
	}

	req := dto.ConvertVideoRequestDTO{
		Format: c.FormValue(consts.FieldFormat),
		JobID:  c.FormValue(consts.FieldJobID),
	}
	if req.JobID == "" {
		req.JobID = c.Get(consts.HeaderJobID)
	}
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	c.Set(consts.HeaderJobID, req.JobID)

	response, err := h.videoService.Convert(fileHeader, req)
	if err != nil {
		return errors.HandleError(c, h.logger, err)
	}
	return c.JSON(response)
}
