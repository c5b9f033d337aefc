package handlers

import (
	"convert-mastery/internal/usecases"
	consts "convert-mastery/pkg/constants"
	"convert-mastery/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OCRHandler struct {
	ocrService usecases.OCRService
	logger     *zap.Logger
}

func NewOCRHandler(ocrService usecases.OCRService, logger *zap.Logger) *OCRHandler {
	return &OCRHandler{
		ocrService: ocrService,
		logger:     logger,
	}
}

// ConvertImage
//
// @Summary      Extract text from an image
// @Description  Runs English OCR over the uploaded image and returns the recognized text
// @Tags         Convert
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file"
// @Success      200    {object}  dto.OCRResponse
// @Failure      400    {object}  dto.ErrorResponse  "No image uploaded"
// @Failure      500    {object}  dto.ErrorResponse  "Failed to process image"
// @Router       /api/convert-image [post]
func (h *OCRHandler) ConvertImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(consts.FieldImage)
	if err != nil {
		return errors.HandleError(c, h.logger, errors.ErrMissingUpload(consts.FieldImage))
	}

	response, err := h.ocrService.ExtractText(c.UserContext(), fileHeader)
	if err != nil {
		return errors.HandleError(c, h.logger, err)
	}
	return c.JSON(response)
}
