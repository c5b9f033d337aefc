package errors

import (
	stderrors "errors"

	"convert-mastery/internal/domain/dto"
	"convert-mastery/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusFor maps a ConversionError code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case CodeMissingUpload:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func HandleError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	if err == nil {
		return nil
	}

	var ce *ConversionError
	if stderrors.As(err, &ce) {
		status := StatusFor(ce.Code)
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("code", ce.Code),
				zap.String("path", c.Path()),
				zap.Error(ce.Err),
			)
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Error:   ce.Message,
			Details: ce.Details,
		})
	}

	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message})
	}

	logger.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: i18n.T(CodeInternal),
	})
}
