package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/omnivion/omnivion-api/internal/service"
	"github.com/omnivion/omnivion-api/internal/utils"
)

// ImportHandler handles roster CSV uploads.
type ImportHandler struct {
	service service.ImportService
	logger  zerolog.Logger
}

// NewImportHandler constructs an import handler.
func NewImportHandler(service service.ImportService, logger zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		logger:  logger.With().Str("component", "import_handler").Logger(),
	}
}

// Register wires import routes.
func (h *ImportHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
}

func (h *ImportHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	source, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read file")
	}
	defer source.Close()

	data, err := io.ReadAll(source)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read file")
	}

	result, err := h.service.ImportCSV(c.Context(), file.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrImportTypeNotAllowed), errors.Is(err, service.ErrImportEmpty):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("roster import failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "roster import failed")
		}
	}

	return utils.SendSuccess(c, "roster imported", result)
}
