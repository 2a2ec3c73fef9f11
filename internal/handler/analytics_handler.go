package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/omnivion/omnivion-api/internal/service"
	"github.com/omnivion/omnivion-api/internal/utils"
)

// AnalyticsHandler serves cohort statistics to the dashboards.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler constructs an analytics handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register wires analytics routes.
func (h *AnalyticsHandler) Register(authed, hodOnly fiber.Router) {
	authed.Get("/college", h.college)
	authed.Get("/summary", h.summary)
	hodOnly.Get("/dept", h.department)
}

func (h *AnalyticsHandler) college(c *fiber.Ctx) error {
	stats, err := h.service.CollegeStats(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute college stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute analytics")
	}

	return utils.SendSuccess(c, "college stats computed", stats)
}

func (h *AnalyticsHandler) department(c *fiber.Ctx) error {
	department, ok := departmentFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "no department assigned")
	}

	stats, err := h.service.DepartmentStats(c.Context(), department)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute department stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute analytics")
	}

	return utils.SendSuccess(c, "department stats computed", stats)
}

func (h *AnalyticsHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build analytics summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute analytics")
	}

	return utils.SendSuccess(c, "analytics summary computed", summary)
}
