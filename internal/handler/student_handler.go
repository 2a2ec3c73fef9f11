package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/service"
	"github.com/omnivion/omnivion-api/internal/utils"
)

// StudentHandler handles roster reads, record creation and insights.
type StudentHandler struct {
	students service.StudentService
	insights service.InsightService
	logger   zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(students service.StudentService, insights service.InsightService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		insights: insights,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires student routes. The admin group sees the full roster, the
// hod group its own department, and the teacher group class-level reads.
func (h *StudentHandler) Register(adminOnly, hodOnly, teaching fiber.Router) {
	adminOnly.Get("", h.list)
	adminOnly.Post("", h.create)
	hodOnly.Get("/dept", h.listDepartment)
	teaching.Get("/class", h.listClass)
	teaching.Get("/:id/insight", h.insight)
	teaching.Get("/:id", h.get)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	students, err := h.students.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students listed", students)
}

func (h *StudentHandler) listDepartment(c *fiber.Ctx) error {
	department, ok := departmentFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "no department assigned")
	}

	students, err := h.students.ListByDepartment(c.Context(), department)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list department students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students listed", students)
}

func (h *StudentHandler) listClass(c *fiber.Ctx) error {
	if department, ok := departmentFromContext(c); ok {
		students, err := h.students.ListByDepartment(c.Context(), department)
		if err != nil {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list class students")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
		}
		return utils.SendSuccess(c, "students listed", students)
	}

	students, err := h.students.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list class students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students listed", students)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Params("id"))
	if studentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student id required")
	}

	student, err := h.students.Get(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load student")
	}

	return utils.SendSuccess(c, "student loaded", student)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.students.Create(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrStudentExists):
			return utils.SendError(c, fiber.StatusConflict, "student already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create student")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) insight(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Params("id"))
	if studentID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "student id required")
	}

	insight, err := h.insights.StudentInsight(c.Context(), studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsightUnavailable):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "insight generation is not configured")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate insight")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate insight")
		}
	}

	return utils.SendSuccess(c, "insight generated", insight)
}
