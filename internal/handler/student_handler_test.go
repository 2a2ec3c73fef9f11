package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/handler"
	"github.com/omnivion/omnivion-api/internal/service"
)

type mockStudentService struct {
	all    []dto.StudentResponse
	byDept map[int][]dto.StudentResponse
}

func (m *mockStudentService) List(_ context.Context) ([]dto.StudentResponse, error) {
	return m.all, nil
}

func (m *mockStudentService) ListByDepartment(_ context.Context, department int) ([]dto.StudentResponse, error) {
	return m.byDept[department], nil
}

func (m *mockStudentService) Get(_ context.Context, _ string) (dto.StudentResponse, error) {
	return dto.StudentResponse{}, service.ErrStudentNotFound
}

func (m *mockStudentService) Create(_ context.Context, payload dto.StudentPayload) (dto.StudentResponse, error) {
	return dto.StudentResponse{RiskLevel: "low"}, nil
}

type mockInsightService struct {
	insight dto.InsightResponse
	err     error
}

func (m *mockInsightService) StudentInsight(_ context.Context, _ string) (dto.InsightResponse, error) {
	return m.insight, m.err
}

func withLocals(department *int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		if department != nil {
			c.Locals("user_department", *department)
		}
		return c.Next()
	}
}

func newStudentApp(students *mockStudentService, insights *mockInsightService, department *int) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/students", withLocals(department))
	handler.NewStudentHandler(students, insights, zerolog.New(io.Discard)).Register(group, group, group)
	return app
}

func TestStudentHandler_DepartmentListUsesClaim(t *testing.T) {
	department := 4
	students := &mockStudentService{
		all: make([]dto.StudentResponse, 3),
		byDept: map[int][]dto.StudentResponse{
			4: {{DepartmentName: "COMPUTER SCIENCE", RiskLevel: "medium"}},
		},
	}
	app := newStudentApp(students, &mockInsightService{}, &department)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students/dept", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data []dto.StudentResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)
	require.Equal(t, "COMPUTER SCIENCE", response.Data[0].DepartmentName)
}

func TestStudentHandler_DepartmentListRequiresClaim(t *testing.T) {
	app := newStudentApp(&mockStudentService{}, &mockInsightService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students/dept", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestStudentHandler_InsightUnavailable(t *testing.T) {
	app := newStudentApp(&mockStudentService{}, &mockInsightService{err: service.ErrInsightUnavailable}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students/STU001/insight", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestStudentHandler_InsightSuccess(t *testing.T) {
	insights := &mockInsightService{
		insight: dto.InsightResponse{StudentID: "STU001", RiskLevel: "high", Narrative: "Needs immediate attention."},
	}
	app := newStudentApp(&mockStudentService{}, insights, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/students/STU001/insight", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.InsightResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "high", response.Data.RiskLevel)
	require.NotEmpty(t, response.Data.Narrative)
}
