package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/omnivion/omnivion-api/internal/models"
	"github.com/omnivion/omnivion-api/internal/repository"
)

type fakeStudentRepo struct {
	students []models.Student
}

func (f *fakeStudentRepo) List(_ context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	if filter.Department == nil {
		return append([]models.Student(nil), f.students...), nil
	}
	result := make([]models.Student, 0)
	for _, student := range f.students {
		if student.Department != nil && *student.Department == *filter.Department {
			result = append(result, student)
		}
	}
	return result, nil
}

func (f *fakeStudentRepo) GetByStudentID(_ context.Context, studentID string) (models.Student, error) {
	for _, student := range f.students {
		if student.StudentID == studentID {
			return student, nil
		}
	}
	return models.Student{}, context.Canceled
}

func (f *fakeStudentRepo) ExistsByStudentID(_ context.Context, studentID string) (bool, error) {
	for _, student := range f.students {
		if student.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) UpsertBatch(_ context.Context, students []models.Student) (int64, error) {
	f.students = append(f.students, students...)
	return int64(len(students)), nil
}

func (f *fakeStudentRepo) SaveLastPrediction(_ context.Context, _ string, _ datatypes.JSON, _ time.Time) error {
	return nil
}

func analyticsFixture() []models.Student {
	lowCGPA := 2.0
	lowAttendance := 30.0
	zero := 0.0
	highIncome := 800000.0
	goodCGPA := 9.0
	goodAttendance := 95.0
	failures := 5.0
	study := 2.0
	csDept := 4
	mechDept := 6

	return []models.Student{
		{
			StudentID:            "STU001",
			Department:           &csDept,
			CGPA:                 &lowCGPA,
			AttendanceRate:       &lowAttendance,
			FamilyIncome:         &zero,
			PastFailures:         &failures,
			StudyHoursPerWeek:    &study,
			AssignmentsSubmitted: &zero,
			ProjectsCompleted:    &zero,
			TotalActivities:      &zero,
		},
		{
			StudentID:      "STU002",
			Department:     &mechDept,
			CGPA:           &goodCGPA,
			AttendanceRate: &goodAttendance,
			FamilyIncome:   &highIncome,
		},
	}
}

func TestAnalyticsSummaryCaching(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	repo := &fakeStudentRepo{students: analyticsFixture()}
	svc := NewAnalyticsService(repo, client, time.Minute, zerolog.Nop())

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Len(t, first.DepartmentStats, 2)
	require.Equal(t, "COMPUTER SCIENCE", first.DepartmentStats[0].Department)
	require.Equal(t, 1, first.DepartmentStats[0].HighRiskCount)
	require.Len(t, first.IncomeStats, 4)

	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.DepartmentStats, second.DepartmentStats)
}

func TestAnalyticsSummaryWithoutCache(t *testing.T) {
	repo := &fakeStudentRepo{students: analyticsFixture()}
	svc := NewAnalyticsService(repo, nil, time.Minute, zerolog.Nop())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.False(t, summary.CacheHit)
	require.Len(t, summary.IncomeStats, 4)
}

func TestCollegeStatsAverages(t *testing.T) {
	repo := &fakeStudentRepo{students: analyticsFixture()}
	svc := NewAnalyticsService(repo, nil, time.Minute, zerolog.Nop())

	stats, err := svc.CollegeStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalStudents)
	require.InDelta(t, 5.5, stats.AvgCGPA, 1e-9)
	require.InDelta(t, 62.5, stats.AvgAttendanceRate, 1e-9)
	require.Equal(t, 1, stats.HighRiskCount)
	require.Equal(t, 1, stats.LowRiskCount)
}

func TestDepartmentStatsFiltersByDepartment(t *testing.T) {
	repo := &fakeStudentRepo{students: analyticsFixture()}
	svc := NewAnalyticsService(repo, nil, time.Minute, zerolog.Nop())

	stats, err := svc.DepartmentStats(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, "COMPUTER SCIENCE", stats.Department)
	require.Equal(t, 1, stats.TotalStudents)
	require.Equal(t, 1, stats.HighRiskCount)
}
