package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/omnivion/omnivion-api/internal/models"
	"github.com/omnivion/omnivion-api/internal/repository"
)

func setupImportService(t *testing.T) (ImportService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}))

	repo := repository.NewStudentRepository(db)
	return NewImportService(repo, 1, 1000, zerolog.Nop()), db
}

func TestImportCSVPersistsRows(t *testing.T) {
	svc, db := setupImportService(t)

	csv := "student_id,name,cgpa,attendance_rate\n" +
		"STU001,Rahul Verma,7.8,92\n" +
		"STU002,Priya Sharma,na,55\n" +
		",Missing Id,5.0,60\n"

	response, err := svc.ImportCSV(context.Background(), "roster.csv", []byte(csv))
	require.NoError(t, err)

	require.Equal(t, 3, response.Processed)
	require.Equal(t, 2, response.Imported)
	require.Equal(t, 1, response.Rejected)
	require.Len(t, response.RowErrors, 1)
	require.Equal(t, 4, response.RowErrors[0].Line)

	var count int64
	require.NoError(t, db.Model(&models.Student{}).Count(&count).Error)
	require.Equal(t, int64(2), count)

	var stored models.Student
	require.NoError(t, db.Where("student_id = ?", "STU002").First(&stored).Error)
	require.Nil(t, stored.CGPA, "null token should stay unknown")
	require.NotNil(t, stored.AttendanceRate)
}

func TestImportCSVRejectsOversizedFile(t *testing.T) {
	svc, _ := setupImportService(t)

	oversized := make([]byte, 2*1024*1024)
	_, err := svc.ImportCSV(context.Background(), "roster.csv", oversized)
	require.ErrorIs(t, err, ErrImportTooLarge)
}

func TestImportCSVRejectsNonCSVContent(t *testing.T) {
	svc, _ := setupImportService(t)

	_, err := svc.ImportCSV(context.Background(), "roster.csv", []byte("%PDF-1.4 not a roster"))
	require.ErrorIs(t, err, ErrImportTypeNotAllowed)
}

func TestImportCSVRejectsEmptyFile(t *testing.T) {
	svc, _ := setupImportService(t)

	_, err := svc.ImportCSV(context.Background(), "roster.csv", nil)
	require.ErrorIs(t, err, ErrImportEmpty)
}
