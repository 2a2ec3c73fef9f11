package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omnivion/omnivion-api/internal/models"
)

// StudentFilter narrows student listings.
type StudentFilter struct {
	Department *int
}

// StudentRepository provides access to student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (models.Student, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	UpsertBatch(ctx context.Context, students []models.Student) (int64, error)
	SaveLastPrediction(ctx context.Context, studentID string, snapshot datatypes.JSON, at time.Time) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Order("student_id asc")
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) GetByStudentID(ctx context.Context, studentID string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).Where("student_id = ?", studentID).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// UpsertBatch inserts roster rows, updating existing records in place when
// the student_id already exists.
func (r *studentRepository) UpsertBatch(ctx context.Context, students []models.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"gender", "department", "scholarship",
			"parental_education", "extra_curricular", "sports_participation",
			"age", "cgpa", "attendance_rate", "family_income", "past_failures",
			"study_hours_per_week", "assignments_submitted", "projects_completed",
			"total_activities", "dropout", "updated_at",
		}),
	}).CreateInBatches(students, 500)

	return result.RowsAffected, result.Error
}

func (r *studentRepository) SaveLastPrediction(ctx context.Context, studentID string, snapshot datatypes.JSON, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("student_id = ?", studentID).
		Updates(map[string]interface{}{
			"last_prediction": snapshot,
			"predicted_at":    at,
		}).Error
}
