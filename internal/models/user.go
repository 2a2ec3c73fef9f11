package models

import "time"

// User role constants.
const (
	RoleAdmin   = "admin"
	RoleHOD     = "hod"
	RoleTeacher = "teacher"
)

// User represents a dashboard account. HODs carry the department whose
// students they may view.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:32;not null" json:"role"`
	Department   *int   `json:"department,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
