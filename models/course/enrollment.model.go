package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses. COMPLETED is only ever derived from a
// recalculation reaching 100 percent; DROPPED is only ever set by an
// explicit status update.
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentDropped   = "DROPPED"
)

// Enrollment links a student to a course and carries the derived
// progress state. (UserID, CourseID) is unique.
type Enrollment struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	CourseID           uint       `json:"course_id" gorm:"index:idx_enrollment_user_course,unique;not null"`
	Status             string     `json:"status" gorm:"default:'ACTIVE'"`
	ProgressPercentage int        `json:"progress_percentage" gorm:"default:0"` // derived, 0-100
	CompletedMaterials int        `json:"completed_materials" gorm:"default:0"`
	TotalMaterials     int        `json:"total_materials" gorm:"default:0"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsDeleted          bool       `gorm:"default:false"`
}
