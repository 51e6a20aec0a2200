package course

import (
	"time"

	"gorm.io/gorm"
)

// Submission statuses. Transitions only move forward:
// SUBMITTED -> GRADED. No withdrawal, no re-grade.
const (
	SubmissionSubmitted = "SUBMITTED"
	SubmissionGraded    = "GRADED"
)

// Assignment belongs to a course
type Assignment struct {
	gorm.Model
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	CreatedBy   uint       `json:"created_by" gorm:"index;not null"`
	Title       string     `json:"title"`
	Description string     `json:"description" gorm:"type:text"`
	MaxScore    int        `json:"max_score" gorm:"default:100"`
	DueDate     *time.Time `json:"due_date"`
	IsDeleted   bool       `gorm:"default:false"`
}

// AssignmentSubmission is a student's one-time response to an
// assignment. (AssignmentID, UserID) is unique.
type AssignmentSubmission struct {
	gorm.Model
	AssignmentID uint       `json:"assignment_id" gorm:"index:idx_submission_assignment_user,unique;not null"`
	UserID       uint       `json:"user_id" gorm:"index:idx_submission_assignment_user,unique;not null"`
	CourseID     uint       `json:"course_id" gorm:"index;not null"`
	Content      string     `json:"content" gorm:"type:text"`
	FileURL      string     `json:"file_url"`
	Status       string     `json:"status" gorm:"default:'SUBMITTED'"`
	Score        *int       `json:"score"` // nil until graded, never above MaxScore
	Feedback     string     `json:"feedback"`
	GradedBy     *uint      `json:"graded_by"`
	GradedAt     *time.Time `json:"graded_at"`
}
