package progress

import (
	courseModels "lms/models/course"
)

// Stats is the result of a single recomputation for one enrollment.
type Stats struct {
	TotalMaterials     int `json:"total_materials"`
	CompletedMaterials int `json:"completed_materials"`
	ProgressPercentage int `json:"progress_percentage"`
}

// CombinedStats folds assignment submissions into the completion
// accounting returned to callers. The percentage stays the
// materials-only enrollment percentage.
type CombinedStats struct {
	ProgressPercentage int `json:"progress_percentage"`
	TotalItems         int `json:"total_items"`
	CompletedItems     int `json:"completed_items"`
}

// Store persists per-(student, course, material) completion facts.
type Store interface {
	// Touch upserts the record: creates it if absent, else bumps
	// LastAccessed and adds seconds to TimeSpent. Never flips
	// IsCompleted back to false.
	Touch(studentID, courseID, materialID uint, seconds int64) error

	// MarkComplete upserts with IsCompleted=true. Idempotent.
	MarkComplete(studentID, courseID, materialID uint) error

	// CountCompleted counts completed records whose material still
	// exists (published, non-deleted) in the course.
	CountCompleted(studentID, courseID uint) (int, error)

	// TotalTimeSpent sums TimeSpent across the student's records for
	// the course.
	TotalTimeSpent(studentID, courseID uint) (int64, error)

	// ListByCourse returns the student's progress records for the
	// course, keyed for the progress view.
	ListByCourse(studentID, courseID uint) ([]courseModels.ProgressRecord, error)

	// DeleteForMaterial removes every record referencing the material.
	DeleteForMaterial(materialID uint) error
}

// Catalog is the read-only view of a course's current material set.
type Catalog interface {
	CountMaterials(courseID uint) (int, error)
	MaterialExists(courseID, materialID uint) (bool, error)
}

// Enrollments is the persistence boundary for enrollment state.
type Enrollments interface {
	Find(studentID, courseID uint) (*courseModels.Enrollment, error)
	ListByCourse(courseID uint) ([]courseModels.Enrollment, error)

	// WithLock runs fn against the enrollment row held under a
	// per-(student, course) serialization scope and persists the
	// mutated row when fn succeeds. Concurrent recomputations for the
	// same enrollment serialize here, which is what prevents the
	// read-count-then-write-percentage lost-update race.
	WithLock(studentID, courseID uint, fn func(e *courseModels.Enrollment) error) error
}

// Assignments contributes submission counts to the combined stats.
type Assignments interface {
	CountByCourse(courseID uint) (int, error)
	CountSubmitted(studentID, courseID uint) (int, error)
}
