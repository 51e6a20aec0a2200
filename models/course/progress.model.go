package course

import (
	"time"

	"gorm.io/gorm"
)

// ProgressRecord is the raw fact that a student engaged with a
// material. Upserted on every access; removed when its material is
// deleted so no orphaned records survive.
type ProgressRecord struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"index:idx_progress_user_course_material,unique;not null"`
	CourseID     uint      `json:"course_id" gorm:"index:idx_progress_user_course_material,unique;not null"`
	MaterialID   uint      `json:"material_id" gorm:"index:idx_progress_user_course_material,unique;not null"`
	IsCompleted  bool      `json:"is_completed" gorm:"default:false"`
	TimeSpent    int64     `json:"time_spent" gorm:"default:0"` // cumulative seconds
	LastAccessed time.Time `json:"last_accessed"`
}
