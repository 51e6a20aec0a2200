package course

import "gorm.io/gorm"

// Material represents a learning material within a course, optionally
// attached to a module. Deleting a material forces a progress
// recalculation for every enrollment of its course.
type Material struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    *uint  `json:"module_id" gorm:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, PDF, LINK
	TextContent string `json:"text_content" gorm:"type:text"`
	FileURL     string `json:"file_url"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
