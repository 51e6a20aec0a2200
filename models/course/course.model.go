package course

import "gorm.io/gorm"

// Course represents a learning course owned by a tutor
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description"`
	CategoryID   uint   `json:"category_id" gorm:"index"`
	CreatedBy    uint   `json:"created_by" gorm:"index;not null"` // tutor user ID
	Duration     int64  `json:"duration" gorm:"default:0"`        // duration in hours
	ThumbnailURL string `json:"thumbnail_url"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}
