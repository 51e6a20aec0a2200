package models

import (
	"time"

	"gorm.io/gorm"
)

type OTP struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"index"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expires_at"`
	IsUsed      bool      `json:"is_used" gorm:"default:false"`
	Description string    `json:"description"`
	IsDeleted   bool      `gorm:"default:false"`
}
