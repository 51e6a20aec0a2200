package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name             string `gorm:"default:''" json:"name"`
	Email            string `gorm:"unique;not null" json:"email"`
	Mobile           string `gorm:"default:''" json:"mobile"`
	Role             string `gorm:"default:'STUDENT'" json:"role"` // STUDENT, TUTOR, ADMIN
	Password         string `gorm:"not null" json:"-"`
	Bio              string `json:"bio"`
	ProfileImage     string `gorm:"default:''" json:"profile_image"`
	IsMobileVerified bool   `gorm:"default:false" json:"is_mobile_verified"`
	IsEmailVerified  bool   `gorm:"default:false" json:"is_email_verified"`

	// ActiveSessionToken is the single session slot for student accounts.
	// A new login overwrites it; the previous credential stops matching.
	ActiveSessionToken string `gorm:"default:''" json:"-"`

	LastLogin           time.Time  `gorm:"default:NULL" json:"last_login"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"-"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `gorm:"default:false" json:"-"`
}
