package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	CertificatePending  = "PENDING"
	CertificateApproved = "APPROVED"
	CertificateRejected = "REJECTED"
)

// CertificateRequest tracks a student's request for a completion
// certificate. Only enrollments in COMPLETED state may request one.
type CertificateRequest struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"index;not null"`
	CourseID          uint       `json:"course_id" gorm:"index;not null"`
	Status            string     `json:"status" gorm:"default:'PENDING'"`
	CertificateNumber string     `json:"certificate_number"`
	ReviewedBy        *uint      `json:"reviewed_by"`
	ReviewedAt        *time.Time `json:"reviewed_at"`
	Remarks           string     `json:"remarks"`
	IsDeleted         bool       `gorm:"default:false"`
}
