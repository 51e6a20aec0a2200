package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboard aggregates platform-wide counts
func AdminDashboard(c *fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	db := database.Database.Db

	var totalUsers, totalCourses, totalEnrollments, totalCompletions int64
	var pendingCertificates, totalSubmissions int64

	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, courseModels.EnrollmentCompleted).Count(&totalCompletions)
	db.Model(&courseModels.AssignmentSubmission{}).Count(&totalSubmissions)
	db.Model(&courseModels.CertificateRequest{}).Where("is_deleted = ? AND status = ?", false, courseModels.CertificatePending).Count(&pendingCertificates)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"total_users":          totalUsers,
		"total_courses":        totalCourses,
		"total_enrollments":    totalEnrollments,
		"total_completions":    totalCompletions,
		"total_submissions":    totalSubmissions,
		"pending_certificates": pendingCertificates,
	})
}
