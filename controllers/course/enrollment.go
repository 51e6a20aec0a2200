package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"
	courseValidator "lms/validators/course"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollInCourse enrolls the student into a published course
func EnrollInCourse(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	// The course must exist and be published
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Check if user is already enrolled
	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: uint(courseID),
		Status:   courseModels.EnrollmentActive,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		// The unique index on (user_id, course_id) catches the loser of
		// two concurrent enrollments.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	tx.Commit()

	go utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetEnrollments lists the student's enrollments
func GetEnrollments(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	reqData, ok := c.Locals("validatedEnrollmentList").(*courseValidator.PaginationQuery)
	if !ok {
		var enrollments []courseModels.Enrollment
		if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).Find(&enrollments).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
		}
		response := map[string]interface{}{
			"enrollments": enrollments,
			"pagination": map[string]interface{}{
				"total": int64(len(enrollments)),
				"page":  1,
				"limit": len(enrollments),
			},
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND is_deleted = ?", user.ID, false)

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}

// DropEnrollment sets the enrollment to DROPPED. This is the only way
// an enrollment reaches DROPPED; the recalculation engine never
// assigns it.
func DropEnrollment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status == courseModels.EnrollmentDropped {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment already dropped!", nil)
	}

	enrollment.Status = courseModels.EnrollmentDropped
	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to drop enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment dropped.", enrollment)
}

// materialWithProgress pairs a material with the student's record
type materialWithProgress struct {
	courseModels.Material
	IsCompleted  bool       `json:"is_completed"`
	TimeSpent    int64      `json:"time_spent"`
	LastAccessed *time.Time `json:"last_accessed,omitempty"`
}

// GetCourseProgress returns the enrollment, the materials annotated
// with the student's progress, and the derived stats.
func GetCourseProgress(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	svc := progressService()

	stats, err := svc.Recompute(user.ID, uint(courseID))
	if err != nil {
		return progressErrorResponse(c, err)
	}

	totalTimeSpent, err := svc.TotalTimeSpent(user.ID, uint(courseID))
	if err != nil {
		return progressErrorResponse(c, err)
	}

	records, err := svc.ListRecords(user.ID, uint(courseID))
	if err != nil {
		return progressErrorResponse(c, err)
	}

	recordsByMaterial := make(map[uint]courseModels.ProgressRecord, len(records))
	for _, r := range records {
		recordsByMaterial[r.MaterialID] = r
	}

	var materials []courseModels.Material
	database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("module_id asc, order_index asc").Find(&materials)

	result := make([]materialWithProgress, len(materials))
	for i, material := range materials {
		result[i] = materialWithProgress{Material: material}
		if record, ok := recordsByMaterial[material.ID]; ok {
			accessed := record.LastAccessed
			result[i].IsCompleted = record.IsCompleted
			result[i].TimeSpent = record.TimeSpent
			result[i].LastAccessed = &accessed
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"materials":  result,
		"stats": fiber.Map{
			"total_materials":     stats.TotalMaterials,
			"completed_materials": stats.CompletedMaterials,
			"progress_percentage": stats.ProgressPercentage,
			"total_time_spent":    totalTimeSpent,
		},
	})
}
