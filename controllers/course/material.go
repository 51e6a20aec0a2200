package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AccessMaterial records that the student opened a material. Upserts
// the progress record: first access creates it, later accesses bump
// LastAccessed and accumulate time spent. Never touches IsCompleted.
func AccessMaterial(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	materialID := c.Locals("materialID").(int)
	timeSpent := c.Locals("timeSpent").(int64)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	if err := progressService().Touch(user.ID, uint(courseID), uint(materialID), timeSpent); err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material access recorded.", nil)
}

// MarkMaterialComplete marks the material completed for the student
// and returns the refreshed enrollment percentage. Idempotent: a
// repeat call answers with the same stats instead of an error.
func MarkMaterialComplete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	materialID := c.Locals("materialID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	stats, enrollment, err := progressService().MarkComplete(user.ID, uint(courseID), uint(materialID))
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material marked as completed!", fiber.Map{
		"progress_percentage": stats.ProgressPercentage,
		"is_completed":        true,
		"enrollment":          enrollment,
	})
}
