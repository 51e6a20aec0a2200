package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateAssignment creates an assignment for a course the caller owns
func CreateAssignment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedAssignment").(*courseValidator.CreateAssignmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	assignment := courseModels.Assignment{
		CourseID:    uint(courseID),
		CreatedBy:   user.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		MaxScore:    reqData.MaxScore,
		DueDate:     reqData.DueDate,
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

// GetCourseAssignments lists a course's assignments
func GetCourseAssignments(c *fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var assignments []courseModels.Assignment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("created_at asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", assignments)
}

// UpdateAssignment updates an assignment the caller may manage. MaxScore
// changes only apply forward; recorded grades are never revisited.
func UpdateAssignment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if user.Role != "ADMIN" && assignment.CreatedBy != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this assignment!", nil)
	}

	reqData, ok := c.Locals("validatedAssignmentUpdate").(*courseValidator.UpdateAssignmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		assignment.Title = reqData.Title
	}
	if reqData.Description != "" {
		assignment.Description = reqData.Description
	}
	if reqData.MaxScore > 0 {
		assignment.MaxScore = reqData.MaxScore
	}
	if reqData.DueDate != nil {
		assignment.DueDate = reqData.DueDate
	}

	if err := database.Database.Db.Save(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment updated successfully!", assignment)
}

// SubmitAssignment creates the student's one-time submission and folds
// it into the completion accounting. The submission itself, not the
// grade, is the completion signal.
func SubmitAssignment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	// The student must be enrolled in the assignment's course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status <> ?",
		user.ID, assignment.CourseID, false, courseModels.EnrollmentDropped).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	if assignment.DueDate != nil && time.Now().After(*assignment.DueDate) {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "The due date for this assignment has passed!", nil)
	}

	// At most one submission per (assignment, student)
	var existing courseModels.AssignmentSubmission
	if err := database.Database.Db.Where("assignment_id = ? AND user_id = ?", assignmentID, user.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already submitted this assignment!", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*courseValidator.SubmitAssignmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	submission := courseModels.AssignmentSubmission{
		AssignmentID: uint(assignmentID),
		UserID:       user.ID,
		CourseID:     assignment.CourseID,
		Content:      reqData.Content,
		FileURL:      reqData.FileURL,
		Status:       courseModels.SubmissionSubmitted,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&submission).Error; err != nil {
		tx.Rollback()
		// The unique index catches the loser of a duplicate race; any
		// other failure is a storage error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already submitted this assignment!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}
	tx.Commit()

	svc := progressService()

	stats, _, err := svc.RecomputeAndApply(user.ID, assignment.CourseID)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	combined, err := svc.CombinedStats(user.ID, assignment.CourseID, stats)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", fiber.Map{
		"submission": submission,
		"progress_update": fiber.Map{
			"progress_percentage": combined.ProgressPercentage,
			"total_items":         combined.TotalItems,
			"completed_items":     combined.CompletedItems,
		},
	})
}

// GradeSubmission sets the score on a SUBMITTED submission. The grader
// must be the assignment's creator or an admin; a recorded grade is
// immutable, so re-grading is rejected rather than overwritten.
func GradeSubmission(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	submissionID := c.Locals("submissionID").(int)

	var submission courseModels.AssignmentSubmission
	if err := database.Database.Db.Where("id = ?", submissionID).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submission.AssignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if user.Role != "ADMIN" && assignment.CreatedBy != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the assignment's creator or an admin may grade it!", nil)
	}

	if submission.Status == courseModels.SubmissionGraded {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Submission has already been graded!", nil)
	}

	reqData, ok := c.Locals("validatedGrade").(*courseValidator.GradeSubmissionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if *reqData.Score > assignment.MaxScore {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"score": "Score must not exceed the assignment's max score!",
		})
	}

	now := time.Now()
	submission.Status = courseModels.SubmissionGraded
	submission.Score = reqData.Score
	submission.Feedback = reqData.Feedback
	submission.GradedBy = &user.ID
	submission.GradedAt = &now

	if err := database.Database.Db.Save(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}

// GetAssignmentSubmissions lists submissions for graders
func GetAssignmentSubmissions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	if user.Role != "ADMIN" && assignment.CreatedBy != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the assignment's creator or an admin may view submissions!", nil)
	}

	var submissions []courseModels.AssignmentSubmission
	if err := database.Database.Db.Where("assignment_id = ?", assignmentID).
		Order("created_at asc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", submissions)
}

// GetMySubmissions lists the student's own submissions
func GetMySubmissions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var submissions []courseModels.AssignmentSubmission
	if err := database.Database.Db.Where("user_id = ?", user.ID).
		Order("created_at desc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", submissions)
}
