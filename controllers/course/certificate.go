package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	courseValidator "lms/validators/course"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestCertificate opens a certificate request for a COMPLETED
// enrollment. Only one open or approved request per enrollment.
func RequestCertificate(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	if enrollment.Status != courseModels.EnrollmentCompleted {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Complete the course before requesting a certificate!", nil)
	}

	var existing courseModels.CertificateRequest
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status <> ?",
		user.ID, courseID, false, courseModels.CertificateRejected).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A certificate request already exists for this course!", nil)
	}

	request := courseModels.CertificateRequest{
		UserID:   user.ID,
		CourseID: uint(courseID),
		Status:   courseModels.CertificatePending,
	}

	if err := database.Database.Db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create certificate request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate request submitted!", request)
}

// GetMyCertificates lists the student's certificate requests
func GetMyCertificates(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var requests []courseModels.CertificateRequest
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate requests fetched successfully!", requests)
}

// GetPendingCertificates lists PENDING requests for admins
func GetPendingCertificates(c *fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	var requests []courseModels.CertificateRequest
	if err := database.Database.Db.Where("status = ? AND is_deleted = ?", courseModels.CertificatePending, false).
		Order("created_at asc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending certificate requests fetched successfully!", requests)
}

// ApproveCertificate approves a PENDING request, assigns a certificate
// number and notifies the student by email.
func ApproveCertificate(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}

	certificateID := c.Locals("certificateID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", certificateID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	if request.Status != courseModels.CertificatePending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already reviewed!", nil)
	}

	reqData, _ := c.Locals("validatedReview").(*courseValidator.ReviewCertificateRequest)

	now := time.Now()
	request.Status = courseModels.CertificateApproved
	request.CertificateNumber = uuid.NewString()
	request.ReviewedBy = &admin.ID
	request.ReviewedAt = &now
	if reqData != nil {
		request.Remarks = reqData.Remarks
	}

	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve certificate request!", nil)
	}

	var student models.User
	var course courseModels.Course
	if database.Database.Db.First(&student, request.UserID).Error == nil &&
		database.Database.Db.First(&course, request.CourseID).Error == nil {
		go utils.SendCertificateEmail(student.Email, student.Name, course.Title, request.CertificateNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request approved!", request)
}

// RejectCertificate rejects a PENDING request with optional remarks
func RejectCertificate(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}

	certificateID := c.Locals("certificateID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", certificateID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	if request.Status != courseModels.CertificatePending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already reviewed!", nil)
	}

	reqData, _ := c.Locals("validatedReview").(*courseValidator.ReviewCertificateRequest)

	now := time.Now()
	request.Status = courseModels.CertificateRejected
	request.ReviewedBy = &admin.ID
	request.ReviewedAt = &now
	if reqData != nil {
		request.Remarks = reqData.Remarks
	}

	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject certificate request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request rejected.", request)
}
