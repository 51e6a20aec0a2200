package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateMaterial creates a material within a course
func CreateMaterial(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedMaterial").(*courseValidator.CreateMaterialRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.ModuleID != nil {
		var module courseModels.Module
		if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", *reqData.ModuleID, courseID, false).First(&module).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
	}

	contentType := reqData.ContentType
	if contentType == "" {
		contentType = "TEXT"
	}

	// Get the next order index if not provided
	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Material{}).
			Where("course_id = ? AND is_deleted = ?", courseID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	material := courseModels.Material{
		CourseID:    uint(courseID),
		ModuleID:    reqData.ModuleID,
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: contentType,
		TextContent: reqData.TextContent,
		FileURL:     reqData.FileURL,
		OrderIndex:  orderIndex,
	}

	if err := database.Database.Db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material created successfully!", material)
}

// UpdateMaterial updates an existing material
func UpdateMaterial(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	materialID := c.Locals("materialID").(int)

	var material courseModels.Material
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", materialID, false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", material.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedMaterialUpdate").(*courseValidator.UpdateMaterialRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		material.Title = reqData.Title
	}
	if reqData.Description != "" {
		material.Description = reqData.Description
	}
	if reqData.ContentType != "" {
		material.ContentType = reqData.ContentType
	}
	if reqData.TextContent != "" {
		material.TextContent = reqData.TextContent
	}
	if reqData.FileURL != "" {
		material.FileURL = reqData.FileURL
	}
	if reqData.OrderIndex > 0 {
		material.OrderIndex = reqData.OrderIndex
	}
	if reqData.ModuleID != nil {
		material.ModuleID = reqData.ModuleID
	}

	if err := database.Database.Db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material updated successfully!", material)
}

// DeleteMaterial soft deletes a material, purges its progress records
// and recalculates every enrollment of the course. Per-enrollment
// failures are reported in aggregate, never abort the batch.
func DeleteMaterial(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	materialID := c.Locals("materialID").(int)

	var material courseModels.Material
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", materialID, false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", material.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	material.IsDeleted = true
	if err := database.Database.Db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete material!", nil)
	}

	recalculated, failed, err := progressService().HandleMaterialDeleted(material.CourseID, material.ID)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material deleted successfully!", fiber.Map{
		"recalculated": recalculated,
		"failed":       failed,
	})
}

// PublishMaterial toggles the published flag. Publishing changes the
// live material set, so every enrollment is recalculated.
func PublishMaterial(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	materialID := c.Locals("materialID").(int)
	publish := c.Locals("publishFlag").(bool)

	var material courseModels.Material
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", materialID, false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", material.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	material.IsPublished = publish
	if err := database.Database.Db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update material!", nil)
	}

	recalculated, failed, err := progressService().RecalculateCourse(material.CourseID)
	if err != nil {
		return progressErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material publish state updated!", fiber.Map{
		"material":     material,
		"recalculated": recalculated,
		"failed":       failed,
	})
}
