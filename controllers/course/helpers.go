package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/progress"

	"github.com/gofiber/fiber/v2"
)

// progressService builds the engine over the global database handle.
// The stores are stateless wrappers, so constructing per request is fine.
func progressService() *progress.Service {
	return progress.NewGormService(database.Database.Db)
}

// currentUser loads the authenticated user set by the JWT middleware.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}
	return &user, nil
}

// progressErrorResponse maps engine errors onto HTTP statuses.
func progressErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	case errors.Is(err, progress.ErrForbidden):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not allowed to perform this action!", nil)
	case errors.Is(err, progress.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Conflicting state!", nil)
	case errors.Is(err, progress.ErrValidation):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Invalid input!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
