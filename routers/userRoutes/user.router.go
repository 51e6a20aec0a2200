package userRoutes

import (
	userController "lms/controllers/user"
	"lms/middleware"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware, middleware.SessionGate)

	userGroup.Get("/profile", userController.GetProfile)
	userGroup.Put("/profile", userValidator.UpdateProfile(), userController.UpdateProfile)
}
