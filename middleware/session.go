package middleware

import (
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// SessionInvalidatedCode marks the 401 a client gets when its session
// slot was overwritten by a login elsewhere. Clients clear their local
// credentials and show "logged in elsewhere" instead of a login prompt.
const SessionInvalidatedCode = "SESSION_INVALIDATED"

// SessionInvalidatedResponse answers with a 401 distinguishable from a
// plain authentication failure.
func SessionInvalidatedResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  false,
		"message": "Session invalidated. You were logged in on another device.",
		"data":    fiber.Map{"code": SessionInvalidatedCode},
	})
}

// SessionGate enforces the single-active-session rule for student
// accounts. The token embedded in the credential must equal the
// account's current ActiveSessionToken; a newer login overwrites the
// slot and every request from the displaced credential fails here.
// Tutors and admins are outside the rule.
func SessionGate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "STUDENT" {
		return c.Next()
	}

	sessionToken, _ := c.Locals("sessionToken").(string)
	if sessionToken == "" || user.ActiveSessionToken == "" || sessionToken != user.ActiveSessionToken {
		return SessionInvalidatedResponse(c)
	}

	return c.Next()
}
