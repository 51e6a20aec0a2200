package courseValidator

import (
	"github.com/gofiber/fiber/v2"
)

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}

func DropEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}

func CourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}
