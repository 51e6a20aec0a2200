package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func RequestCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// ReviewCertificateRequest carries the optional reviewer remarks
type ReviewCertificateRequest struct {
	Remarks string `json:"remarks" validate:"max=1000"`
}

func ReviewCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "certificateID"); err != nil {
			return err
		}

		reqData := new(ReviewCertificateRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"remarks": "Remarks too long!"})
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
