package courseValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateMaterialRequest is the typed material payload
type CreateMaterialRequest struct {
	ModuleID    *uint  `json:"module_id"`
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ContentType string `json:"content_type" validate:"omitempty,oneof=TEXT VIDEO PDF LINK"`
	TextContent string `json:"text_content"`
	FileURL     string `json:"file_url" validate:"omitempty,url"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

func CreateMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(CreateMaterialRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMaterial", reqData)
		return c.Next()
	}
}

// UpdateMaterialRequest allows partial updates
type UpdateMaterialRequest struct {
	ModuleID    *uint  `json:"module_id"`
	Title       string `json:"title" validate:"omitempty,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ContentType string `json:"content_type" validate:"omitempty,oneof=TEXT VIDEO PDF LINK"`
	TextContent string `json:"text_content"`
	FileURL     string `json:"file_url" validate:"omitempty,url"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

func UpdateMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "material_id", "materialID"); err != nil {
			return err
		}

		reqData := new(UpdateMaterialRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid material payload!", nil)
		}

		c.Locals("validatedMaterialUpdate", reqData)
		return c.Next()
	}
}

func MaterialID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "material_id", "materialID"); err != nil {
			return err
		}
		return c.Next()
	}
}

func CourseMaterialID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "course_id", "courseID"); err != nil {
			return err
		}
		if err := paramID(c, "material_id", "materialID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// AccessMaterial validates the optional time_spent body for the
// material access (touch) endpoint.
func AccessMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "course_id", "courseID"); err != nil {
			return err
		}
		if err := paramID(c, "material_id", "materialID"); err != nil {
			return err
		}

		reqData := new(struct {
			TimeSpent int64 `json:"time_spent"`
		})
		// Body is optional; an empty body counts as zero seconds.
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if reqData.TimeSpent < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"time_spent": "time_spent must not be negative!"})
		}

		c.Locals("timeSpent", reqData.TimeSpent)
		return c.Next()
	}
}

func PublishFlag() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "material_id", "materialID"); err != nil {
			return err
		}

		reqData := new(struct {
			Publish *bool `json:"publish"`
		})
		if err := c.BodyParser(reqData); err != nil || reqData.Publish == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A publish flag is required!", nil)
		}

		c.Locals("publishFlag", *reqData.Publish)
		return c.Next()
	}
}
