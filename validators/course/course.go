package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// paramID parses a positive integer route parameter into Locals under key.
func paramID(c *fiber.Ctx, param, key string) error {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing "+param+" parameter!", nil)
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+" parameter!", nil)
	}

	c.Locals(key, id)
	return nil
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// CreateCourseRequest is the typed course creation payload
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	CategoryID  uint   `json:"category_id"`
	Duration    int64  `json:"duration" validate:"gte=0"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
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

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseRequest allows partial updates
type UpdateCourseRequest struct {
	Title       string `json:"title" validate:"omitempty,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	CategoryID  uint   `json:"category_id"`
	Duration    int64  `json:"duration" validate:"gte=0"`
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course payload!", nil)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CreateModuleRequest is the typed module payload
type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(CreateModuleRequest)
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

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func ModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "course_id", "courseID"); err != nil {
			return err
		}
		if err := paramID(c, "module_id", "moduleID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// PaginationQuery carries optional page/limit query parameters
type PaginationQuery struct {
	Page  *int `query:"page"`
	Limit *int `query:"limit"`
}

// ListPagination validates optional page/limit query parameters
func ListPagination(localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PaginationQuery)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Page != nil && *reqData.Page < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{"page": "Page must be greater than 0!"})
		}
		if reqData.Limit != nil && *reqData.Limit < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{"limit": "Limit must be greater than 0!"})
		}

		if reqData.Page != nil && reqData.Limit != nil {
			c.Locals(localsKey, reqData)
		}
		return c.Next()
	}
}
