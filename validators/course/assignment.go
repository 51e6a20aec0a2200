package courseValidator

import (
	"lms/middleware"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateAssignmentRequest is the typed assignment payload
type CreateAssignmentRequest struct {
	Title       string     `json:"title" validate:"required,min=2,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	MaxScore    int        `json:"max_score" validate:"required,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "courseID"); err != nil {
			return err
		}

		reqData := new(CreateAssignmentRequest)
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

		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

// UpdateAssignmentRequest allows partial updates
type UpdateAssignmentRequest struct {
	Title       string     `json:"title" validate:"omitempty,min=2,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	MaxScore    int        `json:"max_score" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

func UpdateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "assignmentID"); err != nil {
			return err
		}

		reqData := new(UpdateAssignmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assignment payload!", nil)
		}

		c.Locals("validatedAssignmentUpdate", reqData)
		return c.Next()
	}
}

// SubmitAssignmentRequest carries the submission content; at least one
// of content or file_url must be present.
type SubmitAssignmentRequest struct {
	Content string `json:"content" validate:"max=20000"`
	FileURL string `json:"file_url" validate:"omitempty,url"`
}

func SubmitAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "assignmentID"); err != nil {
			return err
		}

		reqData := new(SubmitAssignmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid submission payload!", nil)
		}

		if reqData.Content == "" && reqData.FileURL == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"content": "Either content or file_url is required!",
			})
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// GradeSubmissionRequest carries the score and optional feedback
type GradeSubmissionRequest struct {
	Score    *int   `json:"score" validate:"required,gte=0"`
	Feedback string `json:"feedback" validate:"max=5000"`
}

func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "submissionID"); err != nil {
			return err
		}

		reqData := new(GradeSubmissionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"score": "A non-negative score is required!"})
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}

func AssignmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := paramID(c, "id", "assignmentID"); err != nil {
			return err
		}
		return c.Next()
	}
}
