package authValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// SignupRequest is the typed signup payload
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"omitempty,min=10,max=15"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT TUTOR"`
}

func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SignupRequest)
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

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

// LoginRequest carries either email or mobile plus the password
type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password" validate:"required"`
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid credentials payload!", nil)
		}

		if reqData.Email == "" && reqData.Mobile == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email or mobile is required!", nil)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// OTPRequest targets a user by email or mobile
type OTPRequest struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Mobile string `json:"mobile"`
}

func SendOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OTPRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
		}

		if reqData.Email == "" && reqData.Mobile == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email or mobile is required!", nil)
		}

		c.Locals("validatedOTPRequest", reqData)
		return c.Next()
	}
}

// VerifyOTPRequest carries the OTP code
type VerifyOTPRequest struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Mobile string `json:"mobile"`
	Code   string `json:"code" validate:"required,len=6"`
}

func VerifyOTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyOTPRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A 6-digit OTP code is required!", nil)
		}

		if reqData.Email == "" && reqData.Mobile == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email or mobile is required!", nil)
		}

		c.Locals("validatedVerifyOTP", reqData)
		return c.Next()
	}
}

// ResetPasswordRequest resets a password after OTP verification
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	Mobile      string `json:"mobile"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func ResetPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ResetPasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field()
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Email == "" && reqData.Mobile == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email or mobile is required!", nil)
		}

		c.Locals("validatedResetPassword", reqData)
		return c.Next()
	}
}
