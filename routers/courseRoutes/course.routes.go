package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes. The
// session gate sits behind the JWT check so every student request is
// validated against the account's single session slot.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course", middleware.JWTMiddleware, middleware.SessionGate)

	// Catalog
	courseGroup.Get("/list", validators.ListPagination("validatedCourseList"), controllers.GetAllCourses)
	courseGroup.Get("/categories", controllers.GetCategories)
	courseGroup.Get("/:id", validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment lifecycle
	courseGroup.Post("/:id/enroll", validators.EnrollCourse(), controllers.EnrollInCourse)
	courseGroup.Patch("/:id/drop", validators.DropEnrollment(), controllers.DropEnrollment)
	courseGroup.Get("/:id/progress", validators.CourseProgress(), controllers.GetCourseProgress)

	// Material access and completion
	courseGroup.Post("/:course_id/material/:material_id/access", validators.AccessMaterial(), controllers.AccessMaterial)
	courseGroup.Post("/:course_id/material/:material_id/complete", validators.CourseMaterialID(), controllers.MarkMaterialComplete)

	// Assignments
	courseGroup.Get("/:id/assignments", validators.CourseID(), controllers.GetCourseAssignments)

	assignmentGroup := app.Group("/assignment", middleware.JWTMiddleware, middleware.SessionGate)
	assignmentGroup.Get("/submissions/my", controllers.GetMySubmissions)
	assignmentGroup.Post("/:id/submit", validators.SubmitAssignment(), controllers.SubmitAssignment)

	// Certificates
	courseGroup.Post("/:id/certificate/request", validators.RequestCertificate(), controllers.RequestCertificate)

	userGroup := app.Group("/user", middleware.JWTMiddleware, middleware.SessionGate)
	userGroup.Get("/enrollments", validators.ListPagination("validatedEnrollmentList"), controllers.GetEnrollments)
	userGroup.Get("/certificates", controllers.GetMyCertificates)
}
