package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up the course management routes for
// tutors and admins.
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRole("TUTOR", "ADMIN"))

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Get("/list", controllers.GetOwnCourses)
	adminGroup.Put("/:id", validators.UpdateCourse(), controllers.UpdateCourse)
	adminGroup.Delete("/:id", validators.CourseID(), controllers.DeleteCourse)
	adminGroup.Post("/:id/publish", validators.CourseID(), controllers.PublishCourse)

	// Module management
	adminGroup.Post("/:id/module", validators.CreateModule(), controllers.CreateModule)
	adminGroup.Get("/:id/modules", validators.CourseID(), controllers.ListModules)
	adminGroup.Delete("/:course_id/module/:module_id", validators.ModuleID(), controllers.DeleteModule)

	// Material management
	adminGroup.Post("/:id/material", validators.CreateMaterial(), controllers.CreateMaterial)

	materialGroup := app.Group("/admin/material", middleware.JWTMiddleware, middleware.RequireRole("TUTOR", "ADMIN"))
	materialGroup.Put("/:material_id", validators.UpdateMaterial(), controllers.UpdateMaterial)
	materialGroup.Delete("/:material_id", validators.MaterialID(), controllers.DeleteMaterial)
	materialGroup.Post("/:material_id/publish", validators.PublishFlag(), controllers.PublishMaterial)

	// Assignments and grading
	adminGroup.Post("/:id/assignment", validators.CreateAssignment(), controllers.CreateAssignment)

	assignmentGroup := app.Group("/admin/assignment", middleware.JWTMiddleware, middleware.RequireRole("TUTOR", "ADMIN"))
	assignmentGroup.Put("/:id", validators.UpdateAssignment(), controllers.UpdateAssignment)
	assignmentGroup.Get("/:id/submissions", validators.AssignmentID(), controllers.GetAssignmentSubmissions)

	submissionGroup := app.Group("/admin/submission", middleware.JWTMiddleware, middleware.RequireRole("TUTOR", "ADMIN"))
	submissionGroup.Put("/:id/grade", validators.GradeSubmission(), controllers.GradeSubmission)

	// Certificate review
	certGroup := app.Group("/admin/certificates", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	certGroup.Get("/pending", controllers.GetPendingCertificates)

	certReviewGroup := app.Group("/admin/certificate", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	certReviewGroup.Post("/:id/approve", validators.ReviewCertificate(), controllers.ApproveCertificate)
	certReviewGroup.Post("/:id/reject", validators.ReviewCertificate(), controllers.RejectCertificate)

	// Categories
	categoryGroup := app.Group("/admin/category", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	categoryGroup.Post("/create", validators.CreateCategory(), controllers.CreateCategory)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	dashGroup.Get("/stats", controllers.AdminDashboard)
}
