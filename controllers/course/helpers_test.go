package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseRoutes "lms/routers/courseRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDb() *gorm.DB {
	return database.Database.Db
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:      "test-secret",
		SaltRound:   4,
		EmailSender: "no-reply@test.local",
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	return app
}

// createUser seeds an account with a live session slot and returns a
// credential bound to it.
func createUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()

	slot := uuid.NewString()
	user := &models.User{
		Name:               "Test " + role,
		Email:              fmt.Sprintf("%s@test.local", uuid.NewString()[:8]),
		Role:               role,
		ActiveSessionToken: slot,
	}
	require.NoError(t, database.Database.Db.Create(user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, slot)
	require.NoError(t, err)
	return user, token
}

func createCourse(t *testing.T, tutorID uint) *courseModels.Course {
	t.Helper()
	course := &courseModels.Course{
		Title:       "Test Course",
		CreatedBy:   tutorID,
		IsPublished: true,
	}
	require.NoError(t, database.Database.Db.Create(course).Error)
	return course
}

func createMaterial(t *testing.T, courseID uint) *courseModels.Material {
	t.Helper()
	material := &courseModels.Material{
		CourseID:    courseID,
		Title:       "Test Material",
		ContentType: "TEXT",
		IsPublished: true,
	}
	require.NoError(t, database.Database.Db.Create(material).Error)
	return material
}

func createAssignment(t *testing.T, courseID, tutorID uint, due *time.Time) *courseModels.Assignment {
	t.Helper()
	assignment := &courseModels.Assignment{
		CourseID:  courseID,
		CreatedBy: tutorID,
		Title:     "Test Assignment",
		MaxScore:  100,
		DueDate:   due,
	}
	require.NoError(t, database.Database.Db.Create(assignment).Error)
	return assignment
}

func enroll(t *testing.T, userID, courseID uint) *courseModels.Enrollment {
	t.Helper()
	enrollment := &courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   courseModels.EnrollmentActive,
	}
	require.NoError(t, database.Database.Db.Create(enrollment).Error)
	return enrollment
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func responseData(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response data is not an object: %v", body)
	return data
}
