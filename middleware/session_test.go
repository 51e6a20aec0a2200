package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSessionTest(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Get("/protected", JWTMiddleware, SessionGate, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	return app
}

func createSessionUser(t *testing.T, role, slot string) *models.User {
	t.Helper()
	user := &models.User{
		Name:               "Test User",
		Email:              role + "@test.local",
		Role:               role,
		ActiveSessionToken: slot,
	}
	require.NoError(t, database.Database.Db.Create(user).Error)
	return user
}

func requestWithToken(t *testing.T, app *fiber.App, user *models.User, sessionToken string) (int, map[string]interface{}) {
	t.Helper()
	token, err := GenerateJWT(user.ID, user.Name, user.Role, user.Email, sessionToken)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestSessionGateAllowsMatchingToken(t *testing.T) {
	app := setupSessionTest(t)
	user := createSessionUser(t, "STUDENT", "slot-1")

	status, _ := requestWithToken(t, app, user, "slot-1")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestSessionGateRejectsDisplacedToken(t *testing.T) {
	app := setupSessionTest(t)
	user := createSessionUser(t, "STUDENT", "slot-1")

	// A second login rotated the slot; the old credential must fail
	// with the distinguishable code.
	require.NoError(t, database.Database.Db.Model(user).
		Update("active_session_token", "slot-2").Error)

	status, body := requestWithToken(t, app, user, "slot-1")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, SessionInvalidatedCode, data["code"])
}

func TestSessionGateRejectsClearedSlot(t *testing.T) {
	app := setupSessionTest(t)
	user := createSessionUser(t, "STUDENT", "slot-1")

	// Logout cleared the slot.
	require.NoError(t, database.Database.Db.Model(user).
		Update("active_session_token", "").Error)

	status, body := requestWithToken(t, app, user, "slot-1")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, SessionInvalidatedCode, data["code"])
}

func TestSessionGateIgnoresNonStudents(t *testing.T) {
	app := setupSessionTest(t)
	user := createSessionUser(t, "TUTOR", "")

	// Tutors are outside the single-session rule even with no slot.
	status, _ := requestWithToken(t, app, user, "stale-or-empty")
	assert.Equal(t, fiber.StatusOK, status)
}
