package authController_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	authRoutes "lms/routers/authRoutes"
	userRoutes "lms/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	return app
}

func seedStudent(t *testing.T, email, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	require.NoError(t, err)
	user := &models.User{
		Name:     "Student",
		Email:    email,
		Role:     "STUDENT",
		Password: string(hashed),
	}
	require.NoError(t, database.Database.Db.Create(user).Error)
	return user
}

func login(t *testing.T, app *fiber.App, email, password string) (int, string) {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	if resp.StatusCode != fiber.StatusOK {
		return resp.StatusCode, ""
	}
	data := body["data"].(map[string]interface{})
	return resp.StatusCode, data["token"].(string)
}

func getProfile(t *testing.T, app *fiber.App, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", "/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestLoginRotatesSessionSlot(t *testing.T) {
	app := setupAuthApp(t)
	seedStudent(t, "a@test.local", "password123")

	status, tokenA := login(t, app, "a@test.local", "password123")
	require.Equal(t, fiber.StatusOK, status)

	status, _ = getProfile(t, app, tokenA)
	assert.Equal(t, fiber.StatusOK, status)

	// Device B logs in; device A's credential is displaced.
	status, tokenB := login(t, app, "a@test.local", "password123")
	require.Equal(t, fiber.StatusOK, status)

	status, body := getProfile(t, app, tokenA)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "SESSION_INVALIDATED", data["code"])

	status, _ = getProfile(t, app, tokenB)
	assert.Equal(t, fiber.StatusOK, status)

	// Device A logs back in and kills B in turn.
	status, tokenA2 := login(t, app, "a@test.local", "password123")
	require.Equal(t, fiber.StatusOK, status)

	status, _ = getProfile(t, app, tokenB)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = getProfile(t, app, tokenA2)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestDisplacedCredentialCannotLogout(t *testing.T) {
	app := setupAuthApp(t)
	seedStudent(t, "d@test.local", "password123")

	status, tokenA := login(t, app, "d@test.local", "password123")
	require.Equal(t, fiber.StatusOK, status)

	status, tokenB := login(t, app, "d@test.local", "password123")
	require.Equal(t, fiber.StatusOK, status)

	// Device A's credential was displaced by B's login; it must not be
	// able to clear the live session slot on the way out.
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+tokenA)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "SESSION_INVALIDATED", data["code"])

	// Login history is gated the same way.
	req = httptest.NewRequest("GET", "/auth/login/history", nil)
	req.Header.Set("Authorization", "Bearer "+tokenA)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Device B's session survived the attempt.
	status, _ = getProfile(t, app, tokenB)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	app := setupAuthApp(t)
	seedStudent(t, "b@test.local", "password123")

	for i := 0; i < 3; i++ {
		status, _ := login(t, app, "b@test.local", "wrong-password")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	}

	// Even the right password is rejected while blocked.
	status, _ := login(t, app, "b@test.local", "password123")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLogoutClearsSessionSlot(t *testing.T) {
	app := setupAuthApp(t)
	seedStudent(t, "c@test.local", "password123")

	status, token := login(t, app, "c@test.local", "password123")
	require.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, body := getProfile(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "SESSION_INVALIDATED", data["code"])
}
