package courseValidator

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/course/:id", CourseID(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals("courseID")})
	})

	cases := []struct {
		path   string
		status int
	}{
		{"/course/42", fiber.StatusOK},
		{"/course/0", fiber.StatusBadRequest},
		{"/course/-3", fiber.StatusBadRequest},
		{"/course/abc", fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
		resp.Body.Close()
	}
}

func TestListPaginationQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/list", ListPagination("validatedList"), func(c *fiber.Ctx) error {
		if _, ok := c.Locals("validatedList").(*PaginationQuery); ok {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	cases := []struct {
		path   string
		status int
	}{
		{"/list?page=1&limit=10", fiber.StatusOK},
		{"/list", fiber.StatusNoContent},       // pagination optional
		{"/list?page=2", fiber.StatusNoContent}, // both or neither
		{"/list?page=0&limit=10", fiber.StatusUnprocessableEntity},
		{"/list?page=1&limit=0", fiber.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)
		resp.Body.Close()
	}
}
