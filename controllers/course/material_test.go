package controllers_test

import (
	"fmt"
	"testing"

	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkCompleteUpdatesEnrollment(t *testing.T) {
	app := setupApp(t)
	tutor, _ := createUser(t, "TUTOR")
	student, token := createUser(t, "STUDENT")

	course := createCourse(t, tutor.ID)
	m1 := createMaterial(t, course.ID)
	m2 := createMaterial(t, course.ID)
	createMaterial(t, course.ID)
	enroll(t, student.ID, course.ID)

	status, body := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/material/%d/complete", course.ID, m1.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(33), responseData(t, body)["progress_percentage"])

	status, body = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/material/%d/complete", course.ID, m2.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(67), responseData(t, body)["progress_percentage"])

	// Repeating a completion changes nothing.
	status, body = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/material/%d/complete", course.ID, m2.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(67), responseData(t, body)["progress_percentage"])

	var enrollment courseModels.Enrollment
	require.NoError(t, testDb().Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 67, enrollment.ProgressPercentage)
	assert.Equal(t, 2, enrollment.CompletedMaterials)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)
}

func TestMaterialDeletionRecalculatesEnrollments(t *testing.T) {
	app := setupApp(t)
	tutor, tutorToken := createUser(t, "TUTOR")
	student, studentToken := createUser(t, "STUDENT")

	course := createCourse(t, tutor.ID)
	m1 := createMaterial(t, course.ID)
	m2 := createMaterial(t, course.ID)
	m3 := createMaterial(t, course.ID)
	enroll(t, student.ID, course.ID)

	for _, m := range []uint{m1.ID, m2.ID} {
		status, _ := doRequest(t, app, "POST",
			fmt.Sprintf("/course/%d/material/%d/complete", course.ID, m), studentToken, nil)
		require.Equal(t, fiber.StatusOK, status)
	}

	// Deleting the remaining uncompleted material pushes the student to
	// 100 percent and completes the enrollment.
	status, body := doRequest(t, app, "DELETE",
		fmt.Sprintf("/admin/material/%d", m3.ID), tutorToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	data := responseData(t, body)
	assert.Equal(t, float64(1), data["recalculated"])
	assert.Equal(t, float64(0), data["failed"])

	var enrollment courseModels.Enrollment
	require.NoError(t, testDb().Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.ProgressPercentage)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)

	// Deleting a completed material afterwards shrinks the ratio but
	// the completed milestone stands.
	status, _ = doRequest(t, app, "DELETE",
		fmt.Sprintf("/admin/material/%d", m2.ID), tutorToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	require.NoError(t, testDb().Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.ProgressPercentage)
	assert.Equal(t, 1, enrollment.TotalMaterials)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
}

func TestMarkCompleteRequiresActiveEnrollment(t *testing.T) {
	app := setupApp(t)
	tutor, _ := createUser(t, "TUTOR")
	_, token := createUser(t, "STUDENT")

	course := createCourse(t, tutor.ID)
	material := createMaterial(t, course.ID)

	// Not enrolled at all.
	status, _ := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/material/%d/complete", course.ID, material.ID), token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestDroppedEnrollmentCannotComplete(t *testing.T) {
	app := setupApp(t)
	tutor, _ := createUser(t, "TUTOR")
	student, token := createUser(t, "STUDENT")

	course := createCourse(t, tutor.ID)
	material := createMaterial(t, course.ID)
	enroll(t, student.ID, course.ID)

	status, _ := doRequest(t, app, "PATCH",
		fmt.Sprintf("/course/%d/drop", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/material/%d/complete", course.ID, material.ID), token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	// Dropping twice conflicts.
	status, _ = doRequest(t, app, "PATCH",
		fmt.Sprintf("/course/%d/drop", course.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestAccessMaterialAccumulatesTime(t *testing.T) {
	app := setupApp(t)
	tutor, _ := createUser(t, "TUTOR")
	student, token := createUser(t, "STUDENT")

	course := createCourse(t, tutor.ID)
	material := createMaterial(t, course.ID)
	enroll(t, student.ID, course.ID)

	for _, seconds := range []int{30, 15} {
		status, _ := doRequest(t, app, "POST",
			fmt.Sprintf("/course/%d/material/%d/access", course.ID, material.ID), token,
			map[string]interface{}{"time_spent": seconds})
		require.Equal(t, fiber.StatusOK, status)
	}

	status, body := doRequest(t, app, "GET",
		fmt.Sprintf("/course/%d/progress", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)

	stats := responseData(t, body)["stats"].(map[string]interface{})
	assert.Equal(t, float64(45), stats["total_time_spent"])
	assert.Equal(t, float64(0), stats["progress_percentage"])
}

func TestCourseProgressRequiresEnrollment(t *testing.T) {
	app := setupApp(t)
	tutor, _ := createUser(t, "TUTOR")
	_, token := createUser(t, "STUDENT")

	course := createCourse(t, tutor.ID)

	status, _ := doRequest(t, app, "GET",
		fmt.Sprintf("/course/%d/progress", course.ID), token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestEnrollTwiceConflicts(t *testing.T) {
	app := setupApp(t)
	tutor, _ := createUser(t, "TUTOR")
	_, token := createUser(t, "STUDENT")

	course := createCourse(t, tutor.ID)

	status, _ := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestEnrollUniqueIndexLoserConflicts(t *testing.T) {
	app := setupApp(t)
	tutor, _ := createUser(t, "TUTOR")
	student, token := createUser(t, "STUDENT")

	course := createCourse(t, tutor.ID)

	// A row the duplicate pre-check cannot see still trips the unique
	// index on (user_id, course_id), like the loser of two concurrent
	// enrollments.
	require.NoError(t, testDb().Create(&courseModels.Enrollment{
		UserID:    student.ID,
		CourseID:  course.ID,
		Status:    courseModels.EnrollmentActive,
		IsDeleted: true,
	}).Error)

	status, _ := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
}
