package progress

import (
	"errors"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordKey struct {
	student, course, material uint
}

type fakeStore struct {
	records map[recordKey]*courseModels.ProgressRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[recordKey]*courseModels.ProgressRecord)}
}

func (s *fakeStore) Touch(studentID, courseID, materialID uint, seconds int64) error {
	key := recordKey{studentID, courseID, materialID}
	if r, ok := s.records[key]; ok {
		r.TimeSpent += seconds
		return nil
	}
	s.records[key] = &courseModels.ProgressRecord{
		UserID: studentID, CourseID: courseID, MaterialID: materialID, TimeSpent: seconds,
	}
	return nil
}

func (s *fakeStore) MarkComplete(studentID, courseID, materialID uint) error {
	key := recordKey{studentID, courseID, materialID}
	if r, ok := s.records[key]; ok {
		r.IsCompleted = true
		return nil
	}
	s.records[key] = &courseModels.ProgressRecord{
		UserID: studentID, CourseID: courseID, MaterialID: materialID, IsCompleted: true,
	}
	return nil
}

func (s *fakeStore) CountCompleted(studentID, courseID uint) (int, error) {
	count := 0
	for _, r := range s.records {
		if r.UserID == studentID && r.CourseID == courseID && r.IsCompleted {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) TotalTimeSpent(studentID, courseID uint) (int64, error) {
	var total int64
	for _, r := range s.records {
		if r.UserID == studentID && r.CourseID == courseID {
			total += r.TimeSpent
		}
	}
	return total, nil
}

func (s *fakeStore) ListByCourse(studentID, courseID uint) ([]courseModels.ProgressRecord, error) {
	var out []courseModels.ProgressRecord
	for _, r := range s.records {
		if r.UserID == studentID && r.CourseID == courseID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) DeleteForMaterial(materialID uint) error {
	for key, r := range s.records {
		if r.MaterialID == materialID {
			delete(s.records, key)
		}
	}
	return nil
}

// fakeCatalog maps a course to its live material IDs. Completed records
// for materials removed from here stop counting, matching the joined
// query of the real catalog.
type fakeCatalog struct {
	materials map[uint][]uint
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{materials: make(map[uint][]uint)}
}

func (c *fakeCatalog) CountMaterials(courseID uint) (int, error) {
	return len(c.materials[courseID]), nil
}

func (c *fakeCatalog) MaterialExists(courseID, materialID uint) (bool, error) {
	for _, id := range c.materials[courseID] {
		if id == materialID {
			return true, nil
		}
	}
	return false, nil
}

func (c *fakeCatalog) remove(courseID, materialID uint) {
	live := c.materials[courseID][:0]
	for _, id := range c.materials[courseID] {
		if id != materialID {
			live = append(live, id)
		}
	}
	c.materials[courseID] = live
}

type enrollmentKey struct {
	student, course uint
}

type fakeEnrollments struct {
	enrollments map[enrollmentKey]*courseModels.Enrollment
	failFor     map[enrollmentKey]error
}

func newFakeEnrollments() *fakeEnrollments {
	return &fakeEnrollments{
		enrollments: make(map[enrollmentKey]*courseModels.Enrollment),
		failFor:     make(map[enrollmentKey]error),
	}
}

func (r *fakeEnrollments) add(e *courseModels.Enrollment) {
	r.enrollments[enrollmentKey{e.UserID, e.CourseID}] = e
}

func (r *fakeEnrollments) Find(studentID, courseID uint) (*courseModels.Enrollment, error) {
	return r.enrollments[enrollmentKey{studentID, courseID}], nil
}

func (r *fakeEnrollments) ListByCourse(courseID uint) ([]courseModels.Enrollment, error) {
	var out []courseModels.Enrollment
	for _, e := range r.enrollments {
		if e.CourseID == courseID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEnrollments) WithLock(studentID, courseID uint, fn func(e *courseModels.Enrollment) error) error {
	key := enrollmentKey{studentID, courseID}
	if err := r.failFor[key]; err != nil {
		return err
	}
	e, ok := r.enrollments[key]
	if !ok {
		return ErrNotFound
	}
	return fn(e)
}

type fakeAssignments struct {
	total     map[uint]int
	submitted map[enrollmentKey]int
}

func newFakeAssignments() *fakeAssignments {
	return &fakeAssignments{total: make(map[uint]int), submitted: make(map[enrollmentKey]int)}
}

func (a *fakeAssignments) CountByCourse(courseID uint) (int, error) {
	return a.total[courseID], nil
}

func (a *fakeAssignments) CountSubmitted(studentID, courseID uint) (int, error) {
	return a.submitted[enrollmentKey{studentID, courseID}], nil
}

type fixture struct {
	store       *fakeStore
	catalog     *fakeCatalog
	enrollments *fakeEnrollments
	assignments *fakeAssignments
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:       newFakeStore(),
		catalog:     newFakeCatalog(),
		enrollments: newFakeEnrollments(),
		assignments: newFakeAssignments(),
	}
	f.svc = NewService(f.store, f.catalog, f.enrollments, f.assignments)
	return f
}

func (f *fixture) enroll(studentID, courseID uint) *courseModels.Enrollment {
	e := &courseModels.Enrollment{UserID: studentID, CourseID: courseID, Status: courseModels.EnrollmentActive}
	f.enrollments.add(e)
	return e
}

func TestRecomputeRoundsPercentage(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10, 11, 12}
	f.enroll(7, 1)

	_, _, err := f.svc.MarkComplete(7, 1, 10)
	require.NoError(t, err)
	stats, _, err := f.svc.MarkComplete(7, 1, 11)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalMaterials)
	assert.Equal(t, 2, stats.CompletedMaterials)
	assert.Equal(t, 67, stats.ProgressPercentage)
}

func TestRecomputeEmptyCourseIsZero(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = nil
	f.enroll(7, 1)

	stats, err := f.svc.Recompute(7, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ProgressPercentage)
	assert.Equal(t, 0, stats.TotalMaterials)
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10, 11}
	f.enroll(7, 1)

	first, _, err := f.svc.MarkComplete(7, 1, 10)
	require.NoError(t, err)
	second, _, err := f.svc.MarkComplete(7, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, second.CompletedMaterials)
	assert.Equal(t, 50, second.ProgressPercentage)
}

func TestMarkCompleteUnknownMaterial(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10}
	f.enroll(7, 1)

	_, _, err := f.svc.MarkComplete(7, 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkCompleteRequiresEnrollment(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10}

	_, _, err := f.svc.MarkComplete(7, 1, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	e := f.enroll(7, 1)
	e.Status = courseModels.EnrollmentDropped
	_, _, err = f.svc.MarkComplete(7, 1, 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompletionIsOneWay(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10, 11}
	e := f.enroll(7, 1)

	_, _, err := f.svc.MarkComplete(7, 1, 10)
	require.NoError(t, err)
	_, _, err = f.svc.MarkComplete(7, 1, 11)
	require.NoError(t, err)

	require.Equal(t, courseModels.EnrollmentCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)
	completedAt := *e.CompletedAt

	// A new material dilutes the percentage but never reverts the
	// completed milestone.
	f.catalog.materials[1] = append(f.catalog.materials[1], 12)
	stats, _, err := f.svc.RecomputeAndApply(7, 1)
	require.NoError(t, err)

	assert.Equal(t, 67, stats.ProgressPercentage)
	assert.Equal(t, courseModels.EnrollmentCompleted, e.Status)
	assert.Equal(t, completedAt, *e.CompletedAt)
}

func TestCompletedEnrollmentStillAcceptsCompletions(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10}
	e := f.enroll(7, 1)

	_, _, err := f.svc.MarkComplete(7, 1, 10)
	require.NoError(t, err)
	require.Equal(t, courseModels.EnrollmentCompleted, e.Status)

	f.catalog.materials[1] = append(f.catalog.materials[1], 11)
	stats, _, err := f.svc.MarkComplete(7, 1, 11)
	require.NoError(t, err)
	assert.Equal(t, 100, stats.ProgressPercentage)
}

func TestDroppedEnrollmentKeepsStatus(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10}
	e := f.enroll(7, 1)
	f.store.MarkComplete(7, 1, 10)
	e.Status = courseModels.EnrollmentDropped

	stats, _, err := f.svc.RecomputeAndApply(7, 1)
	require.NoError(t, err)

	assert.Equal(t, 100, stats.ProgressPercentage)
	assert.Equal(t, courseModels.EnrollmentDropped, e.Status)
	assert.Nil(t, e.CompletedAt)
}

func TestTouchValidation(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10}
	f.enroll(7, 1)

	assert.ErrorIs(t, f.svc.Touch(7, 1, 10, -1), ErrValidation)
	assert.ErrorIs(t, f.svc.Touch(7, 1, 99, 30), ErrNotFound)

	require.NoError(t, f.svc.Touch(7, 1, 10, 30))
	require.NoError(t, f.svc.Touch(7, 1, 10, 15))

	total, err := f.svc.TotalTimeSpent(7, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
}

func TestHandleMaterialDeletedPurgesAndRecalculates(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10, 11, 12}
	e := f.enroll(7, 1)

	_, _, err := f.svc.MarkComplete(7, 1, 10)
	require.NoError(t, err)
	_, _, err = f.svc.MarkComplete(7, 1, 11)
	require.NoError(t, err)
	require.Equal(t, 67, e.ProgressPercentage)

	// Deleting a completed material shrinks both sides of the ratio.
	f.catalog.remove(1, 11)
	recalculated, failed, err := f.svc.HandleMaterialDeleted(1, 11)
	require.NoError(t, err)

	assert.Equal(t, 1, recalculated)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 50, e.ProgressPercentage)
	assert.Equal(t, 1, e.CompletedMaterials)
	assert.Equal(t, 2, e.TotalMaterials)

	// The orphaned record is gone for good.
	records, err := f.svc.ListRecords(7, 1)
	require.NoError(t, err)
	for _, r := range records {
		assert.NotEqual(t, uint(11), r.MaterialID)
	}
}

func TestRecalculateCourseCountsFailures(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10}
	f.enroll(7, 1)
	f.enroll(8, 1)
	f.enroll(9, 1)
	f.store.MarkComplete(8, 1, 10)

	f.enrollments.failFor[enrollmentKey{9, 1}] = errors.New("lock timeout")

	recalculated, failed, err := f.svc.RecalculateCourse(1)
	require.NoError(t, err)

	assert.Equal(t, 2, recalculated)
	assert.Equal(t, 1, failed)

	// The survivors were still updated.
	healthy := f.enrollments.enrollments[enrollmentKey{8, 1}]
	assert.Equal(t, 100, healthy.ProgressPercentage)
	assert.Equal(t, courseModels.EnrollmentCompleted, healthy.Status)
}

func TestCombinedStats(t *testing.T) {
	f := newFixture()
	f.catalog.materials[1] = []uint{10, 11, 12}
	f.enroll(7, 1)
	f.assignments.total[1] = 2
	f.assignments.submitted[enrollmentKey{7, 1}] = 1

	_, _, err := f.svc.MarkComplete(7, 1, 10)
	require.NoError(t, err)
	stats, _, err := f.svc.MarkComplete(7, 1, 11)
	require.NoError(t, err)

	combined, err := f.svc.CombinedStats(7, 1, stats)
	require.NoError(t, err)

	assert.Equal(t, 5, combined.TotalItems)
	assert.Equal(t, 3, combined.CompletedItems)
	// The enrollment percentage stays materials-only.
	assert.Equal(t, 67, combined.ProgressPercentage)
}

func TestPercentageBounds(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 0))
	assert.Equal(t, 0, percentage(5, 0))
	assert.Equal(t, 100, percentage(3, 3))
	assert.Equal(t, 100, percentage(5, 3))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 67, percentage(2, 3))
	assert.Equal(t, 50, percentage(1, 2))
}
