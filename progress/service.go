package progress

import (
	"fmt"
	"log"
	"math"
	"time"

	courseModels "lms/models/course"
)

// Service derives enrollment progress state from raw completion facts
// and the live material catalog. It is the single recomputation entry
// point: every mutation path that can change either input goes through
// it rather than re-deriving percentages on its own.
type Service struct {
	store       Store
	catalog     Catalog
	enrollments Enrollments
	assignments Assignments
	now         func() time.Time
}

// NewService wires the engine against its persistence boundaries.
func NewService(store Store, catalog Catalog, enrollments Enrollments, assignments Assignments) *Service {
	return &Service{
		store:       store,
		catalog:     catalog,
		enrollments: enrollments,
		assignments: assignments,
		now:         time.Now,
	}
}

// Recompute derives the current stats for one enrollment. Pure given
// the catalog and the store.
func (s *Service) Recompute(studentID, courseID uint) (Stats, error) {
	total, err := s.catalog.CountMaterials(courseID)
	if err != nil {
		return Stats{}, fmt.Errorf("count materials: %w", err)
	}

	completed, err := s.store.CountCompleted(studentID, courseID)
	if err != nil {
		return Stats{}, fmt.Errorf("count completed: %w", err)
	}

	return Stats{
		TotalMaterials:     total,
		CompletedMaterials: completed,
		ProgressPercentage: percentage(completed, total),
	}, nil
}

func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// applyTransition writes the recomputed stats onto the enrollment and
// advances its lifecycle. COMPLETED is a one-way milestone: reaching
// 100 sets it (with CompletedAt, once), but a later drop below 100
// never reverts it. DROPPED is terminal for the state machine and is
// never assigned here.
func applyTransition(e *courseModels.Enrollment, st Stats, now time.Time) {
	e.TotalMaterials = st.TotalMaterials
	e.CompletedMaterials = st.CompletedMaterials
	e.ProgressPercentage = st.ProgressPercentage

	if e.Status == courseModels.EnrollmentDropped {
		return
	}
	if st.ProgressPercentage == 100 && e.Status != courseModels.EnrollmentCompleted {
		e.Status = courseModels.EnrollmentCompleted
		t := now
		e.CompletedAt = &t
	}
}

// RecomputeAndApply recomputes the enrollment's stats and applies the
// lifecycle transition under the per-(student, course) lock.
func (s *Service) RecomputeAndApply(studentID, courseID uint) (Stats, *courseModels.Enrollment, error) {
	var stats Stats
	var enrollment *courseModels.Enrollment

	err := s.enrollments.WithLock(studentID, courseID, func(e *courseModels.Enrollment) error {
		st, err := s.Recompute(studentID, courseID)
		if err != nil {
			return err
		}
		applyTransition(e, st, s.now())
		stats = st
		enrollment = e
		return nil
	})
	if err != nil {
		return Stats{}, nil, err
	}
	return stats, enrollment, nil
}

// Touch records an access to a material. The association must be
// valid; a material outside the course is a validation error.
func (s *Service) Touch(studentID, courseID, materialID uint, seconds int64) error {
	if seconds < 0 {
		return ErrValidation
	}
	ok, err := s.catalog.MaterialExists(courseID, materialID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return s.store.Touch(studentID, courseID, materialID, seconds)
}

// MarkComplete marks the material completed for the student and folds
// the result into the enrollment. Idempotent: a second call leaves the
// record and the recomputed stats unchanged. The student must hold a
// non-dropped enrollment for the course; a COMPLETED enrollment still
// accepts completions so materials added after completion can be
// worked through.
func (s *Service) MarkComplete(studentID, courseID, materialID uint) (Stats, *courseModels.Enrollment, error) {
	ok, err := s.catalog.MaterialExists(courseID, materialID)
	if err != nil {
		return Stats{}, nil, err
	}
	if !ok {
		return Stats{}, nil, ErrNotFound
	}

	enrollment, err := s.enrollments.Find(studentID, courseID)
	if err != nil {
		return Stats{}, nil, err
	}
	if enrollment == nil || enrollment.Status == courseModels.EnrollmentDropped {
		return Stats{}, nil, ErrForbidden
	}

	if err := s.store.MarkComplete(studentID, courseID, materialID); err != nil {
		return Stats{}, nil, err
	}

	return s.RecomputeAndApply(studentID, courseID)
}

// PurgeMaterialRecords removes the progress records of a deleted
// material without recalculating. Callers deleting several materials
// at once purge each and then run a single RecalculateCourse.
func (s *Service) PurgeMaterialRecords(materialID uint) error {
	return s.store.DeleteForMaterial(materialID)
}

// HandleMaterialDeleted purges the material's progress records and
// fans the recalculation out over every enrollment of the course.
func (s *Service) HandleMaterialDeleted(courseID, materialID uint) (recalculated, failed int, err error) {
	if err := s.store.DeleteForMaterial(materialID); err != nil {
		return 0, 0, err
	}
	return s.RecalculateCourse(courseID)
}

// RecalculateCourse recomputes every enrollment of the course. Each
// enrollment is an independent unit of work: one failure is counted
// and logged, never aborts the batch, so no enrollment is left stale
// because a sibling failed.
func (s *Service) RecalculateCourse(courseID uint) (recalculated, failed int, err error) {
	enrollments, err := s.enrollments.ListByCourse(courseID)
	if err != nil {
		return 0, 0, err
	}

	for _, e := range enrollments {
		if _, _, err := s.RecomputeAndApply(e.UserID, e.CourseID); err != nil {
			failed++
			log.Printf("Progress recalculation failed for user %d course %d: %v", e.UserID, e.CourseID, err)
			continue
		}
		recalculated++
	}
	return recalculated, failed, nil
}

// CombinedStats widens the material stats with assignment submissions
// for the completion accounting returned to callers. The submission
// itself, not the grade, is the completion signal.
func (s *Service) CombinedStats(studentID, courseID uint, st Stats) (CombinedStats, error) {
	totalAssignments, err := s.assignments.CountByCourse(courseID)
	if err != nil {
		return CombinedStats{}, err
	}
	submitted, err := s.assignments.CountSubmitted(studentID, courseID)
	if err != nil {
		return CombinedStats{}, err
	}
	return CombinedStats{
		ProgressPercentage: st.ProgressPercentage,
		TotalItems:         st.TotalMaterials + totalAssignments,
		CompletedItems:     st.CompletedMaterials + submitted,
	}, nil
}

// TotalTimeSpent reports the cumulative seconds the student spent on
// the course's materials.
func (s *Service) TotalTimeSpent(studentID, courseID uint) (int64, error) {
	return s.store.TotalTimeSpent(studentID, courseID)
}

// ListRecords exposes the student's raw progress records for the
// course progress view.
func (s *Service) ListRecords(studentID, courseID uint) ([]courseModels.ProgressRecord, error) {
	return s.store.ListByCourse(studentID, courseID)
}
