package progress

import (
	"errors"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists progress records through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Touch(studentID, courseID, materialID uint, seconds int64) error {
	record := courseModels.ProgressRecord{
		UserID:       studentID,
		CourseID:     courseID,
		MaterialID:   materialID,
		TimeSpent:    seconds,
		LastAccessed: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "material_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_accessed": time.Now(),
			"time_spent":    gorm.Expr("time_spent + ?", seconds),
			"updated_at":    time.Now(),
		}),
	}).Create(&record).Error
}

func (s *GormStore) MarkComplete(studentID, courseID, materialID uint) error {
	record := courseModels.ProgressRecord{
		UserID:       studentID,
		CourseID:     courseID,
		MaterialID:   materialID,
		IsCompleted:  true,
		LastAccessed: time.Now(),
	}
	// The unique index on (user_id, course_id, material_id) makes the
	// upsert a no-op for the second of two racing completions.
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "material_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed":  true,
			"last_accessed": time.Now(),
			"updated_at":    time.Now(),
		}),
	}).Create(&record).Error
}

func (s *GormStore) CountCompleted(studentID, courseID uint) (int, error) {
	var count int64
	// Join against the live material set: records for deleted or
	// unpublished materials never count toward completion.
	err := s.db.Model(&courseModels.ProgressRecord{}).
		Joins("JOIN materials ON materials.id = progress_records.material_id").
		Where("progress_records.user_id = ? AND progress_records.course_id = ? AND progress_records.is_completed = ?", studentID, courseID, true).
		Where("materials.is_deleted = ? AND materials.is_published = ?", false, true).
		Count(&count).Error
	return int(count), err
}

func (s *GormStore) TotalTimeSpent(studentID, courseID uint) (int64, error) {
	var total int64
	err := s.db.Model(&courseModels.ProgressRecord{}).
		Where("user_id = ? AND course_id = ?", studentID, courseID).
		Select("COALESCE(SUM(time_spent), 0)").
		Scan(&total).Error
	return total, err
}

func (s *GormStore) ListByCourse(studentID, courseID uint) ([]courseModels.ProgressRecord, error) {
	var records []courseModels.ProgressRecord
	err := s.db.Where("user_id = ? AND course_id = ?", studentID, courseID).
		Order("material_id asc").
		Find(&records).Error
	return records, err
}

func (s *GormStore) DeleteForMaterial(materialID uint) error {
	return s.db.Unscoped().
		Where("material_id = ?", materialID).
		Delete(&courseModels.ProgressRecord{}).Error
}

// GormCatalog reads the course's current material set.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) CountMaterials(courseID uint) (int, error) {
	var count int64
	err := c.db.Model(&courseModels.Material{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&count).Error
	return int(count), err
}

func (c *GormCatalog) MaterialExists(courseID, materialID uint) (bool, error) {
	var count int64
	err := c.db.Model(&courseModels.Material{}).
		Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", materialID, courseID, false, true).
		Count(&count).Error
	return count > 0, err
}

// GormEnrollments persists enrollment state.
type GormEnrollments struct {
	db *gorm.DB
}

func NewGormEnrollments(db *gorm.DB) *GormEnrollments {
	return &GormEnrollments{db: db}
}

func (r *GormEnrollments) Find(studentID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := r.db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *GormEnrollments) ListByCourse(courseID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := r.db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *GormEnrollments) WithLock(studentID, courseID uint, fn func(e *courseModels.Enrollment) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, courseID, false)
		// Row lock on Postgres; SQLite serializes writers on its own.
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var enrollment courseModels.Enrollment
		if err := q.First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := fn(&enrollment); err != nil {
			return err
		}
		return tx.Save(&enrollment).Error
	})
}

// GormAssignments contributes submission counts.
type GormAssignments struct {
	db *gorm.DB
}

func NewGormAssignments(db *gorm.DB) *GormAssignments {
	return &GormAssignments{db: db}
}

func (a *GormAssignments) CountByCourse(courseID uint) (int, error) {
	var count int64
	err := a.db.Model(&courseModels.Assignment{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&count).Error
	return int(count), err
}

func (a *GormAssignments) CountSubmitted(studentID, courseID uint) (int, error) {
	var count int64
	// Join against the live assignment set so a deleted assignment's
	// submission never counts toward CompletedItems.
	err := a.db.Model(&courseModels.AssignmentSubmission{}).
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Where("assignment_submissions.user_id = ? AND assignment_submissions.course_id = ?", studentID, courseID).
		Where("assignments.is_deleted = ?", false).
		Count(&count).Error
	return int(count), err
}

// NewGormService wires a Service over a single gorm handle.
func NewGormService(db *gorm.DB) *Service {
	return NewService(
		NewGormStore(db),
		NewGormCatalog(db),
		NewGormEnrollments(db),
		NewGormAssignments(db),
	)
}
