package utils

import (
	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
	"lms/progress"
	"log"

	"github.com/robfig/cron/v3"
)

// InitializeProgressSweeper sets up the periodic progress reconciliation
// sweep. It walks every published course and recomputes each enrollment,
// healing any drift left behind by failed fan-outs.
func InitializeProgressSweeper() {
	log.Println("[PROGRESS-SWEEPER] Initializing progress sweeper...")

	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.SweeperSchedule, func() {
		log.Println("[PROGRESS-SWEEPER] Running progress reconciliation sweep...")
		SweepCourseProgress()
	})
	if err != nil {
		log.Printf("[PROGRESS-SWEEPER] Invalid schedule %q: %v", config.AppConfig.SweeperSchedule, err)
		return
	}

	c.Start()
	log.Printf("[PROGRESS-SWEEPER] Progress sweeper started - schedule %q", config.AppConfig.SweeperSchedule)
}

// SweepCourseProgress recomputes every enrollment of every published
// course. Course failures are logged and skipped so one bad course
// never blocks the rest of the sweep.
func SweepCourseProgress() {
	db := database.Database.Db
	svc := progress.NewGormService(db)

	var courses []courseModels.Course
	if err := db.Where("is_deleted = ? AND is_published = ?", false, true).Find(&courses).Error; err != nil {
		log.Printf("[PROGRESS-SWEEPER] Error fetching courses: %v", err)
		return
	}

	var totalRecalculated, totalFailed int
	for _, course := range courses {
		recalculated, failed, err := svc.RecalculateCourse(course.ID)
		if err != nil {
			log.Printf("[PROGRESS-SWEEPER] Error sweeping course %d: %v", course.ID, err)
			continue
		}
		totalRecalculated += recalculated
		totalFailed += failed
	}

	log.Printf("[PROGRESS-SWEEPER] Sweep finished: %d enrollments recalculated, %d failed", totalRecalculated, totalFailed)
}
