package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"campusku_backend/internals/features/feedback/dto"
	"campusku_backend/internals/features/feedback/repository"
	"campusku_backend/internals/features/feedback/service"
)

// Finalizer is the narrow view of the feedback service the cron job needs.
type Finalizer interface {
	FinalizeExpiredForms(ctx context.Context, now time.Time) (dto.FinalizeReport, error)
}

// NewFinalizerCron schedules the finalizer. Overlapping runs are skipped; the unique
// window index keeps a second process harmless as well.
func NewFinalizerCron(f Finalizer, schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), service.FinalizeTimeout)
		defer cancel()

		report, err := f.FinalizeExpiredForms(ctx, time.Now())
		if err != nil {
			log.Printf("[CRON] feedback finalize failed after created=%d: %v", report.Created, err)
			return
		}
		log.Printf("[CRON] feedback finalize created=%d", report.Created)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// StartFinalizerCron wires the GORM-backed finalizer and starts it. Call Stop on shutdown.
func StartFinalizerCron(db *gorm.DB, schedule string) (*cron.Cron, error) {
	c, err := NewFinalizerCron(service.New(repository.NewGormRepository(db)), schedule)
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[CRON] feedback finalizer started schedule=%q", schedule)
	return c, nil
}
