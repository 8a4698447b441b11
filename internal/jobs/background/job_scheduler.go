package background

import (
	"context"
	"log"
	"sync"
	"time"

	"postewatch/internal/caching"
	"postewatch/internal/common"
	"postewatch/internal/repositories"
	"postewatch/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// JobScheduler manages background jobs for distributed environment
type JobScheduler struct {
	scheduler    gocron.Scheduler
	dashboardSvc services.DashboardService
	cacheSvc     caching.CacheService
	tenantRepo   repositories.TenantRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(dashboardSvc services.DashboardService, cacheSvc caching.CacheService,
	tenantRepo repositories.TenantRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		dashboardSvc: dashboardSvc,
		cacheSvc:     cacheSvc,
		tenantRepo:   tenantRepo,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Dashboard snapshot refresh - every 5 minutes
	refreshJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshDashboardSnapshots, context.Background()),
		gocron.WithName("dashboard-snapshot-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create snapshot refresh job: %v", err)
	} else {
		js.jobs["snapshot-refresh"] = refreshJob
	}

	// Day rollover - shortly after midnight UTC. Attendance keys on the
	// calendar date, so yesterday's cached aggregates are dead weight.
	rolloverJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(js.purgePreviousDay, context.Background()),
		gocron.WithName("day-rollover"),
	)
	if err != nil {
		log.Printf("Failed to create day rollover job: %v", err)
	} else {
		js.jobs["day-rollover"] = rolloverJob
	}

	// Unstaffed alerts - every 30 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.processUnstaffedAlerts),
		gocron.WithName("unstaffed-alerts"),
	)
	if err != nil {
		log.Printf("Failed to create unstaffed alerts job: %v", err)
	} else {
		js.jobs["unstaffed-alerts"] = alertsJob
	}

	// Cache sweep - every hour
	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.sweepExpiredKeys),
		gocron.WithName("cache-sweep"),
	)
	if err != nil {
		log.Printf("Failed to create cache sweep job: %v", err)
	} else {
		js.jobs["cache-sweep"] = sweepJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepExpiredKeys is a defensive pass; rate-limit and refresh-token
// keys all carry TTLs, so Redis does the actual expiry.
func (js *JobScheduler) sweepExpiredKeys() error {
	log.Printf("Cache sweep completed (Redis handles TTL expiry)")
	return nil
}

// refreshDashboardSnapshots rebuilds today's snapshot for all active
// tenants so interactive loads hit a warm cache
func (js *JobScheduler) refreshDashboardSnapshots(ctx context.Context) error {
	log.Printf("Starting dashboard snapshot refresh")

	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to get tenants for snapshot refresh: %v", err)
		return err
	}

	today := common.Today()

	// Process tenants in parallel with concurrency control
	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, tenant := range tenants {
		if tenant.Status != "active" {
			continue
		}

		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := js.cacheSvc.DeleteDashboardSnapshot(ctx, tenantID, today); err != nil {
				log.Printf("Failed to invalidate snapshot cache for tenant %s: %v", tenantID.String(), err)
			}

			if _, err := js.dashboardSvc.Snapshot(ctx, tenantID, today); err != nil {
				log.Printf("Failed to refresh snapshot for tenant %s: %v", tenantID.String(), err)
			} else {
				log.Printf("Refreshed dashboard snapshot for tenant %s", tenantID.String())
			}
		}(tenant.ID)
	}

	wg.Wait()
	log.Printf("Completed dashboard snapshot refresh for %d tenants", len(tenants))
	return nil
}

// purgePreviousDay drops yesterday's cached aggregates for every tenant
func (js *JobScheduler) purgePreviousDay(ctx context.Context) error {
	log.Printf("Starting day rollover purge")

	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to get tenants for day rollover: %v", err)
		return err
	}

	yesterday := common.Today().AddDate(0, 0, -1)
	for _, tenant := range tenants {
		if err := js.cacheSvc.DeleteDashboardSnapshot(ctx, tenant.ID, yesterday); err != nil {
			log.Printf("Failed to purge snapshot for tenant %s: %v", tenant.ID.String(), err)
		}
		if err := js.cacheSvc.DeleteAttendanceSummary(ctx, tenant.ID, yesterday); err != nil {
			log.Printf("Failed to purge summary for tenant %s: %v", tenant.ID.String(), err)
		}
	}

	log.Printf("Completed day rollover purge for %d tenants", len(tenants))
	return nil
}

// processUnstaffedAlerts logs tenants whose critical positions have
// nobody present
func (js *JobScheduler) processUnstaffedAlerts() error {
	log.Printf("Starting unstaffed alerts processing")

	ctx := context.Background()
	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to get tenants for unstaffed alerts: %v", err)
		return err
	}

	today := common.Today()
	for _, tenant := range tenants {
		if tenant.Status != "active" {
			continue
		}

		snapshot, err := js.dashboardSvc.Snapshot(ctx, tenant.ID, today)
		if err != nil {
			log.Printf("Failed to build snapshot for tenant %s: %v", tenant.ID.String(), err)
			continue
		}

		if len(snapshot.Unstaffed) > 0 {
			log.Printf("ALERT: Tenant %s has %d unstaffed critical positions", tenant.Name, len(snapshot.Unstaffed))
		}
	}

	log.Printf("Completed unstaffed alerts processing")
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	log.Printf("Added custom job: %s", name)
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}

	return nil
}
