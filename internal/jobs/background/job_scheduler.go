package background

import (
	"context"
	"sync"
	"time"

	"accountd/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// JobScheduler runs the periodic maintenance jobs: deleting expired
// never-redeemed signup codes and stale unconfirmed email tokens.
type JobScheduler struct {
	scheduler     gocron.Scheduler
	codes         repositories.SignupCodeRepository
	confirmations repositories.EmailConfirmationRepository
	jobs          map[string]gocron.Job
	mu            sync.RWMutex
}

func NewJobScheduler(codes repositories.SignupCodeRepository, confirmations repositories.EmailConfirmationRepository) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		codes:         codes,
		confirmations: confirmations,
		jobs:          make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler.
func (js *JobScheduler) Start() {
	logrus.Info("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler.
func (js *JobScheduler) Stop() error {
	logrus.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	codeJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.cleanupExpiredCodes),
		gocron.WithName("signup-code-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logrus.Errorf("Failed to create signup code cleanup job: %v", err)
	} else {
		js.mu.Lock()
		js.jobs["signup-code-cleanup"] = codeJob
		js.mu.Unlock()
	}

	confirmationJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.cleanupExpiredConfirmations),
		gocron.WithName("email-confirmation-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logrus.Errorf("Failed to create confirmation cleanup job: %v", err)
	} else {
		js.mu.Lock()
		js.jobs["email-confirmation-cleanup"] = confirmationJob
		js.mu.Unlock()
	}
}

func (js *JobScheduler) cleanupExpiredCodes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := js.codes.DeleteExpired(ctx)
	if err != nil {
		logrus.Errorf("Signup code cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		logrus.Infof("Deleted %d expired signup codes", deleted)
	}
}

func (js *JobScheduler) cleanupExpiredConfirmations() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := js.confirmations.DeleteExpired(ctx)
	if err != nil {
		logrus.Errorf("Email confirmation cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		logrus.Infof("Deleted %d expired email confirmations", deleted)
	}
}
