package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/talentwave/opportunity-engine/internal/clients/notify"
	"github.com/talentwave/opportunity-engine/internal/config"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/logger"
	"github.com/talentwave/opportunity-engine/internal/metrics"
	"github.com/talentwave/opportunity-engine/internal/queue"
	"github.com/talentwave/opportunity-engine/internal/repositories"
	"github.com/talentwave/opportunity-engine/internal/services"
)

// The engine itself is a library embedded by the application layer;
// this binary runs its only long-lived piece, the reminder worker.
func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	opportunities := repositories.NewOpportunitiesRepository(dbContext.DB)
	associations := repositories.NewAssociationsRepository(dbContext.DB)
	tasks := repositories.NewTasksRepository(dbContext.DB)

	dispatch := notify.NewClient(cfg.Notify.BaseURL, cfg.Notify.APIKey)
	dispatch.SetRateLimit(cfg.Notify.MaxRequestsPerSecond)
	dispatch.SetMaxRetries(cfg.Notify.MaxRetries)

	taskQueue, err := queue.New(tasks, cfg.Scheduler.PollSchedule)
	if err != nil {
		log.Fatalf("can't create task queue: %v", err)
	}

	scheduler := services.NewScheduler(taskQueue, opportunities, associations, dispatch, cfg.Scheduler)

	taskQueue.Handle(entities.TaskArchiveReminder, scheduler.HandleArchiveReminder)
	taskQueue.Handle(entities.TaskNoResponseReminder, scheduler.HandleNoResponseReminder)
	taskQueue.Handle(entities.TaskCandidateReminder, scheduler.HandleCandidateReminder)

	taskQueue.Start()

	<-ctx.Done()

	log.Info("Shutting down services...")
	taskQueue.Stop()
	log.Info("Services stopped.")
}
