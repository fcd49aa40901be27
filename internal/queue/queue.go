package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/logger"
)

// Handler runs one due task. It reports whether the task must fire
// again after its original delay; the queue itself performs that single
// re-enqueue, so a handler can never reschedule twice for one fire.
type Handler func(ctx context.Context, payload []byte) (reschedule bool, err error)

type taskStore interface {
	Add(ctx context.Context, task *entities.ScheduledTask) error
	GetDue(ctx context.Context, now time.Time) ([]entities.ScheduledTask, error)
	Remove(ctx context.Context, id int) (claimed bool, err error)
}

// Queue is a delayed task queue over a storage table, polled on a cron
// schedule. Tasks survive restarts; overlapping handlers are expected
// to re-read state and stay safe when run redundantly.
type Queue struct {
	tasks    taskStore
	cron     *cron.Cron
	mu       sync.RWMutex
	handlers map[string]Handler
}

func New(tasks taskStore, pollSchedule string) (*Queue, error) {

	q := &Queue{
		tasks:    tasks,
		cron:     cron.New(),
		handlers: map[string]Handler{},
	}

	_, err := q.cron.AddFunc(pollSchedule, q.poll)
	if err != nil {
		return nil, err
	}

	return q, nil
}

// Handle registers the handler for one task kind. Registering must
// happen before Start.
func (q *Queue) Handle(kind string, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[kind] = handler
}

func (q *Queue) Enqueue(ctx context.Context, kind string, payload any, delay time.Duration) error {

	if delay <= 0 {
		return errors.New("delay must be greater than zero")
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to encode task payload")
	}

	return q.tasks.Add(ctx, &entities.ScheduledTask{
		Kind:    kind,
		Payload: encoded,
		Delay:   delay,
		FireAt:  time.Now().Add(delay),
	})
}

func (q *Queue) Start() {
	q.cron.Start()
	log.Info("task queue started")
}

func (q *Queue) Stop() {
	q.cron.Stop()
}

// Poll drains the currently due tasks once. Exposed for the poller and
// for synchronous use in surrounding handlers.
func (q *Queue) Poll(ctx context.Context) {

	due, err := q.tasks.GetDue(ctx, time.Now())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get due tasks: %v", err)
		return
	}

	for _, task := range due {
		q.runTask(ctx, task)
	}
}

func (q *Queue) poll() {
	q.Poll(context.Background())
}

func (q *Queue) runTask(ctx context.Context, task entities.ScheduledTask) {

	q.mu.RLock()
	handler, ok := q.handlers[task.Kind]
	q.mu.RUnlock()

	if !ok {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeQueue).
			Errorf("no handler registered for task kind %v", task.Kind)
		return
	}

	// removing the row claims the fire; the handler outcome then
	// decides the one and only re-enqueue for it
	claimed, err := q.tasks.Remove(ctx, task.ID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to remove due task: %v", err)
		return
	}
	if !claimed {
		// an overlapping poll got here first
		return
	}

	reschedule, err := handler(ctx, task.Payload)
	if err != nil {
		// losing a follow-up permanently is worse than a spurious
		// re-check, so an evaluation error falls back to reschedule
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeQueue).
			Errorf("handler for task %v (%v) failed: %v", task.ID, task.Kind, err)
		reschedule = true
	}

	if !reschedule {
		return
	}

	next := entities.ScheduledTask{
		Kind:    task.Kind,
		Payload: task.Payload,
		Delay:   task.Delay,
		FireAt:  time.Now().Add(task.Delay),
	}
	if err = q.tasks.Add(ctx, &next); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to reschedule task %v (%v): %v", task.ID, task.Kind, err)
	}
}
