package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/talentwave/opportunity-engine/internal/config"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/logger"
	"github.com/talentwave/opportunity-engine/internal/metrics"
	"github.com/talentwave/opportunity-engine/internal/repositories"
)

type reminderQueue interface {
	Enqueue(ctx context.Context, kind string, payload any, delay time.Duration) error
}

type reminderAssociations interface {
	GetByOpportunity(ctx context.Context, opportunityID int) ([]entities.Association, error)
	GetByPair(ctx context.Context, opportunityID, candidateID int) (*entities.Association, error)
}

type notificationDispatch interface {
	NotifyCandidateOfOpportunity(ctx context.Context, candidateID, opportunityID int) error
	NotifyRecruiterOfArchiveCandidate(ctx context.Context, opportunityID int) error
	NotifyRecruiterNoResponse(ctx context.Context, opportunityID int) error
}

// ReminderPayload identifies what a scheduled reminder is about.
type ReminderPayload struct {
	OpportunityID int `json:"opportunityId"`
	CandidateID   int `json:"candidateId,omitempty"`
}

// Scheduler issues the delayed follow-up checks and evaluates them at
// fire time. A reminder is not a fire-and-forget timer: its handler
// re-reads the current opportunity state and either stops on an
// explicit precondition or loops with the same delay. Handlers never
// assume exclusive access; an overlapping run re-reads state itself and
// redundant sends are tolerated.
type Scheduler struct {
	queue         reminderQueue
	opportunities opportunityStore
	associations  reminderAssociations
	dispatch      notificationDispatch
	delays        config.SchedulerConfig
}

func NewScheduler(queue reminderQueue, opportunities opportunityStore,
	associations reminderAssociations, dispatch notificationDispatch,
	delays config.SchedulerConfig) *Scheduler {

	return &Scheduler{
		queue:         queue,
		opportunities: opportunities,
		associations:  associations,
		dispatch:      dispatch,
		delays:        delays,
	}
}

// ScheduleArchiveReminder asks the recruiter to archive a finished
// opportunity, first after the configured delay (30 days by default).
func (s *Scheduler) ScheduleArchiveReminder(ctx context.Context, opportunityID int, delayOverride ...time.Duration) error {
	return s.queue.Enqueue(ctx, entities.TaskArchiveReminder,
		ReminderPayload{OpportunityID: opportunityID},
		s.delay(s.delays.ArchiveReminderDelay, delayOverride))
}

// ScheduleNoResponseReminder nudges the recruiter who has not processed
// any associated candidate yet (15 days by default).
func (s *Scheduler) ScheduleNoResponseReminder(ctx context.Context, opportunityID int, delayOverride ...time.Duration) error {
	return s.queue.Enqueue(ctx, entities.TaskNoResponseReminder,
		ReminderPayload{OpportunityID: opportunityID},
		s.delay(s.delays.NoResponseReminderDelay, delayOverride))
}

// ScheduleCandidateReminder nudges a candidate attached to a private
// opportunity who has not reacted yet (5 days by default).
func (s *Scheduler) ScheduleCandidateReminder(ctx context.Context, opportunityID, candidateID int, delayOverride ...time.Duration) error {
	return s.queue.Enqueue(ctx, entities.TaskCandidateReminder,
		ReminderPayload{OpportunityID: opportunityID, CandidateID: candidateID},
		s.delay(s.delays.CandidateReminderDelay, delayOverride))
}

func (s *Scheduler) delay(configured time.Duration, override []time.Duration) time.Duration {
	if len(override) > 0 && override[0] > 0 {
		return override[0]
	}
	return configured
}

// HandleArchiveReminder decides at fire time, on fresh state: archived
// or unvalidated stops the loop; a live interview postpones the nudge
// without sending; anything else sends and re-checks later.
func (s *Scheduler) HandleArchiveReminder(ctx context.Context, payload []byte) (bool, error) {

	p, opportunity, done, err := s.loadOpportunity(ctx, payload)
	if done || err != nil {
		s.countTerminal(entities.TaskArchiveReminder, err)
		return false, err
	}

	if opportunity.IsArchived || !opportunity.IsValidated {
		metrics.RemindersCounter.WithLabelValues(entities.TaskArchiveReminder, metrics.ReminderOutcomeTerminal).Inc()
		return false, nil
	}

	associations, err := s.associations.GetByOpportunity(ctx, p.OpportunityID)
	if err != nil {
		return false, err
	}

	for _, association := range associations {
		if association.Status == entities.StatusInterview && !association.Archived {
			metrics.RemindersCounter.WithLabelValues(entities.TaskArchiveReminder, metrics.ReminderOutcomeRescheduled).Inc()
			return true, nil
		}
	}

	s.send(ctx, entities.TaskArchiveReminder, func(ctx context.Context) error {
		return s.dispatch.NotifyRecruiterOfArchiveCandidate(ctx, p.OpportunityID)
	})
	return true, nil
}

// HandleNoResponseReminder stops once the recruiter has moved any
// candidate out of the to-process bucket, else it nudges again.
func (s *Scheduler) HandleNoResponseReminder(ctx context.Context, payload []byte) (bool, error) {

	p, opportunity, done, err := s.loadOpportunity(ctx, payload)
	if done || err != nil {
		s.countTerminal(entities.TaskNoResponseReminder, err)
		return false, err
	}

	if opportunity.IsArchived || !opportunity.IsValidated {
		metrics.RemindersCounter.WithLabelValues(entities.TaskNoResponseReminder, metrics.ReminderOutcomeTerminal).Inc()
		return false, nil
	}

	associations, err := s.associations.GetByOpportunity(ctx, p.OpportunityID)
	if err != nil {
		return false, err
	}

	for _, association := range associations {
		if association.Status != entities.StatusToProcess {
			metrics.RemindersCounter.WithLabelValues(entities.TaskNoResponseReminder, metrics.ReminderOutcomeTerminal).Inc()
			return false, nil
		}
	}

	s.send(ctx, entities.TaskNoResponseReminder, func(ctx context.Context) error {
		return s.dispatch.NotifyRecruiterNoResponse(ctx, p.OpportunityID)
	})
	return true, nil
}

// HandleCandidateReminder stops once the association is gone or the
// candidate reacted (seen, or moved out of to-process), else it nudges
// the candidate again.
func (s *Scheduler) HandleCandidateReminder(ctx context.Context, payload []byte) (bool, error) {

	p, opportunity, done, err := s.loadOpportunity(ctx, payload)
	if done || err != nil {
		s.countTerminal(entities.TaskCandidateReminder, err)
		return false, err
	}

	if opportunity.IsArchived || !opportunity.IsValidated {
		metrics.RemindersCounter.WithLabelValues(entities.TaskCandidateReminder, metrics.ReminderOutcomeTerminal).Inc()
		return false, nil
	}

	association, err := s.associations.GetByPair(ctx, p.OpportunityID, p.CandidateID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.RemindersCounter.WithLabelValues(entities.TaskCandidateReminder, metrics.ReminderOutcomeTerminal).Inc()
			return false, nil
		}
		return false, err
	}

	if association.Deleted() || association.Seen || association.Status != entities.StatusToProcess {
		metrics.RemindersCounter.WithLabelValues(entities.TaskCandidateReminder, metrics.ReminderOutcomeTerminal).Inc()
		return false, nil
	}

	s.send(ctx, entities.TaskCandidateReminder, func(ctx context.Context) error {
		return s.dispatch.NotifyCandidateOfOpportunity(ctx, p.CandidateID, p.OpportunityID)
	})
	return true, nil
}

// loadOpportunity decodes the payload and re-reads the opportunity.
// done means the loop ends cleanly: a vanished opportunity has nothing
// left to remind about. Any other error surfaces to the queue, which
// falls back to rescheduling.
func (s *Scheduler) loadOpportunity(ctx context.Context, payload []byte) (ReminderPayload, *entities.Opportunity, bool, error) {
	var p ReminderPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return p, nil, false, errors.Wrap(err, "failed to decode reminder payload")
	}

	opportunity, err := s.opportunities.GetByID(ctx, p.OpportunityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return p, nil, true, nil
		}
		return p, nil, false, err
	}
	return p, opportunity, false, nil
}

// send dispatches one notification; failures are logged and swallowed
// so they never affect the reschedule decision.
func (s *Scheduler) send(ctx context.Context, kind string, dispatch func(ctx context.Context) error) {
	if err := dispatch(ctx); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDispatch).
			Errorf("failed to dispatch %v notification: %v", kind, err)
		metrics.RemindersCounter.WithLabelValues(kind, metrics.ReminderOutcomeDispatchFailed).Inc()
		return
	}
	metrics.RemindersCounter.WithLabelValues(kind, metrics.ReminderOutcomeSent).Inc()
}

func (s *Scheduler) countTerminal(kind string, err error) {
	if err == nil {
		metrics.RemindersCounter.WithLabelValues(kind, metrics.ReminderOutcomeTerminal).Inc()
	}
}
