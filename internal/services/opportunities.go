package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/events"
	"github.com/talentwave/opportunity-engine/internal/logger"
)

type opportunityRepository interface {
	Add(ctx context.Context, opportunity *entities.Opportunity) error
	GetByID(ctx context.Context, id int) (*entities.Opportunity, error)
	Update(ctx context.Context, id int, patch entities.OpportunityPatch) error
}

type associationReconciler interface {
	Reconcile(ctx context.Context, opportunityID int, desiredCandidateIDs, recommendedCandidateIDs []int) ([]entities.Association, error)
}

type reminderScheduler interface {
	ScheduleArchiveReminder(ctx context.Context, opportunityID int, delayOverride ...time.Duration) error
	ScheduleNoResponseReminder(ctx context.Context, opportunityID int, delayOverride ...time.Duration) error
	ScheduleCandidateReminder(ctx context.Context, opportunityID, candidateID int, delayOverride ...time.Duration) error
}

// Opportunities is the entry point the application layer calls when an
// opportunity is created or updated. It runs the reconciler, fans out
// post-commit events and plants the delayed follow-up checks.
type Opportunities struct {
	bus           EventBus.Bus
	opportunities opportunityRepository
	reconciler    associationReconciler
	scheduler     reminderScheduler
}

func NewOpportunitiesService(bus EventBus.Bus, opportunities opportunityRepository,
	reconciler associationReconciler, scheduler reminderScheduler) *Opportunities {

	return &Opportunities{
		bus:           bus,
		opportunities: opportunities,
		reconciler:    reconciler,
		scheduler:     scheduler,
	}
}

// Create stores the opportunity and attaches the given candidates.
func (o *Opportunities) Create(ctx context.Context, opportunity *entities.Opportunity,
	candidateIDs []int) ([]entities.Association, error) {

	if err := o.opportunities.Add(ctx, opportunity); err != nil {
		return nil, err
	}

	affected, err := o.reconciler.Reconcile(ctx, opportunity.ID, candidateIDs, nil)
	if err != nil {
		return nil, err
	}

	o.afterReconcile(ctx, *opportunity, affected)

	if opportunity.IsValidated {
		o.onValidated(ctx, *opportunity)
	}
	return affected, nil
}

// Update patches the opportunity and realigns its candidate set. A nil
// candidateIDs keeps the current set. Once validated, an opportunity
// only accepts business-line and flag changes; the rest of the patch is
// discarded.
func (o *Opportunities) Update(ctx context.Context, id int, patch entities.OpportunityPatch,
	candidateIDs []int) ([]entities.Association, error) {

	before, err := o.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if before.IsValidated {
		patch = entities.OpportunityPatch{
			IsValidated:   patch.IsValidated,
			IsArchived:    patch.IsArchived,
			BusinessLines: patch.BusinessLines,
		}
	}

	if err = o.opportunities.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	after, err := o.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	affected, err := o.reconciler.Reconcile(ctx, id, candidateIDs, nil)
	if err != nil {
		return nil, err
	}

	o.afterReconcile(ctx, *after, affected)

	if !before.IsValidated && after.IsValidated {
		o.onValidated(ctx, *after)
	}
	return affected, nil
}

func (o *Opportunities) afterReconcile(ctx context.Context, opportunity entities.Opportunity,
	affected []entities.Association) {

	for _, association := range affected {
		o.bus.Publish(events.AssociationCreatedTopic, events.AssociationCreated{
			Association: association,
			Opportunity: opportunity,
		})

		if !opportunity.IsPublic {
			err := o.scheduler.ScheduleCandidateReminder(ctx, opportunity.ID, association.CandidateID)
			if err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeQueue).
					Errorf("failed to schedule candidate reminder for %v/%v: %v",
						opportunity.ID, association.CandidateID, err)
			}
		}
	}
}

func (o *Opportunities) onValidated(ctx context.Context, opportunity entities.Opportunity) {

	o.bus.Publish(events.OpportunityValidatedTopic, events.OpportunityValidated{Opportunity: opportunity})

	if err := o.scheduler.ScheduleArchiveReminder(ctx, opportunity.ID); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeQueue).
			Errorf("failed to schedule archive reminder for opportunity %v: %v", opportunity.ID, err)
	}

	if err := o.scheduler.ScheduleNoResponseReminder(ctx, opportunity.ID); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeQueue).
			Errorf("failed to schedule no-response reminder for opportunity %v: %v", opportunity.ID, err)
	}
}
