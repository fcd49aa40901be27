package services

import (
	"context"

	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/metrics"
)

type statusChangeAppender interface {
	Append(ctx context.Context, record *entities.StatusChangeRecord) error
}

// AuditLog appends one immutable StatusChangeRecord per association
// lifecycle event. It is called explicitly by the writers, inside the
// same transaction as the association write, never deferred.
type AuditLog struct {
	records statusChangeAppender
}

func NewAuditLog(records statusChangeAppender) *AuditLog {
	return &AuditLog{records: records}
}

// AssociationCreated records the creation with no previous status.
func (a *AuditLog) AssociationCreated(ctx context.Context, association entities.Association) error {
	status := association.Status
	return a.append(ctx, &entities.StatusChangeRecord{
		AssociationID: association.ID,
		CandidateID:   association.CandidateID,
		OpportunityID: association.OpportunityID,
		NewStatus:     &status,
	})
}

// AssociationUpdated records a status move; updates that leave the
// status untouched produce nothing.
func (a *AuditLog) AssociationUpdated(ctx context.Context, before, after entities.Association) error {
	if before.Status == after.Status {
		return nil
	}
	oldStatus, newStatus := before.Status, after.Status
	return a.append(ctx, &entities.StatusChangeRecord{
		AssociationID: after.ID,
		CandidateID:   after.CandidateID,
		OpportunityID: after.OpportunityID,
		OldStatus:     &oldStatus,
		NewStatus:     &newStatus,
	})
}

// AssociationRemoved records the removal with no next status. Callers
// must append this before the soft-delete so removal never silently
// loses history.
func (a *AuditLog) AssociationRemoved(ctx context.Context, association entities.Association) error {
	status := association.Status
	return a.append(ctx, &entities.StatusChangeRecord{
		AssociationID: association.ID,
		CandidateID:   association.CandidateID,
		OpportunityID: association.OpportunityID,
		OldStatus:     &status,
	})
}

func (a *AuditLog) append(ctx context.Context, record *entities.StatusChangeRecord) error {
	if err := a.records.Append(ctx, record); err != nil {
		return err
	}
	metrics.StatusChangesCounter.Inc()
	return nil
}
