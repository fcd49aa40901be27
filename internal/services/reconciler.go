package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/metrics"
)

type associationStore interface {
	GetByOpportunityUnscoped(ctx context.Context, opportunityID int) ([]entities.Association, error)
	GetByID(ctx context.Context, id int) (*entities.Association, error)
	Create(ctx context.Context, association *entities.Association) error
	Restore(ctx context.Context, id int, overrides entities.AssociationOverrides) (*entities.Association, error)
	Update(ctx context.Context, id int, patch entities.AssociationPatch) error
	SetRecommended(ctx context.Context, ids []int, recommended bool) error
	SoftDelete(ctx context.Context, ids []int) error
}

type opportunityStore interface {
	GetByID(ctx context.Context, id int) (*entities.Opportunity, error)
}

type candidateDirectory interface {
	GetByID(ctx context.Context, id int) (*entities.Candidate, error)
}

type transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type associationAudit interface {
	AssociationCreated(ctx context.Context, association entities.Association) error
	AssociationUpdated(ctx context.Context, before, after entities.Association) error
	AssociationRemoved(ctx context.Context, association entities.Association) error
}

// Reconciler aligns the stored associations of an opportunity with a
// desired candidate set. It is the sole writer of association state.
type Reconciler struct {
	tx            transactor
	opportunities opportunityStore
	associations  associationStore
	candidates    candidateDirectory
	audit         associationAudit
}

func NewReconciler(tx transactor, opportunities opportunityStore, associations associationStore,
	candidates candidateDirectory, audit associationAudit) *Reconciler {

	return &Reconciler{
		tx:            tx,
		opportunities: opportunities,
		associations:  associations,
		candidates:    candidates,
		audit:         audit,
	}
}

// Reconcile makes desiredCandidateIDs the authoritative candidate set
// of the opportunity and returns the associations that were created,
// restored, or newly recommended, so the caller can drive first-contact
// notifications.
//
// A nil desiredCandidateIDs keeps the current set (a no-op alignment);
// an empty, non-nil slice empties a private opportunity. Public
// opportunities are additive: candidates outside the set only lose the
// recommended flag, their associations survive.
//
// recommendedCandidateIDs is the input seam for engine-driven
// recommendations; it merges into the desired set. Callers pass nil
// while that feature stays off.
//
// Creates, restores, flag updates, soft-deletes and their audit
// records run in a single transaction; any failure rolls back the
// whole batch.
func (r *Reconciler) Reconcile(ctx context.Context, opportunityID int,
	desiredCandidateIDs []int, recommendedCandidateIDs []int) ([]entities.Association, error) {

	start := time.Now()
	defer func() {
		metrics.ReconciliationDuration.Observe(time.Since(start).Seconds())
	}()

	opportunity, err := r.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot reconcile")
	}

	rows, err := r.associations.GetByOpportunityUnscoped(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	byCandidate := make(map[int]entities.Association, len(rows))
	for _, row := range rows {
		byCandidate[row.CandidateID] = row
	}

	if desiredCandidateIDs == nil {
		for _, row := range rows {
			if !row.Deleted() {
				desiredCandidateIDs = append(desiredCandidateIDs, row.CandidateID)
			}
		}
	}

	unique := lo.Uniq(append(desiredCandidateIDs, recommendedCandidateIDs...))

	for _, candidateID := range unique {
		if _, err = r.candidates.GetByID(ctx, candidateID); err != nil {
			return nil, errors.Wrap(err, "cannot reconcile")
		}
	}

	var affected []entities.Association

	err = r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		desiredSet := make(map[int]struct{}, len(unique))

		for _, candidateID := range unique {
			desiredSet[candidateID] = struct{}{}

			prior, exists := byCandidate[candidateID]
			switch {
			case !exists:
				association := entities.Association{
					OpportunityID: opportunityID,
					CandidateID:   candidateID,
					Status:        entities.StatusToProcess,
					Recommended:   opportunity.IsPublic,
				}
				if err := r.associations.Create(ctx, &association); err != nil {
					return err
				}
				if err := r.audit.AssociationCreated(ctx, association); err != nil {
					return err
				}
				metrics.AssociationsCreatedCounter.Inc()
				affected = append(affected, association)

			case prior.Deleted():
				restored, err := r.associations.Restore(ctx, prior.ID, entities.AssociationOverrides{
					Recommended: lo.ToPtr(opportunity.IsPublic),
				})
				if err != nil {
					return err
				}
				metrics.AssociationsCreatedCounter.Inc()
				affected = append(affected, *restored)

			case opportunity.IsPublic && !prior.Recommended:
				if err := r.associations.SetRecommended(ctx, []int{prior.ID}, true); err != nil {
					return err
				}
				prior.Recommended = true
				affected = append(affected, prior)
			}
		}

		var dropRecommended []int
		var removals []entities.Association

		for _, row := range rows {
			if _, desired := desiredSet[row.CandidateID]; desired || row.Deleted() {
				continue
			}
			if opportunity.IsPublic {
				if row.Recommended {
					dropRecommended = append(dropRecommended, row.ID)
				}
			} else {
				removals = append(removals, row)
			}
		}

		if err := r.associations.SetRecommended(ctx, dropRecommended, false); err != nil {
			return err
		}

		// history first, removal second
		removalIDs := make([]int, 0, len(removals))
		for _, row := range removals {
			if err := r.audit.AssociationRemoved(ctx, row); err != nil {
				return err
			}
			removalIDs = append(removalIDs, row.ID)
		}
		if err := r.associations.SoftDelete(ctx, removalIDs); err != nil {
			return err
		}
		metrics.AssociationsRemovedCounter.Add(float64(len(removalIDs)))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return affected, nil
}
