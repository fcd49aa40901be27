package services

import (
	"context"
	"fmt"

	"github.com/talentwave/opportunity-engine/internal/entities"
)

// Associations applies workflow updates to a single association and
// keeps the audit log in step, inside one transaction.
type Associations struct {
	tx           transactor
	associations associationStore
	audit        associationAudit
}

func NewAssociationsService(tx transactor, associations associationStore, audit associationAudit) *Associations {
	return &Associations{tx: tx, associations: associations, audit: audit}
}

func (s *Associations) Update(ctx context.Context, id int, patch entities.AssociationPatch) (*entities.Association, error) {

	if patch.Status != nil && !patch.Status.Known() {
		return nil, fmt.Errorf("unknown association status %v", int(*patch.Status))
	}

	var updated *entities.Association

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		before, err := s.associations.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err = s.associations.Update(ctx, id, patch); err != nil {
			return err
		}

		after, err := s.associations.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err = s.audit.AssociationUpdated(ctx, *before, *after); err != nil {
			return err
		}

		updated = after
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
