package repositories

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/filters"
	"gorm.io/gorm"
)

type Associations struct {
	db *gorm.DB
}

func NewAssociationsRepository(db *gorm.DB) *Associations {
	return &Associations{db: db}
}

// GetByOpportunity returns the live associations of one opportunity.
func (repo *Associations) GetByOpportunity(ctx context.Context, opportunityID int) ([]entities.Association, error) {
	var associations []entities.Association
	err := dbFrom(ctx, repo.db).Find(&associations, "opportunity_id = ?", opportunityID).Error
	if err != nil {
		return nil, err
	}
	return associations, nil
}

// GetByOpportunityUnscoped returns every association row of one
// opportunity, soft-deleted ones included.
func (repo *Associations) GetByOpportunityUnscoped(ctx context.Context, opportunityID int) ([]entities.Association, error) {
	var associations []entities.Association
	err := dbFrom(ctx, repo.db).Unscoped().Find(&associations, "opportunity_id = ?", opportunityID).Error
	if err != nil {
		return nil, err
	}
	return associations, nil
}

func (repo *Associations) GetByCandidate(ctx context.Context, candidateID int) ([]entities.Association, error) {
	var associations []entities.Association
	err := dbFrom(ctx, repo.db).Find(&associations, "candidate_id = ?", candidateID).Error
	if err != nil {
		return nil, err
	}
	return associations, nil
}

// GetByPair resolves the single row for (opportunity, candidate),
// soft-deleted or not. Returns ErrNotFound when no row ever existed.
func (repo *Associations) GetByPair(ctx context.Context, opportunityID, candidateID int) (*entities.Association, error) {
	var association entities.Association
	err := dbFrom(ctx, repo.db).Unscoped().
		Where("opportunity_id = ? AND candidate_id = ?", opportunityID, candidateID).
		First(&association).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "association %v/%v", opportunityID, candidateID)
		}
		return nil, err
	}
	return &association, nil
}

func (repo *Associations) GetByID(ctx context.Context, id int) (*entities.Association, error) {
	var association entities.Association
	err := dbFrom(ctx, repo.db).First(&association, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "association %v", id)
		}
		return nil, err
	}
	return &association, nil
}

func (repo *Associations) Create(ctx context.Context, association *entities.Association) error {
	return dbFrom(ctx, repo.db).Create(association).Error
}

// Restore clears the soft-delete mark of a row and applies overrides,
// keeping its id and history intact.
func (repo *Associations) Restore(ctx context.Context, id int, overrides entities.AssociationOverrides) (*entities.Association, error) {
	values := map[string]any{"deleted_at": nil}
	if overrides.Status != nil {
		values["status"] = *overrides.Status
	}
	if overrides.Recommended != nil {
		values["recommended"] = *overrides.Recommended
	}
	if overrides.Note != nil {
		values["note"] = *overrides.Note
	}

	db := dbFrom(ctx, repo.db)
	err := db.Unscoped().Model(&entities.Association{}).Where("id = ?", id).Updates(values).Error
	if err != nil {
		return nil, err
	}

	var association entities.Association
	if err = db.First(&association, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &association, nil
}

func (repo *Associations) Update(ctx context.Context, id int, patch entities.AssociationPatch) error {
	values := map[string]any{}
	if patch.Status != nil {
		values["status"] = *patch.Status
	}
	if patch.Seen != nil {
		values["seen"] = *patch.Seen
	}
	if patch.Bookmarked != nil {
		values["bookmarked"] = *patch.Bookmarked
	}
	if patch.Archived != nil {
		values["archived"] = *patch.Archived
	}
	if patch.Note != nil {
		values["note"] = *patch.Note
	}
	if len(values) == 0 {
		return nil
	}
	return dbFrom(ctx, repo.db).Model(&entities.Association{}).Where("id = ?", id).Updates(values).Error
}

func (repo *Associations) SetRecommended(ctx context.Context, ids []int, recommended bool) error {
	if len(ids) == 0 {
		return nil
	}
	return dbFrom(ctx, repo.db).Model(&entities.Association{}).
		Where("id IN ?", ids).
		Update("recommended", recommended).Error
}

// SoftDelete marks the rows deleted; they stay restorable.
func (repo *Associations) SoftDelete(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	return dbFrom(ctx, repo.db).Delete(&entities.Association{}, "id IN ?", ids).Error
}

// CountByScope counts associations through an opaque composed filter.
func (repo *Associations) CountByScope(ctx context.Context, scope filters.Scope) (int64, error) {
	var count int64
	err := scope(dbFrom(ctx, repo.db).Model(&entities.Association{})).Count(&count).Error
	return count, err
}

// ListByScope lists associations through an opaque composed filter.
func (repo *Associations) ListByScope(ctx context.Context, scope filters.Scope, offset, limit int) ([]entities.Association, error) {
	var associations []entities.Association
	db := scope(dbFrom(ctx, repo.db).Model(&entities.Association{}))
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Offset(offset).Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}
