package repositories

import (
	"context"

	"github.com/talentwave/opportunity-engine/internal/entities"
	"gorm.io/gorm"
)

// StatusChanges is append-only: records are never updated or removed.
type StatusChanges struct {
	db *gorm.DB
}

func NewStatusChangesRepository(db *gorm.DB) *StatusChanges {
	return &StatusChanges{db: db}
}

func (repo *StatusChanges) Append(ctx context.Context, record *entities.StatusChangeRecord) error {
	return dbFrom(ctx, repo.db).Create(record).Error
}

func (repo *StatusChanges) GetByAssociation(ctx context.Context, associationID int) ([]entities.StatusChangeRecord, error) {
	var records []entities.StatusChangeRecord
	err := dbFrom(ctx, repo.db).
		Order("created_at, id").
		Find(&records, "association_id = ?", associationID).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *StatusChanges) GetByOpportunity(ctx context.Context, opportunityID int) ([]entities.StatusChangeRecord, error) {
	var records []entities.StatusChangeRecord
	err := dbFrom(ctx, repo.db).
		Order("created_at, id").
		Find(&records, "opportunity_id = ?", opportunityID).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
