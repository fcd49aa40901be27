package repositories

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Opportunities struct {
	db *gorm.DB
}

func NewOpportunitiesRepository(db *gorm.DB) *Opportunities {
	return &Opportunities{db: db}
}

func (repo *Opportunities) Add(ctx context.Context, opportunity *entities.Opportunity) error {
	return dbFrom(ctx, repo.db).Create(opportunity).Error
}

func (repo *Opportunities) GetByID(ctx context.Context, id int) (*entities.Opportunity, error) {
	var opportunity entities.Opportunity
	err := dbFrom(ctx, repo.db).Preload("BusinessLines").First(&opportunity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "opportunity %v", id)
		}
		return nil, err
	}
	return &opportunity, nil
}

// Update applies the non-nil fields of patch. Business lines, being a
// side table, are replaced as a whole set when present.
func (repo *Opportunities) Update(ctx context.Context, id int, patch entities.OpportunityPatch) error {
	values := map[string]any{}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Company != nil {
		values["company"] = *patch.Company
	}
	if patch.Department != nil {
		values["department"] = *patch.Department
	}
	if patch.ContractType != nil {
		values["contract_type"] = *patch.ContractType
	}
	if patch.IsPublic != nil {
		values["is_public"] = *patch.IsPublic
	}
	if patch.IsValidated != nil {
		values["is_validated"] = *patch.IsValidated
	}
	if patch.IsArchived != nil {
		values["is_archived"] = *patch.IsArchived
	}
	if patch.IsExternal != nil {
		values["is_external"] = *patch.IsExternal
	}

	db := dbFrom(ctx, repo.db)
	if len(values) > 0 {
		if err := db.Model(&entities.Opportunity{}).Where("id = ?", id).Updates(values).Error; err != nil {
			return err
		}
	}

	if patch.BusinessLines != nil {
		opportunity := entities.Opportunity{ID: id}
		if err := db.Model(&opportunity).Association("BusinessLines").Replace(patch.BusinessLines); err != nil {
			return err
		}
	}
	return nil
}

func (repo *Opportunities) GetBusinessLines(ctx context.Context) ([]entities.BusinessLine, error) {
	var lines []entities.BusinessLine
	if err := dbFrom(ctx, repo.db).Order("`order`").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
