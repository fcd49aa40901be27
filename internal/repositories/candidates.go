package repositories

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"gorm.io/gorm"
)

type Candidates struct {
	db *gorm.DB
}

func NewCandidatesRepository(db *gorm.DB) *Candidates {
	return &Candidates{db: db}
}

func (repo *Candidates) GetByID(ctx context.Context, id int) (*entities.Candidate, error) {
	var candidate entities.Candidate
	err := dbFrom(ctx, repo.db).First(&candidate, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "candidate %v", id)
		}
		return nil, err
	}
	return &candidate, nil
}
