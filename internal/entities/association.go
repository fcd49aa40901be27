package entities

import (
	"time"

	"gorm.io/gorm"
)

// Association links one candidate to one opportunity and carries the
// candidate's workflow state for it. At most one row exists per
// (opportunity, candidate) pair, soft-deleted rows included: removal
// soft-deletes, re-association restores the same row so its id and
// history survive.
type Association struct {
	ID            int    `gorm:"primaryKey"`
	OpportunityID int    `gorm:"uniqueIndex:idx_opportunity_candidate"`
	CandidateID   int    `gorm:"uniqueIndex:idx_opportunity_candidate"`
	Status        Status `gorm:"default:-1"`
	Seen          bool
	Bookmarked    bool
	Archived      bool
	Recommended   bool
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt
}

// Deleted reports whether the association is currently soft-deleted.
func (a Association) Deleted() bool {
	return a.DeletedAt.Valid
}

// AssociationOverrides sets chosen flags on create or restore; nil
// fields keep the stored (or default) values.
type AssociationOverrides struct {
	Status      *Status
	Recommended *bool
	Note        *string
}

// AssociationPatch carries the mutable subset of an association for a
// workflow update. Nil fields are left untouched.
type AssociationPatch struct {
	Status     *Status
	Seen       *bool
	Bookmarked *bool
	Archived   *bool
	Note       *string
}
