package entities

import "time"

// StatusChangeRecord is one append-only audit entry. Creation records
// carry a nil OldStatus, removal records a nil NewStatus; a plain
// status move carries both.
type StatusChangeRecord struct {
	ID            int `gorm:"primaryKey"`
	AssociationID int `gorm:"index"`
	CandidateID   int
	OpportunityID int
	OldStatus     *Status
	NewStatus     *Status
	CreatedAt     time.Time
}
