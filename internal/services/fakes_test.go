package services

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/repositories"
)

// passTransactor runs the batch without a real transaction; rollback
// behavior is covered by the integration tests.
type passTransactor struct{}

func (passTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOpportunities struct {
	byID map[int]*entities.Opportunity
}

func (f *fakeOpportunities) GetByID(_ context.Context, id int) (*entities.Opportunity, error) {
	opportunity, ok := f.byID[id]
	if !ok {
		return nil, errors.Wrapf(repositories.ErrNotFound, "opportunity %v", id)
	}
	copied := *opportunity
	return &copied, nil
}

type fakeCandidates struct {
	ids []int
}

func (f *fakeCandidates) GetByID(_ context.Context, id int) (*entities.Candidate, error) {
	if lo.Contains(f.ids, id) {
		return &entities.Candidate{ID: id}, nil
	}
	return nil, errors.Wrapf(repositories.ErrNotFound, "candidate %v", id)
}

// fakeAssociations is an in-memory association table with the same
// soft-delete semantics as the real repository.
type fakeAssociations struct {
	nextID int
	rows   map[int]*entities.Association
}

func newFakeAssociations() *fakeAssociations {
	return &fakeAssociations{rows: map[int]*entities.Association{}}
}

func (f *fakeAssociations) GetByOpportunityUnscoped(_ context.Context, opportunityID int) ([]entities.Association, error) {
	var result []entities.Association
	for _, row := range f.rows {
		if row.OpportunityID == opportunityID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (f *fakeAssociations) GetByOpportunity(ctx context.Context, opportunityID int) ([]entities.Association, error) {
	all, _ := f.GetByOpportunityUnscoped(ctx, opportunityID)
	var result []entities.Association
	for _, row := range all {
		if !row.Deleted() {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeAssociations) GetByPair(_ context.Context, opportunityID, candidateID int) (*entities.Association, error) {
	for _, row := range f.rows {
		if row.OpportunityID == opportunityID && row.CandidateID == candidateID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, errors.Wrapf(repositories.ErrNotFound, "association %v/%v", opportunityID, candidateID)
}

func (f *fakeAssociations) GetByID(_ context.Context, id int) (*entities.Association, error) {
	row, ok := f.rows[id]
	if !ok || row.Deleted() {
		return nil, errors.Wrapf(repositories.ErrNotFound, "association %v", id)
	}
	copied := *row
	return &copied, nil
}

func (f *fakeAssociations) Create(_ context.Context, association *entities.Association) error {
	f.nextID++
	association.ID = f.nextID
	copied := *association
	f.rows[association.ID] = &copied
	return nil
}

func (f *fakeAssociations) Restore(_ context.Context, id int, overrides entities.AssociationOverrides) (*entities.Association, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, errors.Wrapf(repositories.ErrNotFound, "association %v", id)
	}
	row.DeletedAt.Valid = false
	if overrides.Status != nil {
		row.Status = *overrides.Status
	}
	if overrides.Recommended != nil {
		row.Recommended = *overrides.Recommended
	}
	if overrides.Note != nil {
		row.Note = *overrides.Note
	}
	copied := *row
	return &copied, nil
}

func (f *fakeAssociations) Update(_ context.Context, id int, patch entities.AssociationPatch) error {
	row, ok := f.rows[id]
	if !ok {
		return errors.Wrapf(repositories.ErrNotFound, "association %v", id)
	}
	if patch.Status != nil {
		row.Status = *patch.Status
	}
	if patch.Seen != nil {
		row.Seen = *patch.Seen
	}
	if patch.Bookmarked != nil {
		row.Bookmarked = *patch.Bookmarked
	}
	if patch.Archived != nil {
		row.Archived = *patch.Archived
	}
	if patch.Note != nil {
		row.Note = *patch.Note
	}
	return nil
}

func (f *fakeAssociations) SetRecommended(_ context.Context, ids []int, recommended bool) error {
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			row.Recommended = recommended
		}
	}
	return nil
}

func (f *fakeAssociations) SoftDelete(_ context.Context, ids []int) error {
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			row.DeletedAt.Time = time.Now()
			row.DeletedAt.Valid = true
		}
	}
	return nil
}

func (f *fakeAssociations) byPair(opportunityID, candidateID int) *entities.Association {
	for _, row := range f.rows {
		if row.OpportunityID == opportunityID && row.CandidateID == candidateID {
			return row
		}
	}
	return nil
}

// fakeRecords captures appended audit entries for the real AuditLog.
type fakeRecords struct {
	records []entities.StatusChangeRecord
}

func (f *fakeRecords) Append(_ context.Context, record *entities.StatusChangeRecord) error {
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeRecords) forAssociation(id int) []entities.StatusChangeRecord {
	var result []entities.StatusChangeRecord
	for _, record := range f.records {
		if record.AssociationID == id {
			result = append(result, record)
		}
	}
	return result
}

// fakeDispatch records outbound notifications.
type fakeDispatch struct {
	mu         sync.Mutex
	candidate  []int
	archive    []int
	noResponse []int
	err        error
}

func (f *fakeDispatch) NotifyCandidateOfOpportunity(_ context.Context, candidateID, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidate = append(f.candidate, candidateID)
	return f.err
}

func (f *fakeDispatch) NotifyRecruiterOfArchiveCandidate(_ context.Context, opportunityID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archive = append(f.archive, opportunityID)
	return f.err
}

func (f *fakeDispatch) NotifyRecruiterNoResponse(_ context.Context, opportunityID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noResponse = append(f.noResponse, opportunityID)
	return f.err
}

// fakeQueue records enqueued reminders instead of delaying them.
type fakeQueue struct {
	enqueued []struct {
		kind  string
		delay time.Duration
	}
}

func (f *fakeQueue) Enqueue(_ context.Context, kind string, _ any, delay time.Duration) error {
	f.enqueued = append(f.enqueued, struct {
		kind  string
		delay time.Duration
	}{kind, delay})
	return nil
}
