package repositories

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"github.com/talentwave/opportunity-engine/internal/filters"
)

func newTestDb(t *testing.T) *DbContext {
	dbCtx, err := NewDbContext(":memory:")
	require.NoError(t, err)

	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}

func Test_Associations_SoftDeleteAndRestore_KeepTheSameRow(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewAssociationsRepository(dbCtx.DB)
	ctx := context.Background()

	association := entities.Association{OpportunityID: 1, CandidateID: 2, Status: entities.StatusContacted}
	require.NoError(t, repo.Create(ctx, &association))

	require.NoError(t, repo.SoftDelete(ctx, []int{association.ID}))

	live, err := repo.GetByOpportunity(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, live)

	row, err := repo.GetByPair(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, row.Deleted())

	restored, err := repo.Restore(ctx, row.ID, entities.AssociationOverrides{Recommended: lo.ToPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, association.ID, restored.ID)
	assert.False(t, restored.Deleted())
	assert.True(t, restored.Recommended)
	assert.Equal(t, entities.StatusContacted, restored.Status)
}

func Test_Associations_GetByPair_ReturnsNotFoundForUnknownPair(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewAssociationsRepository(dbCtx.DB)

	_, err := repo.GetByPair(context.Background(), 10, 20)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func Test_Associations_Transaction_RollsBackTheWholeBatch(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewAssociationsRepository(dbCtx.DB)
	ctx := context.Background()

	err := dbCtx.WithTransaction(ctx, func(ctx context.Context) error {
		association := entities.Association{OpportunityID: 1, CandidateID: 2}
		if err := repo.Create(ctx, &association); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	live, err := repo.GetByOpportunity(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, live)
}

func composedCount(t *testing.T, repo *Associations, request filters.Request) int64 {
	scope, err := filters.Compose(request)
	require.NoError(t, err)

	count, err := repo.CountByScope(context.Background(), scope)
	require.NoError(t, err)
	return count
}

func Test_CountByScope_ToProcessBucketCatchesBookmarkedRows(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewAssociationsRepository(dbCtx.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Association{
		OpportunityID: 1, CandidateID: 1, Status: entities.StatusHired, Bookmarked: true,
	}))
	require.NoError(t, repo.Create(ctx, &entities.Association{
		OpportunityID: 1, CandidateID: 2, Status: entities.StatusContacted,
	}))

	count := composedCount(t, repo, filters.Request{
		Role:     filters.RoleCandidate,
		Statuses: []entities.Status{entities.StatusToProcess},
	})
	assert.Equal(t, int64(1), count)
}

func Test_CountByScope_ArchivedRefusalBeforeInterviewIsIncluded(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewAssociationsRepository(dbCtx.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Association{
		OpportunityID: 1, CandidateID: 1, Status: entities.StatusRefusalBeforeInterview, Archived: true,
	}))
	require.NoError(t, repo.Create(ctx, &entities.Association{
		OpportunityID: 1, CandidateID: 2, Status: entities.StatusRefusalAfterInterview, Archived: true,
	}))

	count := composedCount(t, repo, filters.Request{
		Role:     filters.RoleCandidate,
		Statuses: []entities.Status{entities.StatusRefusalBeforeInterview},
	})
	assert.Equal(t, int64(1), count)

	count = composedCount(t, repo, filters.Request{
		Role:     filters.RoleCandidate,
		Statuses: []entities.Status{entities.StatusRefusalAfterInterview},
	})
	assert.Equal(t, int64(0), count)
}

func Test_CountByScope_SearchMatchesOpportunityTitleCaseInsensitively(t *testing.T) {

	dbCtx := newTestDb(t)
	opportunities := NewOpportunitiesRepository(dbCtx.DB)
	repo := NewAssociationsRepository(dbCtx.DB)
	ctx := context.Background()

	require.NoError(t, opportunities.Add(ctx, &entities.Opportunity{
		Title: "Backend Engineer", Company: "Acme", Department: "75",
	}))
	require.NoError(t, opportunities.Add(ctx, &entities.Opportunity{
		Title: "Sales Manager", Company: "Globex", Department: "92",
	}))

	require.NoError(t, repo.Create(ctx, &entities.Association{OpportunityID: 1, CandidateID: 1}))
	require.NoError(t, repo.Create(ctx, &entities.Association{OpportunityID: 2, CandidateID: 1}))

	count := composedCount(t, repo, filters.Request{Role: filters.RoleCandidate, Search: "bAcKeNd"})
	assert.Equal(t, int64(1), count)

	count = composedCount(t, repo, filters.Request{Role: filters.RoleCandidate, Search: "globex"})
	assert.Equal(t, int64(1), count)

	// no search text means no predicate, not an empty match
	count = composedCount(t, repo, filters.Request{Role: filters.RoleCandidate})
	assert.Equal(t, int64(2), count)
}

func Test_CountByScope_FilterKeysCombineWithAnd(t *testing.T) {

	dbCtx := newTestDb(t)
	opportunities := NewOpportunitiesRepository(dbCtx.DB)
	repo := NewAssociationsRepository(dbCtx.DB)
	ctx := context.Background()

	require.NoError(t, opportunities.Add(ctx, &entities.Opportunity{
		Title: "Backend Engineer", Department: "75", ContractType: "cdi", IsValidated: true,
	}))
	require.NoError(t, repo.Create(ctx, &entities.Association{
		OpportunityID: 1, CandidateID: 1, Status: entities.StatusContacted,
	}))

	count := composedCount(t, repo, filters.Request{
		Role:        filters.RoleAdmin,
		Tab:         filters.TabValidated,
		Departments: []string{"75", "92"},
		Statuses:    []entities.Status{entities.StatusContacted},
	})
	assert.Equal(t, int64(1), count)

	count = composedCount(t, repo, filters.Request{
		Role:        filters.RoleAdmin,
		Tab:         filters.TabValidated,
		Departments: []string{"13"},
		Statuses:    []entities.Status{entities.StatusContacted},
	})
	assert.Equal(t, int64(0), count)
}
