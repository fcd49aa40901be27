package repositories

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/talentwave/opportunity-engine/internal/entities"
)

type candidateRepository interface {
	GetByID(ctx context.Context, id int) (*entities.Candidate, error)
}

// CachedCandidates is a read-through cache over the candidate
// directory; the engine only resolves candidates by id and they change
// rarely enough for a short TTL.
type CachedCandidates struct {
	repo  candidateRepository
	cache *gocache.Cache
}

func NewCachedCandidates(repo candidateRepository) *CachedCandidates {
	return &CachedCandidates{repo: repo, cache: gocache.New(10*time.Minute, 20*time.Minute)}
}

func (c CachedCandidates) GetByID(ctx context.Context, id int) (*entities.Candidate, error) {
	if value, found := c.cache.Get(cacheKey(id)); found {
		candidate := value.(entities.Candidate)
		return &candidate, nil
	}

	candidate, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = c.cache.Add(cacheKey(id), *candidate, gocache.DefaultExpiration); err != nil {
		return candidate, err
	}
	return candidate, nil
}

func cacheKey(id int) string {
	return "candidate:" + strconv.Itoa(id)
}
