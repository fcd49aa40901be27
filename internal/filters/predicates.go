package filters

import "github.com/talentwave/opportunity-engine/internal/entities"

// In-memory twins of the SQL fragments in statusCondition, kept as
// named functions so the bucket semantics stay unit-testable without a
// database.

// MatchesToProcessBucket reports whether the association belongs to the
// "needs attention" bucket: literally to-process, or flagged bookmarked
// or recommended whatever its stored status.
func MatchesToProcessBucket(a entities.Association) bool {
	return a.Status == entities.StatusToProcess || a.Bookmarked || a.Recommended
}

// MatchesStatus reports whether the association satisfies one requested
// status value, irregular buckets included.
func MatchesStatus(a entities.Association, s entities.Status) bool {
	switch s {
	case entities.StatusToProcess:
		return MatchesToProcessBucket(a)
	case entities.StatusRefusalBeforeInterview:
		// archived refusals still count as awaiting a reply
		return a.Status == entities.StatusRefusalBeforeInterview
	default:
		return a.Status == s && !a.Archived
	}
}

// MatchesAnyStatus is the OR over a requested status set. An empty set
// filters nothing out.
func MatchesAnyStatus(a entities.Association, statuses []entities.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if MatchesStatus(a, s) {
			return true
		}
	}
	return false
}
