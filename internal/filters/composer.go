package filters

import (
	"fmt"
	"strings"

	"github.com/talentwave/opportunity-engine/internal/entities"
	"gorm.io/gorm"
)

// Scope is an opaque predicate over association rows; the store applies
// it without inspecting it. Different filter keys AND together, the
// accepted values of one key OR together.
type Scope func(*gorm.DB) *gorm.DB

// Compose turns a validated request into one Scope.
func Compose(req Request) (Scope, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter request: %w", err)
	}

	var scopes []Scope

	if needsOpportunityJoin(req) {
		scopes = append(scopes, joinOpportunities)
	}
	if len(req.Statuses) > 0 {
		scopes = append(scopes, StatusScope(req.Statuses))
	}
	if req.Tab != "" {
		scopes = append(scopes, tabScope(req))
	}
	if len(req.Departments) > 0 {
		scopes = append(scopes, opportunityValuesScope("opportunities.department", req.Departments))
	}
	if len(req.ContractTypes) > 0 {
		scopes = append(scopes, opportunityValuesScope("opportunities.contract_type", req.ContractTypes))
	}
	if len(req.BusinessLines) > 0 {
		scopes = append(scopes, businessLineScope(req.BusinessLines))
	}
	if req.PublicOnly {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("opportunities.is_public = ?", true)
		})
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		scopes = append(scopes, SearchScope(search))
	}

	return func(db *gorm.DB) *gorm.DB {
		for _, scope := range scopes {
			db = scope(db)
		}
		return db
	}, nil
}

// StatusScope builds the OR-group for the requested statuses, with the
// two documented irregularities handled by statusCondition.
func StatusScope(statuses []entities.Status) Scope {
	var fragments []string
	var args []any
	for _, s := range statuses {
		sql, conditionArgs := statusCondition(s)
		fragments = append(fragments, sql)
		args = append(args, conditionArgs...)
	}
	sql := "(" + strings.Join(fragments, " OR ") + ")"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(sql, args...)
	}
}

// statusCondition maps one requested status to its SQL fragment.
//
// Two buckets do not read literally:
//   - toProcess means "needs attention": bookmarked or recommended rows
//     qualify whatever their stored status is;
//   - refusalBeforeInterview still counts when the recruiter archived
//     it, since the candidate is conceptually awaiting a reply.
//
// Every other status excludes archived rows.
func statusCondition(s entities.Status) (string, []any) {
	switch s {
	case entities.StatusToProcess:
		return "(associations.status = ? OR associations.bookmarked = ? OR associations.recommended = ?)",
			[]any{entities.StatusToProcess, true, true}
	case entities.StatusRefusalBeforeInterview:
		return "(associations.status = ?)", []any{s}
	default:
		return "(associations.status = ? AND associations.archived = ?)", []any{s, false}
	}
}

// SearchScope matches the free text case-insensitively against the
// opportunity title and company. An empty search never reaches here:
// absence of search contributes no predicate at all.
func SearchScope(search string) Scope {
	pattern := "%" + strings.ToLower(search) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(opportunities.title) LIKE ? OR LOWER(opportunities.company) LIKE ?",
			pattern, pattern)
	}
}

func tabScope(req Request) Scope {
	if req.Role == RoleCandidate {
		// candidate tabs slice the caller's own associations
		archived := req.Tab == TabArchived
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("associations.archived = ?", archived)
		}
	}
	return func(db *gorm.DB) *gorm.DB {
		switch req.Tab {
		case TabPending:
			return db.Where("opportunities.is_validated = ? AND opportunities.is_archived = ?", false, false)
		case TabValidated:
			return db.Where("opportunities.is_validated = ? AND opportunities.is_archived = ?", true, false)
		case TabExternal:
			return db.Where("opportunities.is_external = ?", true)
		case TabArchived:
			return db.Where("opportunities.is_archived = ?", true)
		}
		return db
	}
}

func opportunityValuesScope(column string, values []string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" IN ?", values)
	}
}

func businessLineScope(names []string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN opportunity_business_lines ON opportunity_business_lines.opportunity_id = associations.opportunity_id").
			Joins("JOIN business_lines ON business_lines.id = opportunity_business_lines.business_line_id").
			Where("business_lines.name IN ?", names)
	}
}

func joinOpportunities(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN opportunities ON opportunities.id = associations.opportunity_id")
}

func needsOpportunityJoin(req Request) bool {
	if strings.TrimSpace(req.Search) != "" || req.PublicOnly {
		return true
	}
	if len(req.Departments) > 0 || len(req.ContractTypes) > 0 {
		return true
	}
	return req.Tab != "" && req.Role == RoleAdmin
}
