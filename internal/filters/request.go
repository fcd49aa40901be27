package filters

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/talentwave/opportunity-engine/internal/entities"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCandidate Role = "candidate"
)

// Admin tabs slice the opportunity universe; candidate views slice the
// caller's associations.
const (
	TabPending   = "pending"
	TabValidated = "validated"
	TabExternal  = "external"
	TabArchived  = "archived"
)

// Request is the transient set of filters behind one list or count
// call. It is composed into a single predicate and never persisted.
type Request struct {
	Role          Role   `validate:"required,oneof=admin candidate"`
	Tab           string `validate:"omitempty,oneof=pending validated external archived"`
	Search        string
	Departments   []string
	BusinessLines []string
	Statuses      []entities.Status
	ContractTypes []string
	PublicOnly    bool
	Offset        int `validate:"gte=0"`
	Limit         int `validate:"gte=0"`
}

var validate = validator.New()

func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	for _, s := range r.Statuses {
		if !s.Known() {
			return fmt.Errorf("unknown status in filter: %v", int(s))
		}
	}
	return nil
}
