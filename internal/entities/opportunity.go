package entities

import "time"

type Opportunity struct {
	ID            int `gorm:"primaryKey"`
	Title         string
	Company       string
	Department    string
	ContractType  string
	IsPublic      bool
	IsValidated   bool
	IsArchived    bool
	IsExternal    bool
	BusinessLines []BusinessLine `gorm:"many2many:opportunity_business_lines"`
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type BusinessLine struct {
	ID    int `gorm:"primaryKey"`
	Name  string
	Order int
}

// OpportunityPatch carries the mutable subset of an opportunity. Nil
// fields are left untouched. Once an opportunity is validated, only
// business lines and the archival/validation flags may still change.
type OpportunityPatch struct {
	Title         *string
	Company       *string
	Department    *string
	ContractType  *string
	IsPublic      *bool
	IsValidated   *bool
	IsArchived    *bool
	IsExternal    *bool
	BusinessLines []BusinessLine
}
