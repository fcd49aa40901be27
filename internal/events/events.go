package events

import "github.com/talentwave/opportunity-engine/internal/entities"

var AssociationCreatedTopic = "AssociationCreatedEvent"

// AssociationCreated fires after a reconcile commits, once per
// association that was newly created, restored or newly recommended.
type AssociationCreated struct {
	Association entities.Association
	Opportunity entities.Opportunity
}

var OpportunityValidatedTopic = "OpportunityValidatedEvent"

// OpportunityValidated fires when an opportunity's validation flag
// flips on.
type OpportunityValidated struct {
	Opportunity entities.Opportunity
}
