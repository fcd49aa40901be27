package services

import (
	"context"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/talentwave/opportunity-engine/internal/events"
	"github.com/talentwave/opportunity-engine/internal/logger"
)

// Notifier turns domain events into gateway calls. Dispatch is
// fire-and-forget: a delivery failure is logged and swallowed, it never
// reaches the transaction that produced the event.
type Notifier struct {
	dispatch notificationDispatch
}

func NewNotifier(bus EventBus.Bus, dispatch notificationDispatch) (*Notifier, error) {

	n := &Notifier{dispatch: dispatch}

	err := bus.Subscribe(events.AssociationCreatedTopic, n.onAssociationCreated)
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (n *Notifier) onAssociationCreated(event events.AssociationCreated) {
	err := n.dispatch.NotifyCandidateOfOpportunity(context.Background(),
		event.Association.CandidateID, event.Opportunity.ID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDispatch).
			Errorf("failed to notify candidate %v of opportunity %v: %v",
				event.Association.CandidateID, event.Opportunity.ID, err)
	}
}
