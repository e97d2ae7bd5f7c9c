package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Event types published after a change has been persisted.
const (
	EventUserRegistered          = "user.registered"
	EventCollectionCreated       = "collection.created"
	EventCollectionStatusChanged = "collection.status_changed"
	EventPointsAwarded           = "points.awarded"
	EventCouponRedeemed          = "coupon.redeemed"
)

// Publisher delivers serialized events to a broker.
type Publisher interface {
	Publish(eventType string, body []byte) error
}

// Event is the envelope written to the broker.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// publishEvent never fails the caller: the change is already stored, so a broker outage is only
// logged.
func publishEvent(publisher Publisher, eventType string, data any) {
	if publisher == nil {
		return
	}
	body, err := json.Marshal(Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to marshal event")
		return
	}
	if err := publisher.Publish(eventType, body); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
		return
	}
	log.Debug().Str("event", eventType).Msg("event published")
}
