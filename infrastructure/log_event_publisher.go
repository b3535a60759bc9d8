package infrastructure

import (
	"guildbank/events"

	log "github.com/sirupsen/logrus"
)

// LogEventPublisher writes every domain event to the structured log. It is
// the default publisher for the bot process; a broker-backed publisher could
// replace it without touching the services.
type LogEventPublisher struct{}

// NewLogEventPublisher creates a new logging event publisher
func NewLogEventPublisher() *LogEventPublisher {
	return &LogEventPublisher{}
}

// Publish logs the event with its type and payload
func (p *LogEventPublisher) Publish(event events.Event) error {
	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"event":     event,
	}).Debug("Domain event published")
	return nil
}
