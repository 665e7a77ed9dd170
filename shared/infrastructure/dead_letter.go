package infrastructure

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/draftea/saga-tracker/shared/events"
	"github.com/draftea/saga-tracker/shared/models"
	"github.com/pkg/errors"
)

// DeadLetter describes a message the subscriber gave up on
type DeadLetter struct {
	MessageID    string        `json:"message_id"`
	Body         string        `json:"body"`
	Event        *events.Event `json:"event,omitempty"`
	Reason       string        `json:"reason"`
	ReceiveCount int           `json:"receive_count"`
	FailedAt     time.Time     `json:"failed_at"`
}

// DeadLetterHandler parks messages that cannot be processed
type DeadLetterHandler interface {
	DeadLetter(ctx context.Context, letter *DeadLetter) error
}

func newDeadLetter(message *sqsMessage, reason string) *DeadLetter {
	return &DeadLetter{
		MessageID:    aws.ToString(message.Message.MessageId),
		Body:         aws.ToString(message.Message.Body),
		Event:        message.Event,
		Reason:       reason,
		ReceiveCount: message.ReceiveCount,
		FailedAt:     time.Now().UTC(),
	}
}

// DeadLetterPublisher publishes dead letters on a dead-letter topic
type DeadLetterPublisher struct {
	publisher events.Publisher
	topic     events.Topic
}

// NewDeadLetterPublisher creates a publisher writing to topic
func NewDeadLetterPublisher(publisher events.Publisher, topic events.Topic) *DeadLetterPublisher {
	return &DeadLetterPublisher{
		publisher: publisher,
		topic:     topic,
	}
}

// DeadLetter implements DeadLetterHandler
func (p *DeadLetterPublisher) DeadLetter(ctx context.Context, letter *DeadLetter) error {
	aggregateID := models.ID(letter.MessageID)
	if letter.Event != nil && !letter.Event.AggregateID.IsZero() {
		aggregateID = letter.Event.AggregateID
	}

	envelope := events.NewEventWithTopic(aggregateID, p.topic, letter).
		WithMetadata("dead_letter_reason", truncate(letter.Reason, 256)).
		WithMetadata("source_message_id", letter.MessageID).
		WithMetadata("receive_count", strconv.Itoa(letter.ReceiveCount))
	if letter.Event != nil {
		envelope.WithCorrelationID(letter.Event.CorrelationID)
	}

	if err := p.publisher.Publish(ctx, envelope); err != nil {
		return errors.Wrapf(err, "failed to publish dead letter for message %s", letter.MessageID)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
