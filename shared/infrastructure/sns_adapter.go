package infrastructure

import (
	"context"

	"github.com/draftea/saga-tracker/shared/events"
	"github.com/pkg/errors"
)

var _ events.Publisher = (*SNSPublisherAdapter)(nil)

// SNSPublisherAdapter routes events to SNS topics by event topic
type SNSPublisherAdapter struct {
	publishers map[events.Topic]*SNSEventPublisher
}

// NewSNSPublisherAdapter creates a new SNS publisher adapter. topicArns maps
// event topics to SNS topic ARNs.
func NewSNSPublisherAdapter(client SNSAPI, topicArns map[events.Topic]string) *SNSPublisherAdapter {
	publishers := make(map[events.Topic]*SNSEventPublisher, len(topicArns))
	for topic, arn := range topicArns {
		if arn == "" {
			continue
		}
		publishers[topic] = NewSNSEventPublisher(client, arn)
	}

	return &SNSPublisherAdapter{
		publishers: publishers,
	}
}

// Publish implements events.Publisher interface
func (p *SNSPublisherAdapter) Publish(ctx context.Context, evts ...*events.Event) error {
	byTopic := make(map[events.Topic][]*events.Event)
	for _, event := range evts {
		if _, ok := p.publishers[event.Topic]; !ok {
			return errors.Errorf("no SNS topic configured for %s", event.Topic)
		}
		byTopic[event.Topic] = append(byTopic[event.Topic], event)
	}

	for topic, batch := range byTopic {
		if err := p.publishers[topic].Publish(ctx, batch...); err != nil {
			return errors.Wrapf(err, "failed to publish to %s", topic)
		}
	}

	return nil
}

// Close closes the publisher
func (p *SNSPublisherAdapter) Close() error {
	// SNS client doesn't need explicit closing
	return nil
}
