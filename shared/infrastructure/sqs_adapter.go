package infrastructure

import (
	"context"
	"time"

	"github.com/draftea/saga-tracker/shared/events"
	"github.com/pkg/errors"
)

var _ events.Subscriber = (*SQSSubscriberAdapter)(nil)

// SQSSubscriberAdapter adapts SQSEventSubscriber to work with events.Subscriber interface
type SQSSubscriberAdapter struct {
	sqsSubscriber *SQSEventSubscriber
	client        SQSAPI
	queueURL      string
	options       []SQSSubscriberOption
}

// NewSQSSubscriberAdapter creates a new SQS subscriber adapter
func NewSQSSubscriberAdapter(client SQSAPI, queueURL string, opts ...SQSSubscriberOption) *SQSSubscriberAdapter {
	return &SQSSubscriberAdapter{
		client:   client,
		queueURL: queueURL,
		options:  opts,
	}
}

// eventHandlerAdapter adapts events.EventHandler to work with SQS EventHandler
type eventHandlerAdapter struct {
	id      string
	handler events.EventHandler
}

func (a *eventHandlerAdapter) HandlerID() string {
	return a.id
}

func (a *eventHandlerAdapter) Handle(ctx context.Context, event *events.Event) error {
	return a.handler.Handle(ctx, event)
}

// Subscribe implements events.Subscriber interface. Delivery runs in the
// background until ctx is done or Close is called.
func (s *SQSSubscriberAdapter) Subscribe(ctx context.Context, handler events.EventHandler) error {
	if s.sqsSubscriber != nil && s.sqsSubscriber.Running() {
		return errors.New("subscriber is already running")
	}

	adaptedHandler := &eventHandlerAdapter{id: s.queueURL, handler: handler}
	s.sqsSubscriber = NewSQSEventSubscriber(s.client, s.queueURL, adaptedHandler, s.options...)

	if err := s.sqsSubscriber.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start SQS subscriber")
	}

	return nil
}

// Close stops the subscriber
func (s *SQSSubscriberAdapter) Close() error {
	if s.sqsSubscriber == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.sqsSubscriber.Stop(ctx); err != nil {
		return errors.Wrap(err, "failed to stop SQS subscriber")
	}

	return nil
}
