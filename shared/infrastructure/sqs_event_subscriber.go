package infrastructure

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/draftea/saga-tracker/shared/events"
	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

const (
	SQSMessageIDKey     = "sqs_message_id"
	SQSReceiptHandleKey = "sqs_receipt_handle"
	SQSReceiveCountKey  = "sqs_receive_count"
)

// SQSAPI is the subset of the SQS client used by the subscriber and the lag probe
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

var _ SQSAPI = (*sqs.Client)(nil)

type sqsMessage struct {
	Message      types.Message
	Event        *events.Event
	ReceiveCount int
	Err          error
}

// EventHandler wraps the Event Handler interface
type EventHandler interface {
	HandlerID() string
	Handle(ctx context.Context, event *events.Event) error
}

// SQSEventSubscriber implements event subscription using AWS SQS.
// A message is deleted only after its handler returned nil.
type SQSEventSubscriber struct {
	mux              sync.RWMutex
	inboundMessages  chan *sqsMessage
	outboundMessages chan *sqsMessage
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	running          atomic.Bool
	options          *sqsSubscriberOptions

	client   SQSAPI
	queueURL string
	handler  EventHandler
}

type sqsSubscriberOptions struct {
	name                           string
	workers                        int32
	readers                        int32
	cleaners                       int32
	maxNumberOfMessages            int32
	waitTimeSeconds                int32
	visibilityTimeout              int32
	sleepTimeAfterEmptyReceive     time.Duration
	sleepTimeAfterError            time.Duration
	ack                            bool
	extendVisibilityTimeoutOnError bool
	receiveCountRange              int32
	visibilityTimeoutOffset        int32
	maxVisibilityTimeout           int32
	maxReceiveCount                int
	deadLetter                     DeadLetterHandler
	logger                         *slog.Logger
}

type SQSSubscriberOption func(*sqsSubscriberOptions)

func WithName(name string) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.name = name
	}
}

func WithWorkers(workers int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.workers = workers
	}
}

func WithReaders(readers int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.readers = readers
	}
}

func WithVisibilityTimeout(timeout int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.visibilityTimeout = timeout
	}
}

func WithWaitTimeSeconds(seconds int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.waitTimeSeconds = seconds
	}
}

func WithPollBackoff(afterEmpty, afterError time.Duration) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.sleepTimeAfterEmptyReceive = afterEmpty
		o.sleepTimeAfterError = afterError
	}
}

// WithMaxReceiveCount dead-letters a failing message once it was received n times.
// Zero leaves redelivery to the queue's own redrive policy.
func WithMaxReceiveCount(n int) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.maxReceiveCount = n
	}
}

func WithDeadLetterHandler(handler DeadLetterHandler) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.deadLetter = handler
	}
}

func WithLogger(logger *slog.Logger) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.logger = logger
	}
}

// NewSQSEventSubscriber creates a new SQS event subscriber
func NewSQSEventSubscriber(
	client SQSAPI,
	queueURL string,
	handler EventHandler,
	opts ...SQSSubscriberOption,
) *SQSEventSubscriber {
	options := &sqsSubscriberOptions{
		name:                           "sqs",
		workers:                        30,
		readers:                        1,
		cleaners:                       2,
		maxNumberOfMessages:            5,
		waitTimeSeconds:                15,
		visibilityTimeout:              30,
		sleepTimeAfterEmptyReceive:     10 * time.Second,
		sleepTimeAfterError:            20 * time.Second,
		ack:                            true,
		extendVisibilityTimeoutOnError: true,
		receiveCountRange:              3,
		visibilityTimeoutOffset:        30,
		maxVisibilityTimeout:           900, // 15 minutes
		maxReceiveCount:                3,
		logger:                         slog.Default(),
	}

	for _, opt := range opts {
		opt(options)
	}

	return &SQSEventSubscriber{
		client:   client,
		queueURL: queueURL,
		handler:  handler,
		options:  options,
	}
}

// Start starts the SQS subscriber. Goroutines run until ctx is done or Stop is called.
func (s *SQSEventSubscriber) Start(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.running.Load() {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.inboundMessages = make(chan *sqsMessage, 10)
	s.outboundMessages = make(chan *sqsMessage, 10)
	s.cancel = cancel

	s.spawn(ctx, s.options.workers, s.startWorker)
	s.spawn(ctx, s.options.readers, s.startReader)
	s.spawn(ctx, s.options.cleaners, s.startCleaner)

	s.running.Store(true)
	s.options.logger.InfoContext(ctx, "sqs subscriber started",
		slog.String("subscriber", s.options.name),
		slog.String("queue_url", s.queueURL),
		slog.Int("workers", int(s.options.workers)),
	)

	return nil
}

func (s *SQSEventSubscriber) spawn(ctx context.Context, n int32, fn func(ctx context.Context)) {
	for i := 0; i < int(n); i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			fn(ctx)
		}()
	}
}

// Stop stops the SQS subscriber and waits for its goroutines until ctx is done.
// Channels are never closed so in-flight sends cannot panic.
func (s *SQSEventSubscriber) Stop(ctx context.Context) error {
	s.mux.Lock()
	if !s.running.Load() {
		s.mux.Unlock()
		return nil
	}
	s.cancel()
	s.cancel = nil
	s.running.Store(false)
	s.mux.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.options.logger.InfoContext(ctx, "sqs subscriber stopped", slog.String("subscriber", s.options.name))
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "timed out waiting for sqs subscriber to stop")
	}
}

// Running reports whether the subscriber was started and not stopped
func (s *SQSEventSubscriber) Running() bool {
	return s.running.Load()
}

func (s *SQSEventSubscriber) startWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-s.inboundMessages:
			s.handle(ctx, message)
		}
	}
}

func (s *SQSEventSubscriber) startReader(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		empty, err := s.read(ctx)
		switch {
		case err != nil:
			if ctx.Err() == nil {
				s.options.logger.ErrorContext(ctx, "failed to read from sqs",
					slog.String("subscriber", s.options.name),
					slog.String("error", err.Error()),
				)
			}
			sleep(ctx, s.options.sleepTimeAfterError)
		case empty:
			sleep(ctx, s.options.sleepTimeAfterEmptyReceive)
		}
	}
}

func (s *SQSEventSubscriber) startCleaner(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-s.outboundMessages:
			if err := s.clean(ctx, message); err != nil {
				s.options.logger.ErrorContext(ctx, "failed to settle sqs message",
					slog.String("subscriber", s.options.name),
					slog.String("message_id", aws.ToString(message.Message.MessageId)),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

func (s *SQSEventSubscriber) read(ctx context.Context) (bool, error) {
	output, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.queueURL),
		MaxNumberOfMessages: s.options.maxNumberOfMessages,
		WaitTimeSeconds:     s.options.waitTimeSeconds,
		VisibilityTimeout:   s.options.visibilityTimeout,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
			types.MessageSystemAttributeNameApproximateFirstReceiveTimestamp,
		},
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to receive message from SQS")
	}

	if len(output.Messages) == 0 {
		return true, nil
	}

	for _, message := range output.Messages {
		msg := &sqsMessage{
			Message:      message,
			ReceiveCount: receiveCount(message),
		}

		event, err := DecodeSQSBody(aws.ToString(message.Body))
		if err != nil {
			// malformed bodies skip the handler and go straight to settlement
			msg.Err = events.Permanent(err)
			if !s.send(ctx, s.outboundMessages, msg) {
				return false, ctx.Err()
			}
			continue
		}

		event.Metadata.Set(SQSMessageIDKey, aws.ToString(message.MessageId))
		event.Metadata.Set(SQSReceiveCountKey, strconv.Itoa(msg.ReceiveCount))
		if message.ReceiptHandle != nil {
			event.Metadata.Set(SQSReceiptHandleKey, *message.ReceiptHandle)
		}

		for k, v := range message.MessageAttributes {
			if v.StringValue != nil {
				event.Metadata.Set(k, *v.StringValue)
			}
		}

		msg.Event = event
		if !s.send(ctx, s.inboundMessages, msg) {
			return false, ctx.Err()
		}
	}

	return false, nil
}

func (s *SQSEventSubscriber) send(ctx context.Context, ch chan<- *sqsMessage, message *sqsMessage) bool {
	select {
	case ch <- message:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *SQSEventSubscriber) handle(ctx context.Context, message *sqsMessage) {
	s.mux.RLock()
	handler := s.handler
	s.mux.RUnlock()

	if handler == nil {
		message.Err = errors.New("no handler configured")
	} else {
		message.Err = handler.Handle(ctx, message.Event)
	}

	s.send(ctx, s.outboundMessages, message)
}

func (s *SQSEventSubscriber) clean(ctx context.Context, message *sqsMessage) error {
	if message.Err == nil {
		s.recordOutcome(ctx, "acked")
		return s.ack(ctx, message)
	}

	if reason, ok := s.deadLetterReason(message); ok {
		if err := s.options.deadLetter.DeadLetter(ctx, newDeadLetter(message, reason)); err != nil {
			s.extendVisibility(ctx, message)
			return errors.Wrap(err, "failed to dead-letter message")
		}
		s.options.logger.WarnContext(ctx, "sqs message dead-lettered",
			slog.String("subscriber", s.options.name),
			slog.String("message_id", aws.ToString(message.Message.MessageId)),
			slog.Int("receive_count", message.ReceiveCount),
			slog.String("reason", reason),
		)
		s.recordOutcome(ctx, "dead_lettered")
		return s.ack(ctx, message)
	}

	s.options.logger.WarnContext(ctx, "sqs message will be redelivered",
		slog.String("subscriber", s.options.name),
		slog.String("message_id", aws.ToString(message.Message.MessageId)),
		slog.Int("receive_count", message.ReceiveCount),
		slog.String("error", message.Err.Error()),
	)
	s.recordOutcome(ctx, "retried")
	return s.extendVisibility(ctx, message)
}

func (s *SQSEventSubscriber) deadLetterReason(message *sqsMessage) (string, bool) {
	if s.options.deadLetter == nil {
		return "", false
	}
	if events.IsPermanent(message.Err) {
		return message.Err.Error(), true
	}
	if s.options.maxReceiveCount > 0 && message.ReceiveCount >= s.options.maxReceiveCount {
		return "max receive count reached: " + message.Err.Error(), true
	}
	return "", false
}

func (s *SQSEventSubscriber) ack(ctx context.Context, message *sqsMessage) error {
	if !s.options.ack {
		return nil
	}

	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: message.Message.ReceiptHandle,
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete message from SQS")
	}
	return nil
}

func (s *SQSEventSubscriber) extendVisibility(ctx context.Context, message *sqsMessage) error {
	if !s.options.extendVisibilityTimeoutOnError {
		return nil
	}

	visibilityTimeout := s.options.visibilityTimeout
	visibilityTimeout += (int32(message.ReceiveCount) / s.options.receiveCountRange) * s.options.visibilityTimeoutOffset

	if visibilityTimeout > s.options.maxVisibilityTimeout {
		visibilityTimeout = s.options.maxVisibilityTimeout
	}

	_, err := s.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
		QueueUrl:          aws.String(s.queueURL),
		ReceiptHandle:     message.Message.ReceiptHandle,
		VisibilityTimeout: visibilityTimeout,
	})
	if err != nil {
		return errors.Wrap(err, "failed to extend visibility timeout")
	}
	return nil
}

func (s *SQSEventSubscriber) recordOutcome(ctx context.Context, outcome string) {
	telemetry.RecordCounter(ctx, "sqs_messages_settled_total", "SQS messages settled by outcome", 1,
		attribute.String("subscriber", s.options.name),
		attribute.String("outcome", outcome),
	)
}

func receiveCount(message types.Message) int {
	count, err := strconv.Atoi(message.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)])
	if err != nil || count < 1 {
		return 1
	}
	return count
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
