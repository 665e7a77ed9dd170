package infrastructure

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/draftea/saga-tracker/shared/events"
	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var _ events.Publisher = (*SNSEventPublisher)(nil)

const maxBatchSize = 10

// SNSAPI is the subset of the SNS client used by the publisher
type SNSAPI interface {
	PublishBatch(ctx context.Context, params *sns.PublishBatchInput, optFns ...func(*sns.Options)) (*sns.PublishBatchOutput, error)
}

var _ SNSAPI = (*sns.Client)(nil)

// SNSEventPublisher implements events.Publisher using AWS SNS.
// The message body is the JSON envelope, so SQS subscribers decode it with DecodeSQSBody.
type SNSEventPublisher struct {
	client   SNSAPI
	topicArn string
}

// NewSNSEventPublisher creates a new SNSEventPublisher
func NewSNSEventPublisher(client SNSAPI, topicArn string) *SNSEventPublisher {
	return &SNSEventPublisher{
		client:   client,
		topicArn: topicArn,
	}
}

// Publish publishes events to SNS
func (p *SNSEventPublisher) Publish(ctx context.Context, evts ...*events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	// Split into batches
	batchEvents := splitToChunks(evts, maxBatchSize)

	gr, ctx := errgroup.WithContext(ctx)

	for _, eventBatch := range batchEvents {
		eventBatch := eventBatch
		gr.Go(func() error {
			return p.batchPublish(ctx, eventBatch)
		})
	}

	return gr.Wait()
}

func (p *SNSEventPublisher) batchPublish(ctx context.Context, batch []*events.Event) error {
	requests := make([]types.PublishBatchRequestEntry, len(batch))

	for i, event := range batch {
		msgJson, err := transportSafe(event).ToJSON()
		if err != nil {
			return errors.Wrap(err, "failed to marshal message")
		}

		attrs := map[string]types.MessageAttributeValue{
			"topic": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Topic)),
			},
		}

		for k, v := range event.Metadata {
			if isTransportKey(k) || v == "" {
				continue
			}

			attrs[k] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(v),
			}
		}

		requests[i] = types.PublishBatchRequestEntry{
			Id:                aws.String(event.ID.String()),
			Message:           aws.String(string(msgJson)),
			MessageAttributes: attrs,
		}
	}

	res, err := p.client.PublishBatch(
		ctx,
		&sns.PublishBatchInput{
			TopicArn:                   &p.topicArn,
			PublishBatchRequestEntries: requests,
		},
	)
	if err != nil {
		return errors.Wrap(err, "failed to publish batch to SNS")
	}

	failed := make([]string, 0, len(res.Failed))
	for _, entry := range res.Failed {
		failed = append(failed, aws.ToString(entry.Id)+": "+aws.ToString(entry.Message))
	}

	for _, event := range batch {
		telemetry.RecordCounter(ctx, "events_published_total", "Total events published", 1,
			attribute.String("topic", event.Topic.String()),
		)
	}

	if len(failed) > 0 {
		return errors.Errorf("failed to publish %d of %d events: %s", len(failed), len(batch), strings.Join(failed, "; "))
	}

	return nil
}

// transportSafe drops receipt handles and other delivery details before re-publishing
func transportSafe(event *events.Event) *events.Event {
	clone := *event
	clone.Metadata = make(events.Metadata, len(event.Metadata))
	for k, v := range event.Metadata {
		if !isTransportKey(k) {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

func isTransportKey(key string) bool {
	return key == SQSMessageIDKey || key == SQSReceiptHandleKey || key == SQSReceiveCountKey
}

// splitToChunks splits slice into chunks of specified size
func splitToChunks[T any](slice []T, chunkSize int) [][]T {
	var chunks [][]T
	for i := 0; i < len(slice); i += chunkSize {
		end := i + chunkSize
		if end > len(slice) {
			end = len(slice)
		}
		chunks = append(chunks, slice[i:end])
	}
	return chunks
}
