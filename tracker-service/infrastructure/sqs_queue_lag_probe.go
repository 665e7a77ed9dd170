package infrastructure

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/pkg/errors"
)

// SQSAttributesAPI is the part of the SQS client the probe needs
type SQSAttributesAPI interface {
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

// SQSQueueLagProbe reports how many messages are waiting in the tracker queue
type SQSQueueLagProbe struct {
	client   SQSAttributesAPI
	queueURL string
}

// NewSQSQueueLagProbe creates a new SQSQueueLagProbe
func NewSQSQueueLagProbe(client SQSAttributesAPI, queueURL string) *SQSQueueLagProbe {
	return &SQSQueueLagProbe{client: client, queueURL: queueURL}
}

// Lag returns the visible plus delayed message count. In flight messages are being
// handled and do not count.
func (p *SQSQueueLagProbe) Lag(ctx context.Context) (int64, error) {
	out, err := p.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl: aws.String(p.queueURL),
		AttributeNames: []types.QueueAttributeName{
			types.QueueAttributeNameApproximateNumberOfMessages,
			types.QueueAttributeNameApproximateNumberOfMessagesDelayed,
		},
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get queue attributes")
	}

	var lag int64
	for _, name := range []types.QueueAttributeName{
		types.QueueAttributeNameApproximateNumberOfMessages,
		types.QueueAttributeNameApproximateNumberOfMessagesDelayed,
	} {
		raw, ok := out.Attributes[string(name)]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid %s", name)
		}
		lag += n
	}
	return lag, nil
}
