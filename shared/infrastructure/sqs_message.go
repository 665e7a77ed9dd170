package infrastructure

import (
	"encoding/json"

	"github.com/draftea/saga-tracker/shared/events"
	"github.com/pkg/errors"
)

// snsNotification is the wrapper SNS puts around a message when raw delivery is off
type snsNotification struct {
	Type     string `json:"Type"`
	Message  string `json:"Message"`
	TopicArn string `json:"TopicArn"`
}

// DecodeSQSBody decodes an event envelope from an SQS body. Both raw bodies
// and SNS notifications wrapping the envelope are accepted.
func DecodeSQSBody(body string) (*events.Event, error) {
	if body == "" {
		return nil, errors.New("empty message body")
	}

	var notification snsNotification
	if err := json.Unmarshal([]byte(body), &notification); err == nil &&
		notification.Type == "Notification" && notification.Message != "" {
		body = notification.Message
	}

	event, err := events.FromJSON([]byte(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode event envelope")
	}
	return event, nil
}
