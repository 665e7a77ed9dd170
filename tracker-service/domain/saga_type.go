package domain

import "github.com/pkg/errors"

// SagaType represents the kind of workflow a saga executes
type SagaType string

const (
	SagaTypeOrderCreation     SagaType = "ORDER_CREATION"
	SagaTypePaymentCompletion SagaType = "PAYMENT_COMPLETION"
)

// AllSagaTypes returns every saga type in declaration order
func AllSagaTypes() []SagaType {
	return []SagaType{SagaTypeOrderCreation, SagaTypePaymentCompletion}
}

// ParseSagaType converts raw input into a SagaType
func ParseSagaType(raw string) (SagaType, error) {
	sagaType := SagaType(raw)
	if !sagaType.IsValid() {
		return "", errors.Wrapf(ErrValidation, "unknown saga type %q", raw)
	}
	return sagaType, nil
}

// IsValid reports whether t is one of the known saga types
func (t SagaType) IsValid() bool {
	return t == SagaTypeOrderCreation || t == SagaTypePaymentCompletion
}

func (t SagaType) String() string {
	return string(t)
}
