package domain

import (
	"github.com/pkg/errors"
)

// SagaStatus represents the status reported by a step and the derived status of a saga
type SagaStatus string

const (
	SagaStatusStarted     SagaStatus = "STARTED"
	SagaStatusInProgress  SagaStatus = "IN_PROGRESS"
	SagaStatusCompleted   SagaStatus = "COMPLETED"
	SagaStatusFailed      SagaStatus = "FAILED"
	SagaStatusCompensated SagaStatus = "COMPENSATED"
)

// AllSagaStatuses returns every status in declaration order
func AllSagaStatuses() []SagaStatus {
	return []SagaStatus{
		SagaStatusStarted,
		SagaStatusInProgress,
		SagaStatusCompleted,
		SagaStatusFailed,
		SagaStatusCompensated,
	}
}

// ParseSagaStatus converts raw input into a SagaStatus
func ParseSagaStatus(raw string) (SagaStatus, error) {
	status := SagaStatus(raw)
	if !status.IsValid() {
		return "", errors.Wrapf(ErrValidation, "unknown saga status %q", raw)
	}
	return status, nil
}

// IsValid reports whether s is one of the known statuses
func (s SagaStatus) IsValid() bool {
	switch s {
	case SagaStatusStarted, SagaStatusInProgress, SagaStatusCompleted, SagaStatusFailed, SagaStatusCompensated:
		return true
	}
	return false
}

// IsTerminal reports whether s ends a saga's normal lifecycle
func (s SagaStatus) IsTerminal() bool {
	return s == SagaStatusCompleted || s == SagaStatusFailed || s == SagaStatusCompensated
}

func (s SagaStatus) String() string {
	return string(s)
}

// NextStatus folds an incoming step status into the current saga status.
// A STARTED step never moves a saga, every other status replaces the current one.
// Terminal statuses are not sticky.
func NextStatus(current, incoming SagaStatus) SagaStatus {
	switch incoming {
	case SagaStatusInProgress, SagaStatusCompleted, SagaStatusFailed, SagaStatusCompensated:
		return incoming
	default:
		return current
	}
}

// IsLateTransition reports whether moving from a terminal status to to is
// unexpected. FAILED followed by COMPENSATED is the normal recovery path.
func IsLateTransition(from, to SagaStatus) bool {
	if !from.IsTerminal() || from == to {
		return false
	}
	return !(from == SagaStatusFailed && to == SagaStatusCompensated)
}
