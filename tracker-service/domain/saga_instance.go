package domain

import (
	"time"

	"github.com/draftea/saga-tracker/shared/models"
)

// SagaInstance is the aggregate tracked for every saga execution
type SagaInstance struct {
	SagaID        models.ID
	SagaType      SagaType
	OrderID       models.ID
	CurrentStatus SagaStatus
	LastStep      string
	LastTraceID   *string
	StartedAt     time.Time
	Timestamps    models.Timestamps
	Version       models.Version
}

// Clone returns a deep copy of the instance
func (s *SagaInstance) Clone() *SagaInstance {
	if s == nil {
		return nil
	}
	clone := *s
	if s.LastTraceID != nil {
		traceID := *s.LastTraceID
		clone.LastTraceID = &traceID
	}
	return &clone
}

// IsNew reports whether the instance has never been stored
func (s *SagaInstance) IsNew() bool {
	return s.Version.Previous() == 0
}

// SagaDetail is an instance together with the number of steps recorded for it,
// both read from the same snapshot
type SagaDetail struct {
	Instance  *SagaInstance
	StepCount int64
}

// SagaHistory is an instance together with its steps ordered by RecordedAt
type SagaHistory struct {
	Instance *SagaInstance
	Steps    []*SagaStep
}

// SagaPage is one page of a search
type SagaPage struct {
	Content       []*SagaDetail
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewSagaPage builds a page and derives TotalPages from the total element count
func NewSagaPage(content []*SagaDetail, number, size int, totalElements int64) *SagaPage {
	if content == nil {
		content = []*SagaDetail{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}
	return &SagaPage{
		Content:       content,
		Number:        number,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
	}
}
