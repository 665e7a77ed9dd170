package application

import (
	"time"

	"github.com/draftea/saga-tracker/tracker-service/domain"
)

const timeLayout = time.RFC3339Nano

// SagaResponse represents a saga instance in query responses
type SagaResponse struct {
	SagaID        string  `json:"sagaId"`
	SagaType      string  `json:"sagaType"`
	OrderID       string  `json:"orderId"`
	CurrentStatus string  `json:"currentStatus"`
	LastStep      string  `json:"lastStep,omitempty"`
	LastTraceID   *string `json:"lastTraceId,omitempty"`
	StartedAt     string  `json:"startedAt"`
	UpdatedAt     string  `json:"updatedAt"`
	StepCount     int64   `json:"stepCount"`
}

// SagaStepResponse represents a recorded step in query responses
type SagaStepResponse struct {
	ID              int64          `json:"id"`
	EventID         string         `json:"eventId"`
	Step            string         `json:"step"`
	Status          string         `json:"status"`
	ProducerService *string        `json:"producerService,omitempty"`
	TraceID         *string        `json:"traceId,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	RecordedAt      string         `json:"recordedAt"`
}

// PageResponse describes the returned page of a search
type PageResponse struct {
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// SagaPageResponse represents one page of search results
type SagaPageResponse struct {
	Content []SagaResponse `json:"content"`
	Page    PageResponse   `json:"page"`
}

// PeriodResponse echoes the requested statistics period
type PeriodResponse struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// SagaStatisticsResponse represents aggregate counts and rates
type SagaStatisticsResponse struct {
	Period           PeriodResponse   `json:"period"`
	Total            int64            `json:"total"`
	ByStatus         map[string]int64 `json:"byStatus"`
	ByType           map[string]int64 `json:"byType"`
	FailureRate      float64          `json:"failureRate"`
	CompensationRate float64          `json:"compensationRate"`
}

func toSagaResponse(detail *domain.SagaDetail) SagaResponse {
	instance := detail.Instance
	return SagaResponse{
		SagaID:        instance.SagaID.String(),
		SagaType:      instance.SagaType.String(),
		OrderID:       instance.OrderID.String(),
		CurrentStatus: instance.CurrentStatus.String(),
		LastStep:      instance.LastStep,
		LastTraceID:   instance.LastTraceID,
		StartedAt:     formatTime(instance.StartedAt),
		UpdatedAt:     formatTime(instance.Timestamps.UpdatedAt),
		StepCount:     detail.StepCount,
	}
}

func toSagaStepResponse(step *domain.SagaStep) SagaStepResponse {
	return SagaStepResponse{
		ID:              step.ID,
		EventID:         step.EventID.String(),
		Step:            step.Step,
		Status:          step.Status.String(),
		ProducerService: step.ProducerService,
		TraceID:         step.TraceID,
		Metadata:        step.Metadata,
		RecordedAt:      formatTime(step.RecordedAt),
	}
}

func toSagaStatisticsResponse(stats *domain.SagaStatistics) *SagaStatisticsResponse {
	response := &SagaStatisticsResponse{
		Period:           PeriodResponse{From: formatOptionalTime(stats.From), To: formatOptionalTime(stats.To)},
		Total:            stats.Total,
		ByStatus:         make(map[string]int64, len(stats.ByStatus)),
		ByType:           make(map[string]int64, len(stats.ByType)),
		FailureRate:      stats.FailureRate,
		CompensationRate: stats.CompensationRate,
	}
	for status, count := range stats.ByStatus {
		response.ByStatus[status.String()] = count
	}
	for sagaType, count := range stats.ByType {
		response.ByType[sagaType.String()] = count
	}
	return response
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
