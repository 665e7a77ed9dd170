package application

import (
	"context"
	"time"

	"github.com/draftea/saga-tracker/shared/models"
	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// SearchSagasQuery represents a filtered, paginated search.
// Empty filters are ignored. Size is clamped to [1, MaxPageSize], callers
// apply the default page size when none was requested.
type SearchSagasQuery struct {
	OrderID  string     `json:"order_id,omitempty"`
	SagaType string     `json:"saga_type,omitempty"`
	Status   string     `json:"status,omitempty"`
	FromDate *time.Time `json:"from_date,omitempty"`
	ToDate   *time.Time `json:"to_date,omitempty"`
	Page     int        `json:"page"`
	Size     int        `json:"size"`
}

// SearchSagas use case
type SearchSagas struct {
	sagaRepository domain.SagaRepository
}

// NewSearchSagas creates a new SearchSagas use case
func NewSearchSagas(sagaRepository domain.SagaRepository) *SearchSagas {
	return &SearchSagas{
		sagaRepository: sagaRepository,
	}
}

// Execute returns one page of sagas ordered by start time, newest first
func (uc *SearchSagas) Execute(ctx context.Context, query *SearchSagasQuery) (*SagaPageResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "search_sagas")
	defer span.End()

	criteria, err := uc.buildCriteria(query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("page", criteria.Page),
		attribute.Int("size", criteria.Size),
	)

	page, err := uc.sagaRepository.Search(ctx, criteria)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to search sagas")
	}

	recordQuery(ctx, "search_sagas")

	response := &SagaPageResponse{
		Content: make([]SagaResponse, 0, len(page.Content)),
		Page: PageResponse{
			Number:        page.Number,
			Size:          page.Size,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages,
		},
	}
	for _, detail := range page.Content {
		response.Content = append(response.Content, toSagaResponse(detail))
	}
	return response, nil
}

func (uc *SearchSagas) buildCriteria(query *SearchSagasQuery) (domain.SearchCriteria, error) {
	criteria := domain.SearchCriteria{
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
		Page:     query.Page,
		Size:     query.Size,
	}

	if query.OrderID != "" {
		orderID, err := models.NewID(query.OrderID)
		if err != nil {
			return criteria, errors.Wrapf(domain.ErrValidation, "invalid order ID: %v", err)
		}
		criteria.OrderID = &orderID
	}
	if query.SagaType != "" {
		sagaType, err := domain.ParseSagaType(query.SagaType)
		if err != nil {
			return criteria, err
		}
		criteria.SagaType = &sagaType
	}
	if query.Status != "" {
		status, err := domain.ParseSagaStatus(query.Status)
		if err != nil {
			return criteria, err
		}
		criteria.Status = &status
	}
	if err := validatePeriod(query.FromDate, query.ToDate); err != nil {
		return criteria, err
	}

	return criteria.Normalize(), nil
}

func validatePeriod(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return errors.Wrap(domain.ErrValidation, "fromDate must not be after toDate")
	}
	return nil
}
