package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/draftea/saga-tracker/shared/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps Page*Size within int for any normalized size
	MaxPage = math.MaxInt / MaxPageSize
)

// SearchCriteria filters a paginated search over saga instances.
// Date filters apply to StartedAt and are inclusive.
type SearchCriteria struct {
	OrderID  *models.ID
	SagaType *SagaType
	Status   *SagaStatus
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Size     int
}

// Normalize clamps the size to [1, MaxPageSize] and the page to [0, MaxPage]
func (c SearchCriteria) Normalize() SearchCriteria {
	if c.Page < 0 {
		c.Page = 0
	}
	if c.Page > MaxPage {
		c.Page = MaxPage
	}
	if c.Size < 1 {
		c.Size = 1
	}
	if c.Size > MaxPageSize {
		c.Size = MaxPageSize
	}
	return c
}

// Offset returns the number of rows skipped before the page
func (c SearchCriteria) Offset() int {
	return c.Page * c.Size
}

// StatisticsCriteria filters the aggregate counts
type StatisticsCriteria struct {
	SagaType *SagaType
	FromDate *time.Time
	ToDate   *time.Time
}

// CacheKey identifies the criteria in a statistics cache
func (c StatisticsCriteria) CacheKey() string {
	parts := []string{"saga-statistics"}
	if c.SagaType != nil {
		parts = append(parts, "type="+c.SagaType.String())
	}
	if c.FromDate != nil {
		parts = append(parts, fmt.Sprintf("from=%d", c.FromDate.UnixMilli()))
	}
	if c.ToDate != nil {
		parts = append(parts, fmt.Sprintf("to=%d", c.ToDate.UnixMilli()))
	}
	return strings.Join(parts, ":")
}

// SagaCounts holds instance counts grouped by current status and by type
type SagaCounts struct {
	ByStatus map[SagaStatus]int64
	ByType   map[SagaType]int64
}

// SagaRepository is the storage port of the tracker.
// Find methods return nil, nil when nothing matches.
type SagaRepository interface {
	FindBySagaID(ctx context.Context, sagaID models.ID) (*SagaInstance, error)
	FindDetailBySagaID(ctx context.Context, sagaID models.ID) (*SagaDetail, error)
	FindHistoryBySagaID(ctx context.Context, sagaID models.ID) (*SagaHistory, error)
	FindStepByEventID(ctx context.Context, eventID models.ID) (*SagaStep, error)
	Search(ctx context.Context, criteria SearchCriteria) (*SagaPage, error)
	CountByStatusAndType(ctx context.Context, criteria StatisticsCriteria) (*SagaCounts, error)

	// SaveInstanceAndStep stores the step and upserts the instance atomically and
	// assigns step.ID. It returns ErrDuplicateEvent when the step's event id is
	// already stored and ErrConcurrentModification when the stored instance
	// version is not instance.Version.Previous().
	SaveInstanceAndStep(ctx context.Context, instance *SagaInstance, step *SagaStep) error
}
