package infrastructure

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/draftea/saga-tracker/shared/models"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"
)

const (
	instanceTable = "saga_instance"
	stepTable     = "saga_step"
)

var _ domain.SagaRepository = (*MemorySagaRepository)(nil)

// MemorySagaRepository implements SagaRepository on go-memdb. Write
// transactions are serialized by memdb and read transactions see a snapshot,
// which gives the same guarantees as the Postgres repository.
type MemorySagaRepository struct {
	db     *memdb.MemDB
	stepID atomic.Int64
}

func sagaSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			instanceTable: {
				Name: instanceTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "SagaID"},
					},
					"order_id": {
						Name:    "order_id",
						Indexer: &memdb.StringFieldIndex{Field: "OrderID"},
					},
				},
			},
			stepTable: {
				Name: stepTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
					"event_id": {
						Name:    "event_id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "EventID"},
					},
					"saga_id": {
						Name:    "saga_id",
						Indexer: &memdb.StringFieldIndex{Field: "SagaID"},
					},
				},
			},
		},
	}
}

// NewMemorySagaRepository creates an empty in-memory repository
func NewMemorySagaRepository() (*MemorySagaRepository, error) {
	db, err := memdb.NewMemDB(sagaSchema())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create memdb")
	}
	return &MemorySagaRepository{db: db}, nil
}

// FindBySagaID finds a saga instance
func (r *MemorySagaRepository) FindBySagaID(ctx context.Context, sagaID models.ID) (*domain.SagaInstance, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	return findInstance(txn, sagaID)
}

// FindDetailBySagaID finds a saga instance and counts its steps in one snapshot
func (r *MemorySagaRepository) FindDetailBySagaID(ctx context.Context, sagaID models.ID) (*domain.SagaDetail, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	instance, err := findInstance(txn, sagaID)
	if err != nil || instance == nil {
		return nil, err
	}

	count, err := countSteps(txn, sagaID)
	if err != nil {
		return nil, err
	}

	return &domain.SagaDetail{Instance: instance, StepCount: count}, nil
}

// FindHistoryBySagaID finds a saga instance and its steps ordered by RecordedAt
func (r *MemorySagaRepository) FindHistoryBySagaID(ctx context.Context, sagaID models.ID) (*domain.SagaHistory, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	instance, err := findInstance(txn, sagaID)
	if err != nil || instance == nil {
		return nil, err
	}

	it, err := txn.Get(stepTable, "saga_id", sagaID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list steps")
	}

	steps := make([]*domain.SagaStep, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		steps = append(steps, cloneStep(obj.(*domain.SagaStep)))
	}

	sort.Slice(steps, func(i, j int) bool {
		if steps[i].RecordedAt.Equal(steps[j].RecordedAt) {
			return steps[i].ID < steps[j].ID
		}
		return steps[i].RecordedAt.Before(steps[j].RecordedAt)
	})

	return &domain.SagaHistory{Instance: instance, Steps: steps}, nil
}

// FindStepByEventID finds a step by its event id
func (r *MemorySagaRepository) FindStepByEventID(ctx context.Context, eventID models.ID) (*domain.SagaStep, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(stepTable, "event_id", eventID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to find step")
	}
	if raw == nil {
		return nil, nil
	}
	return cloneStep(raw.(*domain.SagaStep)), nil
}

// Search returns a page of instances ordered by StartedAt descending
func (r *MemorySagaRepository) Search(ctx context.Context, criteria domain.SearchCriteria) (*domain.SagaPage, error) {
	criteria = criteria.Normalize()

	txn := r.db.Txn(false)
	defer txn.Abort()

	var (
		it  memdb.ResultIterator
		err error
	)
	if criteria.OrderID != nil {
		it, err = txn.Get(instanceTable, "order_id", criteria.OrderID.String())
	} else {
		it, err = txn.Get(instanceTable, "id")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan sagas")
	}

	matched := make([]*domain.SagaInstance, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		instance := obj.(*domain.SagaInstance)
		if matchesSearch(instance, criteria) {
			matched = append(matched, instance)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].StartedAt.Equal(matched[j].StartedAt) {
			return matched[i].SagaID < matched[j].SagaID
		}
		return matched[i].StartedAt.After(matched[j].StartedAt)
	})

	total := int64(len(matched))
	content := make([]*domain.SagaDetail, 0, criteria.Size)
	for i := criteria.Offset(); i < len(matched) && len(content) < criteria.Size; i++ {
		count, err := countSteps(txn, matched[i].SagaID)
		if err != nil {
			return nil, err
		}
		content = append(content, &domain.SagaDetail{Instance: matched[i].Clone(), StepCount: count})
	}

	return domain.NewSagaPage(content, criteria.Page, criteria.Size, total), nil
}

// CountByStatusAndType groups instances by current status and by type
func (r *MemorySagaRepository) CountByStatusAndType(ctx context.Context, criteria domain.StatisticsCriteria) (*domain.SagaCounts, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(instanceTable, "id")
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan sagas")
	}

	counts := &domain.SagaCounts{
		ByStatus: make(map[domain.SagaStatus]int64),
		ByType:   make(map[domain.SagaType]int64),
	}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		instance := obj.(*domain.SagaInstance)
		if !matchesStatistics(instance, criteria) {
			continue
		}
		counts.ByStatus[instance.CurrentStatus]++
		counts.ByType[instance.SagaType]++
	}

	return counts, nil
}

// SaveInstanceAndStep inserts the step and upserts the instance in one transaction
func (r *MemorySagaRepository) SaveInstanceAndStep(ctx context.Context, instance *domain.SagaInstance, step *domain.SagaStep) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	seen, err := txn.First(stepTable, "event_id", step.EventID.String())
	if err != nil {
		return errors.Wrap(err, "failed to check event id")
	}
	if seen != nil {
		return domain.ErrDuplicateEvent
	}

	stored, err := findInstance(txn, instance.SagaID)
	if err != nil {
		return err
	}
	storedVersion := 0
	if stored != nil {
		storedVersion = stored.Version.Value
	}
	if storedVersion != instance.Version.Previous() {
		return errors.Wrapf(domain.ErrConcurrentModification,
			"saga %s is at version %d, expected %d", instance.SagaID, storedVersion, instance.Version.Previous())
	}

	row := cloneStep(step)
	row.ID = r.stepID.Add(1)

	if err := txn.Insert(stepTable, row); err != nil {
		return errors.Wrap(err, "failed to insert step")
	}
	if err := txn.Insert(instanceTable, instance.Clone()); err != nil {
		return errors.Wrap(err, "failed to upsert saga")
	}

	txn.Commit()
	step.ID = row.ID
	return nil
}

func findInstance(txn *memdb.Txn, sagaID models.ID) (*domain.SagaInstance, error) {
	raw, err := txn.First(instanceTable, "id", sagaID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to find saga")
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*domain.SagaInstance).Clone(), nil
}

func countSteps(txn *memdb.Txn, sagaID models.ID) (int64, error) {
	it, err := txn.Get(stepTable, "saga_id", sagaID.String())
	if err != nil {
		return 0, errors.Wrap(err, "failed to count steps")
	}
	var count int64
	for obj := it.Next(); obj != nil; obj = it.Next() {
		count++
	}
	return count, nil
}

func matchesSearch(instance *domain.SagaInstance, criteria domain.SearchCriteria) bool {
	if criteria.OrderID != nil && instance.OrderID != *criteria.OrderID {
		return false
	}
	if criteria.Status != nil && instance.CurrentStatus != *criteria.Status {
		return false
	}
	return matchesStatistics(instance, domain.StatisticsCriteria{
		SagaType: criteria.SagaType,
		FromDate: criteria.FromDate,
		ToDate:   criteria.ToDate,
	})
}

func matchesStatistics(instance *domain.SagaInstance, criteria domain.StatisticsCriteria) bool {
	if criteria.SagaType != nil && instance.SagaType != *criteria.SagaType {
		return false
	}
	if criteria.FromDate != nil && instance.StartedAt.Before(*criteria.FromDate) {
		return false
	}
	if criteria.ToDate != nil && instance.StartedAt.After(*criteria.ToDate) {
		return false
	}
	return true
}

func cloneStep(step *domain.SagaStep) *domain.SagaStep {
	clone := *step
	if step.Metadata != nil {
		clone.Metadata = make(map[string]any, len(step.Metadata))
		for k, v := range step.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}
