package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/draftea/saga-tracker/shared/models"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var _ domain.SagaRepository = (*PostgresSagaRepository)(nil)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS saga_instance (
		saga_id        VARCHAR(100) PRIMARY KEY,
		saga_type      VARCHAR(50)  NOT NULL,
		order_id       VARCHAR(100) NOT NULL,
		current_status VARCHAR(20)  NOT NULL,
		last_step      VARCHAR(100) NOT NULL,
		last_trace_id  VARCHAR(100),
		started_at     TIMESTAMPTZ  NOT NULL,
		created_at     TIMESTAMPTZ  NOT NULL,
		updated_at     TIMESTAMPTZ  NOT NULL,
		version        INTEGER      NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_saga_instance_order_id ON saga_instance (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_saga_instance_status ON saga_instance (current_status)`,
	`CREATE INDEX IF NOT EXISTS idx_saga_instance_started_at ON saga_instance (started_at DESC)`,
	`CREATE TABLE IF NOT EXISTS saga_step (
		id               BIGSERIAL    PRIMARY KEY,
		saga_id          VARCHAR(100) NOT NULL REFERENCES saga_instance (saga_id) DEFERRABLE INITIALLY DEFERRED,
		event_id         VARCHAR(100) NOT NULL UNIQUE,
		step             VARCHAR(100) NOT NULL,
		status           VARCHAR(20)  NOT NULL,
		producer_service VARCHAR(100),
		trace_id         VARCHAR(100),
		metadata         JSONB,
		recorded_at      TIMESTAMPTZ  NOT NULL,
		created_at       TIMESTAMPTZ  NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_saga_step_saga_id ON saga_step (saga_id, recorded_at)`,
}

// PostgresSagaRepository implements SagaRepository using PostgreSQL
type PostgresSagaRepository struct {
	db *sqlx.DB
}

// NewPostgresSagaRepository creates a new PostgresSagaRepository
func NewPostgresSagaRepository(db *sqlx.DB) *PostgresSagaRepository {
	return &PostgresSagaRepository{db: db}
}

// postgresSagaInstance represents saga_instance in database
type postgresSagaInstance struct {
	SagaID        string    `db:"saga_id"`
	SagaType      string    `db:"saga_type"`
	OrderID       string    `db:"order_id"`
	CurrentStatus string    `db:"current_status"`
	LastStep      string    `db:"last_step"`
	LastTraceID   *string   `db:"last_trace_id"`
	StartedAt     time.Time `db:"started_at"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	Version       int       `db:"version"`
}

// postgresSagaDetail is an instance row joined with its step count
type postgresSagaDetail struct {
	postgresSagaInstance
	StepCount int64 `db:"step_count"`
}

// postgresSagaStep represents saga_step in database
type postgresSagaStep struct {
	ID              int64     `db:"id"`
	SagaID          string    `db:"saga_id"`
	EventID         string    `db:"event_id"`
	Step            string    `db:"step"`
	Status          string    `db:"status"`
	ProducerService *string   `db:"producer_service"`
	TraceID         *string   `db:"trace_id"`
	Metadata        *string   `db:"metadata"`
	RecordedAt      time.Time `db:"recorded_at"`
	CreatedAt       time.Time `db:"created_at"`
}

// groupCount is one row of a GROUP BY count
type groupCount struct {
	Key   string `db:"key"`
	Count int64  `db:"count"`
}

const (
	instanceColumns = `saga_id, saga_type, order_id, current_status, last_step,
		last_trace_id, started_at, created_at, updated_at, version`
	stepColumns = `id, saga_id, event_id, step, status, producer_service,
		trace_id, metadata::text AS metadata, recorded_at, created_at`
	detailColumns = `i.saga_id, i.saga_type, i.order_id, i.current_status, i.last_step,
		i.last_trace_id, i.started_at, i.created_at, i.updated_at, i.version,
		(SELECT COUNT(*) FROM saga_step s WHERE s.saga_id = i.saga_id) AS step_count`
)

// EnsureSchema creates the tables and indexes when they do not exist
func (r *PostgresSagaRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to apply schema")
		}
	}
	return nil
}

// FindBySagaID finds a saga instance
func (r *PostgresSagaRepository) FindBySagaID(ctx context.Context, sagaID models.ID) (*domain.SagaInstance, error) {
	query := `SELECT ` + instanceColumns + ` FROM saga_instance WHERE saga_id = $1`

	var row postgresSagaInstance
	err := r.db.GetContext(ctx, &row, query, sagaID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find saga")
	}

	return row.toDomain(), nil
}

// FindDetailBySagaID finds a saga instance with its step count
func (r *PostgresSagaRepository) FindDetailBySagaID(ctx context.Context, sagaID models.ID) (*domain.SagaDetail, error) {
	query := `SELECT ` + detailColumns + ` FROM saga_instance i WHERE i.saga_id = $1`

	var row postgresSagaDetail
	err := r.db.GetContext(ctx, &row, query, sagaID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find saga detail")
	}

	return row.toDomain(), nil
}

// FindHistoryBySagaID reads the instance and its steps from one snapshot
func (r *PostgresSagaRepository) FindHistoryBySagaID(ctx context.Context, sagaID models.ID) (*domain.SagaHistory, error) {
	var history *domain.SagaHistory
	err := r.readOnly(ctx, func(tx *sqlx.Tx) error {
		var row postgresSagaInstance
		err := tx.GetContext(ctx, &row,
			`SELECT `+instanceColumns+` FROM saga_instance WHERE saga_id = $1`, sagaID.String())
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to find saga")
		}

		var rows []postgresSagaStep
		err = tx.SelectContext(ctx, &rows,
			`SELECT `+stepColumns+` FROM saga_step WHERE saga_id = $1 ORDER BY recorded_at, id`, sagaID.String())
		if err != nil {
			return errors.Wrap(err, "failed to list steps")
		}

		steps := make([]*domain.SagaStep, 0, len(rows))
		for i := range rows {
			step, err := rows[i].toDomain()
			if err != nil {
				return err
			}
			steps = append(steps, step)
		}

		history = &domain.SagaHistory{Instance: row.toDomain(), Steps: steps}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// FindStepByEventID finds a step by its event id
func (r *PostgresSagaRepository) FindStepByEventID(ctx context.Context, eventID models.ID) (*domain.SagaStep, error) {
	query := `SELECT ` + stepColumns + ` FROM saga_step WHERE event_id = $1`

	var row postgresSagaStep
	err := r.db.GetContext(ctx, &row, query, eventID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find step")
	}

	return row.toDomain()
}

// Search returns a page of instances ordered by StartedAt descending
func (r *PostgresSagaRepository) Search(ctx context.Context, criteria domain.SearchCriteria) (*domain.SagaPage, error) {
	criteria = criteria.Normalize()
	where, args := searchFilter(criteria)

	var page *domain.SagaPage
	err := r.readOnly(ctx, func(tx *sqlx.Tx) error {
		var total int64
		countQuery := r.db.Rebind(`SELECT COUNT(*) FROM saga_instance i` + where)
		if err := tx.GetContext(ctx, &total, countQuery, args...); err != nil {
			return errors.Wrap(err, "failed to count sagas")
		}

		pageQuery := r.db.Rebind(`SELECT ` + detailColumns + ` FROM saga_instance i` + where +
			` ORDER BY i.started_at DESC, i.saga_id ASC LIMIT ? OFFSET ?`)
		pageArgs := append(append([]interface{}{}, args...), criteria.Size, criteria.Offset())

		var rows []postgresSagaDetail
		if err := tx.SelectContext(ctx, &rows, pageQuery, pageArgs...); err != nil {
			return errors.Wrap(err, "failed to search sagas")
		}

		content := make([]*domain.SagaDetail, 0, len(rows))
		for i := range rows {
			content = append(content, rows[i].toDomain())
		}
		page = domain.NewSagaPage(content, criteria.Page, criteria.Size, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// CountByStatusAndType groups instances by current status and by type from one snapshot
func (r *PostgresSagaRepository) CountByStatusAndType(ctx context.Context, criteria domain.StatisticsCriteria) (*domain.SagaCounts, error) {
	where, args := statisticsFilter(criteria)

	counts := &domain.SagaCounts{
		ByStatus: make(map[domain.SagaStatus]int64),
		ByType:   make(map[domain.SagaType]int64),
	}

	err := r.readOnly(ctx, func(tx *sqlx.Tx) error {
		var byStatus []groupCount
		query := r.db.Rebind(`SELECT i.current_status AS key, COUNT(*) AS count FROM saga_instance i` +
			where + ` GROUP BY i.current_status`)
		if err := tx.SelectContext(ctx, &byStatus, query, args...); err != nil {
			return errors.Wrap(err, "failed to count sagas by status")
		}
		for _, row := range byStatus {
			counts.ByStatus[domain.SagaStatus(row.Key)] = row.Count
		}

		var byType []groupCount
		query = r.db.Rebind(`SELECT i.saga_type AS key, COUNT(*) AS count FROM saga_instance i` +
			where + ` GROUP BY i.saga_type`)
		if err := tx.SelectContext(ctx, &byType, query, args...); err != nil {
			return errors.Wrap(err, "failed to count sagas by type")
		}
		for _, row := range byType {
			counts.ByType[domain.SagaType(row.Key)] = row.Count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// SaveInstanceAndStep inserts the step and upserts the instance in one transaction
func (r *PostgresSagaRepository) SaveInstanceAndStep(ctx context.Context, instance *domain.SagaInstance, step *domain.SagaStep) error {
	pgStep, err := toPostgresStep(step)
	if err != nil {
		return err
	}
	pgInstance := toPostgresInstance(instance)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	insertStep := `
		INSERT INTO saga_step (
			saga_id, event_id, step, status, producer_service,
			trace_id, metadata, recorded_at, created_at
		) VALUES (
			:saga_id, :event_id, :step, :status, :producer_service,
			:trace_id, CAST(:metadata AS JSONB), :recorded_at, :created_at
		)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING id`

	query, args, err := tx.BindNamed(insertStep, pgStep)
	if err != nil {
		return errors.Wrap(err, "failed to bind step")
	}

	var stepID int64
	err = tx.QueryRowxContext(ctx, query, args...).Scan(&stepID)
	if err == sql.ErrNoRows {
		return domain.ErrDuplicateEvent
	}
	if err != nil {
		return errors.Wrap(err, "failed to insert step")
	}

	var result sql.Result
	if instance.IsNew() {
		result, err = tx.NamedExecContext(ctx, `
			INSERT INTO saga_instance (
				saga_id, saga_type, order_id, current_status, last_step,
				last_trace_id, started_at, created_at, updated_at, version
			) VALUES (
				:saga_id, :saga_type, :order_id, :current_status, :last_step,
				:last_trace_id, :started_at, :created_at, :updated_at, :version
			)
			ON CONFLICT (saga_id) DO NOTHING`, pgInstance)
	} else {
		result, err = tx.NamedExecContext(ctx, `
			UPDATE saga_instance
			SET current_status = :current_status, last_step = :last_step,
				last_trace_id = :last_trace_id, updated_at = :updated_at, version = :version
			WHERE saga_id = :saga_id AND version = :old_version`, map[string]interface{}{
			"saga_id":        pgInstance.SagaID,
			"current_status": pgInstance.CurrentStatus,
			"last_step":      pgInstance.LastStep,
			"last_trace_id":  pgInstance.LastTraceID,
			"updated_at":     pgInstance.UpdatedAt,
			"version":        pgInstance.Version,
			"old_version":    instance.Version.Previous(),
		})
	}
	if err != nil {
		return errors.Wrap(err, "failed to upsert saga")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return errors.Wrapf(domain.ErrConcurrentModification,
			"saga %s is no longer at version %d", instance.SagaID, instance.Version.Previous())
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit saga")
	}

	step.ID = stepID
	return nil
}

// readOnly runs fn inside a repeatable read transaction so multi-query reads share a snapshot
func (r *PostgresSagaRepository) readOnly(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return errors.Wrap(err, "failed to begin read transaction")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// searchFilter builds a WHERE clause with ? placeholders, callers Rebind it
func searchFilter(criteria domain.SearchCriteria) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if criteria.OrderID != nil {
		clauses = append(clauses, "i.order_id = ?")
		args = append(args, criteria.OrderID.String())
	}
	if criteria.Status != nil {
		clauses = append(clauses, "i.current_status = ?")
		args = append(args, criteria.Status.String())
	}

	where, rest := statisticsFilter(domain.StatisticsCriteria{
		SagaType: criteria.SagaType,
		FromDate: criteria.FromDate,
		ToDate:   criteria.ToDate,
	})
	if where != "" {
		clauses = append(clauses, strings.TrimPrefix(where, " WHERE "))
		args = append(args, rest...)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func statisticsFilter(criteria domain.StatisticsCriteria) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if criteria.SagaType != nil {
		clauses = append(clauses, "i.saga_type = ?")
		args = append(args, criteria.SagaType.String())
	}
	if criteria.FromDate != nil {
		clauses = append(clauses, "i.started_at >= ?")
		args = append(args, criteria.FromDate.UTC())
	}
	if criteria.ToDate != nil {
		clauses = append(clauses, "i.started_at <= ?")
		args = append(args, criteria.ToDate.UTC())
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func toPostgresInstance(instance *domain.SagaInstance) *postgresSagaInstance {
	return &postgresSagaInstance{
		SagaID:        instance.SagaID.String(),
		SagaType:      instance.SagaType.String(),
		OrderID:       instance.OrderID.String(),
		CurrentStatus: instance.CurrentStatus.String(),
		LastStep:      instance.LastStep,
		LastTraceID:   instance.LastTraceID,
		StartedAt:     instance.StartedAt,
		CreatedAt:     instance.Timestamps.CreatedAt,
		UpdatedAt:     instance.Timestamps.UpdatedAt,
		Version:       instance.Version.Value,
	}
}

func (row *postgresSagaInstance) toDomain() *domain.SagaInstance {
	return &domain.SagaInstance{
		SagaID:        models.ID(row.SagaID),
		SagaType:      domain.SagaType(row.SagaType),
		OrderID:       models.ID(row.OrderID),
		CurrentStatus: domain.SagaStatus(row.CurrentStatus),
		LastStep:      row.LastStep,
		LastTraceID:   row.LastTraceID,
		StartedAt:     row.StartedAt.UTC(),
		Timestamps: models.Timestamps{
			CreatedAt: row.CreatedAt.UTC(),
			UpdatedAt: row.UpdatedAt.UTC(),
		},
		Version: models.Version{Value: row.Version},
	}
}

func (row *postgresSagaDetail) toDomain() *domain.SagaDetail {
	return &domain.SagaDetail{
		Instance:  row.postgresSagaInstance.toDomain(),
		StepCount: row.StepCount,
	}
}

func toPostgresStep(step *domain.SagaStep) (*postgresSagaStep, error) {
	var metadata *string
	if len(step.Metadata) > 0 {
		raw, err := json.Marshal(step.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode step metadata")
		}
		encoded := string(raw)
		metadata = &encoded
	}

	return &postgresSagaStep{
		ID:              step.ID,
		SagaID:          step.SagaID.String(),
		EventID:         step.EventID.String(),
		Step:            step.Step,
		Status:          step.Status.String(),
		ProducerService: step.ProducerService,
		TraceID:         step.TraceID,
		Metadata:        metadata,
		RecordedAt:      step.RecordedAt,
		CreatedAt:       step.CreatedAt,
	}, nil
}

func (row *postgresSagaStep) toDomain() (*domain.SagaStep, error) {
	var metadata map[string]any
	if row.Metadata != nil {
		parsed, err := domain.ParseMetadata(*row.Metadata)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", row.ID)
		}
		metadata = parsed
	}

	return &domain.SagaStep{
		ID:              row.ID,
		SagaID:          models.ID(row.SagaID),
		EventID:         models.ID(row.EventID),
		Step:            row.Step,
		Status:          domain.SagaStatus(row.Status),
		ProducerService: row.ProducerService,
		TraceID:         row.TraceID,
		Metadata:        metadata,
		RecordedAt:      row.RecordedAt.UTC(),
		CreatedAt:       row.CreatedAt.UTC(),
	}, nil
}
