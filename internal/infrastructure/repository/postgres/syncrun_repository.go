package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/football-data-sync/internal/domain/syncrun"
	qb "github.com/matchpulse/football-data-sync/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Insert(ctx context.Context, row syncrun.Run) error {
	query, args, err := qb.InsertModel("sync_runs", syncRunToTableModel(row), "")
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run %s: %w", row.ID, err)
	}

	return nil
}

// Update rewrites the whole progress snapshot. Runs are written by a
// single owner goroutine, so last-write-wins is safe here.
func (r *SyncRunRepository) Update(ctx context.Context, row syncrun.Run) error {
	model := syncRunToTableModel(row)
	values, err := qb.ModelValues(model)
	if err != nil {
		return fmt.Errorf("map sync run columns: %w", err)
	}

	columns := make([]string, 0, len(values))
	for column := range values {
		if column == "public_id" {
			continue
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	builder := qb.Update("sync_runs")
	for _, column := range columns {
		builder = builder.Set(column, values[column])
	}

	query, args, err := builder.Where(qb.Eq("public_id", row.ID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update sync run %s: %w", row.ID, err)
	}

	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, id string) (syncrun.Run, bool, error) {
	query, args, err := qb.Select("*").From("sync_runs").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return syncrun.Run{}, false, fmt.Errorf("build select sync run query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, false, nil
		}
		return syncrun.Run{}, false, fmt.Errorf("select sync run %s: %w", id, err)
	}

	return row.toDomain(), true, nil
}

func (r *SyncRunRepository) FindLatestByKey(ctx context.Context, leagueExternalID int64, season int) (syncrun.Run, bool, error) {
	query, args, err := qb.Select("*").From("sync_runs").
		Where(
			qb.Eq("league_external_id", leagueExternalID),
			qb.Eq("season", season),
		).
		OrderBy("started_at DESC", "public_id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return syncrun.Run{}, false, fmt.Errorf("build select latest sync run query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, false, nil
		}
		return syncrun.Run{}, false, fmt.Errorf("select latest sync run league=%d season=%d: %w", leagueExternalID, season, err)
	}

	return row.toDomain(), true, nil
}
