package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/matchpulse/football-data-sync/internal/platform/querybuilder"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// execUpdate writes only the changed columns of a row, keyed by its
// public id. Column names come straight from the reconciler's diff.
func execUpdate(ctx context.Context, db *sqlx.DB, table string, model any, changed []string, publicID string) error {
	if len(changed) == 0 {
		return nil
	}

	values, err := qb.ModelValues(model)
	if err != nil {
		return fmt.Errorf("map %s columns: %w", table, err)
	}

	builder := qb.Update(table)
	for _, column := range changed {
		value, ok := values[column]
		if !ok {
			return fmt.Errorf("table %s has no column %q", table, column)
		}
		builder = builder.Set(column, value)
	}

	query, args, err := builder.Where(qb.Eq("public_id", publicID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update %s query: %w", table, err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s public_id=%s: %w", table, publicID, err)
	}

	return nil
}
