package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/football-data-sync/internal/domain/league"
	qb "github.com/matchpulse/football-data-sync/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) FindByExternalID(ctx context.Context, externalID int64, season int) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("external_id", externalID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league external_id=%d: %w", externalID, err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) Insert(ctx context.Context, row league.League) error {
	query, args, err := qb.InsertModel("leagues", leagueToTableModel(row), "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league external_id=%d: %w", row.ExternalID, err)
	}

	return nil
}

func (r *LeagueRepository) Update(ctx context.Context, row league.League, changed []string) error {
	return execUpdate(ctx, r.db, "leagues", leagueToTableModel(row), changed, row.ID)
}
