package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/football-data-sync/internal/domain/playerstat"
	qb "github.com/matchpulse/football-data-sync/internal/platform/querybuilder"
)

type PlayerStatRepository struct {
	db *sqlx.DB
}

func NewPlayerStatRepository(db *sqlx.DB) *PlayerStatRepository {
	return &PlayerStatRepository{db: db}
}

func (r *PlayerStatRepository) FindByFixtureAndPlayer(ctx context.Context, fixtureID, playerID string) (playerstat.PlayerFixtureStat, bool, error) {
	query, args, err := qb.Select("*").From("fixture_player_stats").
		Where(
			qb.Eq("fixture_id", fixtureID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return playerstat.PlayerFixtureStat{}, false, fmt.Errorf("build select stat query: %w", err)
	}

	var row playerStatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerstat.PlayerFixtureStat{}, false, nil
		}
		return playerstat.PlayerFixtureStat{}, false, fmt.Errorf("select stat fixture=%s player=%s: %w", fixtureID, playerID, err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerStatRepository) Insert(ctx context.Context, row playerstat.PlayerFixtureStat) error {
	query, args, err := qb.InsertModel("fixture_player_stats", playerStatToTableModel(row), "")
	if err != nil {
		return fmt.Errorf("build insert stat query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert stat fixture=%s player=%s: %w", row.FixtureID, row.PlayerID, err)
	}

	return nil
}

func (r *PlayerStatRepository) Update(ctx context.Context, row playerstat.PlayerFixtureStat, changed []string) error {
	return execUpdate(ctx, r.db, "fixture_player_stats", playerStatToTableModel(row), changed, row.ID)
}
