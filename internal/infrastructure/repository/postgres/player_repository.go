package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/football-data-sync/internal/domain/player"
	qb "github.com/matchpulse/football-data-sync/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) FindByExternalID(ctx context.Context, externalID int64, season int) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("external_id", externalID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player external_id=%d: %w", externalID, err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, row player.Player) error {
	query, args, err := qb.InsertModel("players", playerToTableModel(row), "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player external_id=%d: %w", row.ExternalID, err)
	}

	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, row player.Player, changed []string) error {
	return execUpdate(ctx, r.db, "players", playerToTableModel(row), changed, row.ID)
}

func (r *PlayerRepository) ListBySeason(ctx context.Context, season int, limit, offset int) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("season", season)).
		OrderBy("name", "public_id").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players season=%d: %w", season, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
