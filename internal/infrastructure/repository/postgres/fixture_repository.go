package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/football-data-sync/internal/domain/fixture"
	qb "github.com/matchpulse/football-data-sync/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) FindByExternalID(ctx context.Context, externalID int64) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture external_id=%d: %w", externalID, err)
	}

	return row.toDomain(), true, nil
}

func (r *FixtureRepository) Insert(ctx context.Context, row fixture.Fixture) error {
	query, args, err := qb.InsertModel("fixtures", fixtureToTableModel(row), "")
	if err != nil {
		return fmt.Errorf("build insert fixture query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fixture external_id=%d: %w", row.ExternalID, err)
	}

	return nil
}

func (r *FixtureRepository) Update(ctx context.Context, row fixture.Fixture, changed []string) error {
	return execUpdate(ctx, r.db, "fixtures", fixtureToTableModel(row), changed, row.ID)
}

func (r *FixtureRepository) ListBySeason(ctx context.Context, leagueID string, season int) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
		).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list fixtures league=%s season=%d: %w", leagueID, season, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
