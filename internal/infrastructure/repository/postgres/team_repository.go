package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/football-data-sync/internal/domain/team"
	qb "github.com/matchpulse/football-data-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) FindByExternalID(ctx context.Context, externalID int64, season int) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("external_id", externalID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team external_id=%d: %w", externalID, err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) Insert(ctx context.Context, row team.Team) error {
	query, args, err := qb.InsertModel("teams", teamToTableModel(row), "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team external_id=%d: %w", row.ExternalID, err)
	}

	return nil
}

func (r *TeamRepository) Update(ctx context.Context, row team.Team, changed []string) error {
	return execUpdate(ctx, r.db, "teams", teamToTableModel(row), changed, row.ID)
}

func (r *TeamRepository) ListBySeason(ctx context.Context, leagueID string, season int) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
		).
		OrderBy("name", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams league=%s season=%d: %w", leagueID, season, err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
