package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	qb "github.com/riskibarqy/ktp-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var teamSelectColumns = []string{"id", "name", "tag", "is_free_agents", "created_at"}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("teams").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count teams query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return total, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *TeamRepository) GetFreeAgents(ctx context.Context) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("is_free_agents", true))
}

func (r *TeamRepository) getOne(ctx context.Context, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(cond).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	query, args, err := qb.InsertInto("teams").
		Columns("name", "tag", "is_free_agents").
		Values(item.Name, item.Tag, item.IsFreeAgents).
		Suffix("RETURNING " + joinColumns(teamSelectColumns)).
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if dupErr := teamDuplicateError(err); dupErr != nil {
			return team.Team{}, dupErr
		}
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}
	return teamFromRow(row), nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) (team.Team, error) {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("tag", item.Tag).
		Where(qb.Eq("id", item.ID)).
		Suffix("RETURNING " + joinColumns(teamSelectColumns)).
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build update team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if dupErr := teamDuplicateError(err); dupErr != nil {
			return team.Team{}, dupErr
		}
		return team.Team{}, fmt.Errorf("update team id=%d: %w", item.ID, err)
	}
	return teamFromRow(row), nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete team tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var referenced bool
	if err = tx.GetContext(ctx, &referenced, `
SELECT EXISTS (SELECT 1 FROM matches WHERE team1_id = $1 OR team2_id = $1)
    OR EXISTS (SELECT 1 FROM player_match_stats WHERE team_id = $1)`, id); err != nil {
		return fmt.Errorf("check team references: %w", err)
	}
	if referenced {
		err = team.ErrHasMatches
		return err
	}

	unassignQuery, unassignArgs, err := qb.Update("players").
		Set("team_id", nil).
		Where(qb.Eq("team_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build unassign players query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, unassignQuery, unassignArgs...); err != nil {
		return fmt.Errorf("unassign players from team id=%d: %w", id, err)
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("teams").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			err = team.ErrHasMatches
			return err
		}
		return fmt.Errorf("delete team id=%d: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete team tx: %w", err)
	}
	return nil
}

func teamDuplicateError(err error) error {
	constraint, ok := isUniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "teams_tag_key":
		return team.ErrDuplicateTag
	default:
		return team.ErrDuplicateName
	}
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:           row.ID,
		Name:         row.Name,
		Tag:          row.Tag,
		IsFreeAgents: row.IsFreeAgents,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}
