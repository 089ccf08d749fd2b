package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	qb "github.com/riskibarqy/ktp-league/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"nickname",
	"team_id",
	"total_kills",
	"total_deaths",
	"total_flags",
	"matches_played",
	"created_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.list(ctx, "select players")
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	return r.list(ctx, "select players by team", qb.Eq("team_id", teamID))
}

func (r *PlayerRepository) ListActive(ctx context.Context) ([]player.Player, error) {
	return r.list(ctx, "select active players", qb.Expr("matches_played > ?", 0))
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}
	return r.list(ctx, "select players by ids", qb.In("id", int64SliceToAny(ids)))
}

func (r *PlayerRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(conds...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("players").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count players query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return total, nil
}

func (r *PlayerRepository) CountByTeam(ctx context.Context) (map[int64]int, error) {
	query, args, err := qb.Select("team_id", "COUNT(*) AS player_count").From("players").
		Where(qb.IsNotNull("team_id")).
		GroupBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count players by team query: %w", err)
	}

	var rows []teamPlayerCountModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count players by team: %w", err)
	}

	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.TeamID] = row.Count
	}
	return out, nil
}

func (r *PlayerRepository) CountInTeam(ctx context.Context, teamID, excludePlayerID int64) (int, error) {
	return countInTeam(ctx, r.db, teamID, excludePlayerID)
}

func countInTeam(ctx context.Context, q sqlx.QueryerContext, teamID, excludePlayerID int64) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("players").
		Where(qb.Eq("team_id", teamID), qb.Expr("id <> ?", excludePlayerID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count team players query: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, q, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count players in team id=%d: %w", teamID, err)
	}
	return total, nil
}

func lockTeamQuery(teamID int64) (string, []any, error) {
	return qb.Select("is_free_agents").From("teams").
		Where(qb.Eq("id", teamID)).
		Suffix("FOR UPDATE").
		ToSQL()
}

// reserveRosterSlot locks the target team row so concurrent moves into the
// same team serialize on the capacity check.
func reserveRosterSlot(ctx context.Context, tx *sqlx.Tx, teamID *int64, playerID int64) error {
	if teamID == nil {
		return nil
	}
	query, args, err := lockTeamQuery(*teamID)
	if err != nil {
		return fmt.Errorf("build lock team query: %w", err)
	}
	var isFreeAgents bool
	if err := tx.GetContext(ctx, &isFreeAgents, query, args...); err != nil {
		if isNotFound(err) {
			// the foreign key reports the missing team on write
			return nil
		}
		return fmt.Errorf("lock team id=%d: %w", *teamID, err)
	}
	if isFreeAgents {
		return nil
	}

	current, err := countInTeam(ctx, tx, *teamID, playerID)
	if err != nil {
		return err
	}
	if current >= team.MaxPlayers {
		return player.ErrTeamFull
	}
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player id=%d: %w", id, err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (player.Player, error) {
	query, args, err := qb.InsertInto("players").
		Columns("nickname", "team_id").
		Values(item.Nickname, int64PtrToNull(item.TeamID)).
		Suffix("RETURNING " + joinColumns(playerSelectColumns)).
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}
	return r.writeInTeam(ctx, item.TeamID, 0, "insert player", query, args)
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) (player.Player, error) {
	query, args, err := qb.Update("players").
		Set("nickname", item.Nickname).
		Set("team_id", int64PtrToNull(item.TeamID)).
		Where(qb.Eq("id", item.ID)).
		Suffix("RETURNING " + joinColumns(playerSelectColumns)).
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build update player query: %w", err)
	}
	return r.writeInTeam(ctx, item.TeamID, item.ID, fmt.Sprintf("update player id=%d", item.ID), query, args)
}

// writeInTeam runs a player write after reserving a roster slot in the
// same transaction.
func (r *PlayerRepository) writeInTeam(ctx context.Context, teamID *int64, playerID int64, op, query string, args []any) (_ player.Player, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return player.Player{}, fmt.Errorf("begin %s tx: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = reserveRosterSlot(ctx, tx, teamID, playerID); err != nil {
		return player.Player{}, err
	}

	var row playerTableModel
	if err = tx.GetContext(ctx, &row, query, args...); err != nil {
		if _, ok := isUniqueViolation(err); ok {
			err = player.ErrDuplicateNickname
			return player.Player{}, err
		}
		return player.Player{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return player.Player{}, fmt.Errorf("commit %s tx: %w", op, err)
	}
	return playerFromRow(row), nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete player tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var hasStats bool
	if err = tx.GetContext(ctx, &hasStats, `SELECT EXISTS (SELECT 1 FROM player_match_stats WHERE player_id = $1)`, id); err != nil {
		return fmt.Errorf("check player stats: %w", err)
	}
	if hasStats {
		err = player.ErrHasStats
		return err
	}

	query, args, err := qb.DeleteFrom("players").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			err = player.ErrHasStats
			return err
		}
		return fmt.Errorf("delete player id=%d: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete player tx: %w", err)
	}
	return nil
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:       row.ID,
		Nickname: row.Nickname,
		TeamID:   nullInt64Ptr(row.TeamID),
		Totals: player.Totals{
			Kills:         row.TotalKills,
			Deaths:        row.TotalDeaths,
			Flags:         row.TotalFlags,
			MatchesPlayed: row.MatchesPlayed,
		},
		CreatedAt: row.CreatedAt.UTC(),
	}
}
