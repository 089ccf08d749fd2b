package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ktp-league/internal/domain/match"
	qb "github.com/riskibarqy/ktp-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

var matchSelectColumns = []string{
	"id",
	"match_type",
	"team1_id",
	"team2_id",
	"team1_score",
	"team2_score",
	"map_name",
	"scheduled_date",
	"played_date",
	"is_completed",
	"created_at",
}

var statSelectColumns = []string{
	"id",
	"match_id",
	"player_id",
	"team_id",
	"half",
	"kills",
	"deaths",
	"flags",
	"is_ringer",
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	conds := make([]qb.Condition, 0, 2)
	if filter.Type != nil {
		conds = append(conds, qb.Eq("match_type", string(*filter.Type)))
	}
	if filter.IsCompleted != nil {
		conds = append(conds, qb.Eq("is_completed", *filter.IsCompleted))
	}

	return r.selectMatches(ctx, "select matches",
		qb.Select(matchSelectColumns...).From("matches").
			Where(conds...).
			OrderBy("created_at DESC", "id DESC"))
}

func (r *MatchRepository) ListRecentCompleted(ctx context.Context, limit int) ([]match.Match, error) {
	return r.selectMatches(ctx, "select recent matches",
		qb.Select(matchSelectColumns...).From("matches").
			Where(qb.Eq("is_completed", true)).
			OrderBy("played_date DESC NULLS LAST", "id DESC").
			Limit(limit))
}

func (r *MatchRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]match.Match, error) {
	return r.selectMatches(ctx, "select upcoming matches",
		qb.Select(matchSelectColumns...).From("matches").
			Where(
				qb.Eq("is_completed", false),
				qb.Expr("scheduled_date >= ?", from.UTC()),
			).
			OrderBy("scheduled_date", "id").
			Limit(limit))
}

func (r *MatchRepository) ListCompletedByTeam(ctx context.Context, teamID int64) ([]match.Match, error) {
	return r.selectMatches(ctx, "select completed matches by team",
		qb.Select(matchSelectColumns...).From("matches").
			Where(
				qb.Eq("is_completed", true),
				qb.Or(qb.Eq("team1_id", teamID), qb.Eq("team2_id", teamID)),
			).
			OrderBy("id"))
}

func (r *MatchRepository) GetByIDs(ctx context.Context, ids []int64) ([]match.Match, error) {
	if len(ids) == 0 {
		return []match.Match{}, nil
	}
	return r.selectMatches(ctx, "select matches by ids",
		qb.Select(matchSelectColumns...).From("matches").
			Where(qb.In("id", int64SliceToAny(ids))).
			OrderBy("id"))
}

func (r *MatchRepository) selectMatches(ctx context.Context, op string, builder *qb.SelectBuilder) ([]match.Match, error) {
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	m, err := getMatch(ctx, r.db, id, "")
	if err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, err
	}
	return m, true, nil
}

func (r *MatchRepository) CountCompleted(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").Where(qb.Eq("is_completed", true)).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count completed matches query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count completed matches: %w", err)
	}
	return total, nil
}

func (r *MatchRepository) MapPlayCounts(ctx context.Context) ([]match.MapCount, error) {
	query, args, err := qb.Select("map_name", "COUNT(*) AS times_played").From("matches").
		Where(
			qb.Eq("is_completed", true),
			qb.IsNotNull("map_name"),
			qb.Expr("map_name <> ''"),
		).
		GroupBy("map_name").
		OrderBy("times_played DESC", "MIN(id)").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build map play counts query: %w", err)
	}

	var rows []mapCountModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select map play counts: %w", err)
	}

	out := make([]match.MapCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.MapCount{MapName: row.MapName, TimesPlayed: row.TimesPlayed})
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) (match.Match, error) {
	return insertMatch(ctx, r.db, item)
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) (match.Match, error) {
	query, args, err := qb.UpdateModel("matches", newMatchWriteModel(item)).
		Where(qb.Eq("id", item.ID)).
		Suffix("RETURNING " + joinColumns(matchSelectColumns)).
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build update match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("update match id=%d: %w", item.ID, err)
	}
	return matchFromRow(row), nil
}

func (r *MatchRepository) Load(ctx context.Context, item match.Match, stats []match.Stat) (_ match.Match, _ []match.Stat, err error) {
	if dup, ok := match.FindDuplicateStat(stats); ok {
		return match.Match{}, nil, fmt.Errorf("%w: player %d half %d", match.ErrDuplicateStat, dup.PlayerID, dup.Half)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.Match{}, nil, fmt.Errorf("begin load match tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	created, err := insertMatch(ctx, tx, item)
	if err != nil {
		return match.Match{}, nil, err
	}

	saved := make([]match.Stat, 0, len(stats))
	for _, s := range stats {
		s.MatchID = created.ID
		inserted, insertErr := insertStat(ctx, tx, s)
		if insertErr != nil {
			err = insertErr
			return match.Match{}, nil, err
		}
		saved = append(saved, inserted)
	}

	if err = applyDeltas(ctx, tx, match.LoadDeltas(created.Type, saved)); err != nil {
		return match.Match{}, nil, err
	}

	if err = tx.Commit(); err != nil {
		return match.Match{}, nil, fmt.Errorf("commit load match tx: %w", err)
	}
	return created, saved, nil
}

func (r *MatchRepository) AddStat(ctx context.Context, stat match.Stat) (_ match.Stat, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return match.Stat{}, fmt.Errorf("begin add stat tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	m, err := getMatch(ctx, tx, stat.MatchID, "FOR SHARE")
	if err != nil {
		return match.Stat{}, err
	}

	saved, err := insertStat(ctx, tx, stat)
	if err != nil {
		return match.Stat{}, err
	}

	if delta, ok := match.AddStatDelta(m.Type, saved); ok {
		if err = applyDeltas(ctx, tx, []match.Delta{delta}); err != nil {
			return match.Stat{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return match.Stat{}, fmt.Errorf("commit add stat tx: %w", err)
	}
	return saved, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete match tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	m, err := getMatch(ctx, tx, id, "FOR UPDATE")
	if err != nil {
		if isNotFound(err) {
			err = nil
			_ = tx.Rollback()
			return nil
		}
		return err
	}

	stats, err := selectStats(ctx, tx, qb.Eq("match_id", id))
	if err != nil {
		return err
	}
	if err = applyDeltas(ctx, tx, match.DeleteDeltas(m, stats)); err != nil {
		return err
	}

	statsQuery, statsArgs, err := qb.DeleteFrom("player_match_stats").Where(qb.Eq("match_id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match stats query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, statsQuery, statsArgs...); err != nil {
		return fmt.Errorf("delete stats of match id=%d: %w", id, err)
	}

	matchQuery, matchArgs, err := qb.DeleteFrom("matches").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, matchQuery, matchArgs...); err != nil {
		return fmt.Errorf("delete match id=%d: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete match tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) ListStatsByMatch(ctx context.Context, matchID int64) ([]match.Stat, error) {
	return selectStats(ctx, r.db, qb.Eq("match_id", matchID))
}

func (r *MatchRepository) ListStatsByPlayer(ctx context.Context, playerID int64) ([]match.Stat, error) {
	return selectStats(ctx, r.db, qb.Eq("player_id", playerID))
}

func getMatch(ctx context.Context, q sqlx.QueryerContext, id int64, lock string) (match.Match, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(qb.Eq("id", id)).
		Limit(1).
		Suffix(lock).
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("select match id=%d: %w", id, err)
	}
	return matchFromRow(row), nil
}

func insertMatch(ctx context.Context, q sqlx.QueryerContext, item match.Match) (match.Match, error) {
	query, args, err := qb.InsertModel("matches", newMatchWriteModel(item), "RETURNING "+joinColumns(matchSelectColumns))
	if err != nil {
		return match.Match{}, fmt.Errorf("build insert match query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("insert match: %w", err)
	}
	return matchFromRow(row), nil
}

func insertStat(ctx context.Context, q sqlx.QueryerContext, s match.Stat) (match.Stat, error) {
	query, args, err := qb.InsertModel("player_match_stats", statInsertModel{
		MatchID:  s.MatchID,
		PlayerID: s.PlayerID,
		TeamID:   s.TeamID,
		Half:     s.Half,
		Kills:    s.Kills,
		Deaths:   s.Deaths,
		Flags:    s.Flags,
		IsRinger: s.IsRinger,
	}, "RETURNING id")
	if err != nil {
		return match.Stat{}, fmt.Errorf("build insert stat query: %w", err)
	}

	if err := sqlx.GetContext(ctx, q, &s.ID, query, args...); err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return match.Stat{}, fmt.Errorf("%w: player %d half %d", match.ErrDuplicateStat, s.PlayerID, s.Half)
		}
		return match.Stat{}, fmt.Errorf("insert stat for player %d: %w", s.PlayerID, err)
	}
	return s, nil
}

func selectStats(ctx context.Context, q sqlx.QueryerContext, cond qb.Condition) ([]match.Stat, error) {
	query, args, err := qb.Select(statSelectColumns...).From("player_match_stats").
		Where(cond).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stats query: %w", err)
	}

	var rows []statTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stats: %w", err)
	}

	out := make([]match.Stat, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Stat{
			ID:       row.ID,
			MatchID:  row.MatchID,
			PlayerID: row.PlayerID,
			TeamID:   row.TeamID,
			Half:     row.Half,
			Kills:    row.Kills,
			Deaths:   row.Deaths,
			Flags:    row.Flags,
			IsRinger: row.IsRinger,
		})
	}
	return out, nil
}

// applyDeltas moves player counters inside the caller's transaction.
func applyDeltas(ctx context.Context, tx *sqlx.Tx, deltas []match.Delta) error {
	for _, d := range deltas {
		query, args, err := deltaQuery(d)
		if err != nil {
			return fmt.Errorf("build apply delta query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("apply delta to player %d: %w", d.PlayerID, err)
		}
	}
	return nil
}

func deltaQuery(d match.Delta) (string, []any, error) {
	return qb.Update("players").
		SetExpr("total_kills", "total_kills + ?", d.Kills).
		SetExpr("total_deaths", "total_deaths + ?", d.Deaths).
		SetExpr("total_flags", "total_flags + ?", d.Flags).
		SetExpr("matches_played", "GREATEST(matches_played + ?, 0)", d.MatchesPlayed).
		Where(qb.Eq("id", d.PlayerID)).
		ToSQL()
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:            row.ID,
		Type:          match.Type(row.MatchType),
		Team1ID:       row.Team1ID,
		Team2ID:       row.Team2ID,
		Team1Score:    row.Team1Score,
		Team2Score:    row.Team2Score,
		MapName:       row.MapName.String,
		ScheduledDate: nullTimePtr(row.ScheduledDate),
		PlayedDate:    nullTimePtr(row.PlayedDate),
		IsCompleted:   row.IsCompleted,
		CreatedAt:     row.CreatedAt.UTC(),
	}
}
