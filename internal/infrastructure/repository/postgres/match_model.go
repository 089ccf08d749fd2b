package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
)

type matchTableModel struct {
	ID            int64          `db:"id"`
	MatchType     string         `db:"match_type"`
	Team1ID       int64          `db:"team1_id"`
	Team2ID       int64          `db:"team2_id"`
	Team1Score    int            `db:"team1_score"`
	Team2Score    int            `db:"team2_score"`
	MapName       sql.NullString `db:"map_name"`
	ScheduledDate sql.NullTime   `db:"scheduled_date"`
	PlayedDate    sql.NullTime   `db:"played_date"`
	IsCompleted   bool           `db:"is_completed"`
	CreatedAt     time.Time      `db:"created_at"`
}

type matchWriteModel struct {
	MatchType     string         `db:"match_type"`
	Team1ID       int64          `db:"team1_id"`
	Team2ID       int64          `db:"team2_id"`
	Team1Score    int            `db:"team1_score"`
	Team2Score    int            `db:"team2_score"`
	MapName       sql.NullString `db:"map_name"`
	ScheduledDate sql.NullTime   `db:"scheduled_date"`
	PlayedDate    sql.NullTime   `db:"played_date"`
	IsCompleted   bool           `db:"is_completed"`
}

func newMatchWriteModel(item match.Match) matchWriteModel {
	return matchWriteModel{
		MatchType:     string(item.Type),
		Team1ID:       item.Team1ID,
		Team2ID:       item.Team2ID,
		Team1Score:    item.Team1Score,
		Team2Score:    item.Team2Score,
		MapName:       stringToNull(item.MapName),
		ScheduledDate: timePtrToNull(item.ScheduledDate),
		PlayedDate:    timePtrToNull(item.PlayedDate),
		IsCompleted:   item.IsCompleted,
	}
}

type statTableModel struct {
	ID       int64 `db:"id"`
	MatchID  int64 `db:"match_id"`
	PlayerID int64 `db:"player_id"`
	TeamID   int64 `db:"team_id"`
	Half     int   `db:"half"`
	Kills    int   `db:"kills"`
	Deaths   int   `db:"deaths"`
	Flags    int   `db:"flags"`
	IsRinger bool  `db:"is_ringer"`
}

type statInsertModel struct {
	MatchID  int64 `db:"match_id"`
	PlayerID int64 `db:"player_id"`
	TeamID   int64 `db:"team_id"`
	Half     int   `db:"half"`
	Kills    int   `db:"kills"`
	Deaths   int   `db:"deaths"`
	Flags    int   `db:"flags"`
	IsRinger bool  `db:"is_ringer"`
}

type mapCountModel struct {
	MapName     string `db:"map_name"`
	TimesPlayed int    `db:"times_played"`
}
