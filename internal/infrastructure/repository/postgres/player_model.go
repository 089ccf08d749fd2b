package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID            int64         `db:"id"`
	Nickname      string        `db:"nickname"`
	TeamID        sql.NullInt64 `db:"team_id"`
	TotalKills    int           `db:"total_kills"`
	TotalDeaths   int           `db:"total_deaths"`
	TotalFlags    int           `db:"total_flags"`
	MatchesPlayed int           `db:"matches_played"`
	CreatedAt     time.Time     `db:"created_at"`
}

type teamPlayerCountModel struct {
	TeamID int64 `db:"team_id"`
	Count  int   `db:"player_count"`
}
