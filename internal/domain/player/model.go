package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrDuplicateNickname = errors.New("player nickname already exists")
	ErrHasStats          = errors.New("player has match history")
	// ErrTeamFull is returned by writes that would overfill a capped roster.
	ErrTeamFull = errors.New("team roster is full")
)

// Totals are the season counters derived from counted stats rows.
// Only the match reconciliation rules may change them.
type Totals struct {
	Kills         int
	Deaths        int
	Flags         int
	MatchesPlayed int
}

// Player is a league participant. TeamID is nil for unassigned players.
type Player struct {
	ID        int64
	Nickname  string
	TeamID    *int64
	Totals    Totals
	CreatedAt time.Time
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Nickname) == "" {
		return fmt.Errorf("player nickname is required")
	}

	return nil
}

func (p Player) KDRatio() float64 {
	return KDRatio(p.Totals.Kills, p.Totals.Deaths)
}

func (p Player) InTeam(teamID int64) bool {
	return p.TeamID != nil && *p.TeamID == teamID
}

// KDRatio is kills/deaths rounded to two decimals. With no deaths the ratio is the kill count.
func KDRatio(kills, deaths int) float64 {
	if deaths > 0 {
		return roundDecimals(float64(kills)/float64(deaths), 2)
	}
	if kills > 0 {
		return float64(kills)
	}
	return 0
}

// roundDecimals rounds the exact binary value half to even.
func roundDecimals(v float64, places int) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return out
}
