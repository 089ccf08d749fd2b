package match

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Type classifies a match. SCRIM results never count toward player totals.
type Type string

const (
	TypeDraft  Type = "DRAFT"
	TypeLeague Type = "LEAGUE"
	TypeScrim  Type = "SCRIM"
)

// UnknownMap buckets completed matches that have no map recorded.
const UnknownMap = "Unknown"

var (
	ErrSameTeam      = errors.New("a team cannot play against itself")
	ErrDuplicateStat = errors.New("stats already exist for this player and half")
	ErrInvalidType   = errors.New("invalid match type")
)

func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(raw))); t {
	case TypeDraft, TypeLeague, TypeScrim:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, raw)
	}
}

// CountsTowardTotals reports whether stats of this match type feed player totals.
func (t Type) CountsTowardTotals() bool {
	return t != TypeScrim
}

type Match struct {
	ID            int64
	Type          Type
	Team1ID       int64
	Team2ID       int64
	Team1Score    int
	Team2Score    int
	MapName       string
	ScheduledDate *time.Time
	PlayedDate    *time.Time
	IsCompleted   bool
	CreatedAt     time.Time
}

func (m Match) Validate() error {
	if _, err := ParseType(string(m.Type)); err != nil {
		return err
	}
	if m.Team1ID == m.Team2ID {
		return ErrSameTeam
	}
	if m.Team1Score < 0 || m.Team2Score < 0 {
		return fmt.Errorf("match scores must be >= 0")
	}

	return nil
}

func (m Match) Involves(teamID int64) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}

// Scores returns the score for and against the given team.
func (m Match) Scores(teamID int64) (scoreFor, scoreAgainst int) {
	if m.Team1ID == teamID {
		return m.Team1Score, m.Team2Score
	}
	return m.Team2Score, m.Team1Score
}

// Complete marks the match completed and stamps the played date when unset.
func (m *Match) Complete(now time.Time) {
	m.IsCompleted = true
	if m.PlayedDate == nil {
		played := now.UTC()
		m.PlayedDate = &played
	}
}

// Stat is one player's line for one half of a match.
type Stat struct {
	ID       int64
	MatchID  int64
	PlayerID int64
	TeamID   int64
	Half     int
	Kills    int
	Deaths   int
	Flags    int
	IsRinger bool
}

func (s Stat) Validate() error {
	if s.Half != 1 && s.Half != 2 {
		return fmt.Errorf("half must be 1 or 2, got %d", s.Half)
	}
	if s.Kills < 0 || s.Deaths < 0 || s.Flags < 0 {
		return fmt.Errorf("kills, deaths and flags must be >= 0")
	}

	return nil
}

// Counted reports whether this row feeds the player's totals for a match of type t.
func (s Stat) Counted(t Type) bool {
	return t.CountsTowardTotals() && !s.IsRinger
}

type statKey struct {
	playerID int64
	half     int
}

// FindDuplicateStat returns the first row repeating an earlier (player, half) pair.
func FindDuplicateStat(stats []Stat) (Stat, bool) {
	seen := make(map[statKey]struct{}, len(stats))
	for _, s := range stats {
		key := statKey{playerID: s.PlayerID, half: s.Half}
		if _, ok := seen[key]; ok {
			return s, true
		}
		seen[key] = struct{}{}
	}
	return Stat{}, false
}

// Filter narrows match listings. Nil fields are not applied.
type Filter struct {
	Type        *Type
	IsCompleted *bool
}

type MapCount struct {
	MapName     string
	TimesPlayed int
}
