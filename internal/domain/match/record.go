package match

import (
	"sort"
	"strconv"
)

type MapRecord struct {
	Wins   int
	Losses int
}

// Record summarises a team's completed matches.
type Record struct {
	Matches      int
	Wins         int
	Losses       int
	ScoreFor     int
	ScoreAgainst int
	MapRecord    map[string]MapRecord
}

func (r Record) ScoreDifference() int {
	return r.ScoreFor - r.ScoreAgainst
}

// WinRate is the win percentage rounded to one decimal, 0 with no matches.
func (r Record) WinRate() float64 {
	if r.Matches == 0 {
		return 0
	}
	return roundPercent(float64(r.Wins) / float64(r.Matches) * 100)
}

// TeamRecord folds completed matches involving teamID into a record.
// A win needs a strictly higher score; a tie counts as a loss.
func TeamRecord(teamID int64, matches []Match) Record {
	rec := Record{MapRecord: make(map[string]MapRecord)}
	for _, m := range matches {
		if !m.IsCompleted || !m.Involves(teamID) {
			continue
		}

		scoreFor, scoreAgainst := m.Scores(teamID)
		rec.Matches++
		rec.ScoreFor += scoreFor
		rec.ScoreAgainst += scoreAgainst

		mapName := m.MapName
		if mapName == "" {
			mapName = UnknownMap
		}
		mr := rec.MapRecord[mapName]
		if scoreFor > scoreAgainst {
			rec.Wins++
			mr.Wins++
		} else {
			rec.Losses++
			mr.Losses++
		}
		rec.MapRecord[mapName] = mr
	}
	return rec
}

// Line is a player's summed stats across the halves of one match.
type Line struct {
	MatchID int64
	Kills   int
	Deaths  int
	Flags   int
}

// LinesByMatch sums a player's rows per match, ordered by match id.
func LinesByMatch(stats []Stat) []Line {
	byMatch := make(map[int64]*Line)
	for _, s := range stats {
		l, ok := byMatch[s.MatchID]
		if !ok {
			l = &Line{MatchID: s.MatchID}
			byMatch[s.MatchID] = l
		}
		l.Kills += s.Kills
		l.Deaths += s.Deaths
		l.Flags += s.Flags
	}

	out := make([]Line, 0, len(byMatch))
	for _, l := range byMatch {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out
}

func roundPercent(v float64) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return out
}
