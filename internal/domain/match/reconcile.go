package match

import (
	"sort"

	"github.com/riskibarqy/ktp-league/internal/domain/player"
)

// Delta is a signed adjustment to one player's totals.
type Delta struct {
	PlayerID      int64
	Kills         int
	Deaths        int
	Flags         int
	MatchesPlayed int
}

// Apply adds the delta to totals. MatchesPlayed never drops below zero.
func (d Delta) Apply(t player.Totals) player.Totals {
	t.Kills += d.Kills
	t.Deaths += d.Deaths
	t.Flags += d.Flags
	t.MatchesPlayed += d.MatchesPlayed
	if t.MatchesPlayed < 0 {
		t.MatchesPlayed = 0
	}
	return t
}

// LoadDeltas returns the totals increase for a match loaded with its full stat list.
// Each distinct counted player gains one match played regardless of halves.
func LoadDeltas(t Type, stats []Stat) []Delta {
	return collect(t, stats, 1, 1)
}

// AddStatDelta returns the totals increase for a single row added to an existing match.
// MatchesPlayed is left untouched on this path.
func AddStatDelta(t Type, s Stat) (Delta, bool) {
	if !s.Counted(t) {
		return Delta{}, false
	}
	return Delta{
		PlayerID: s.PlayerID,
		Kills:    s.Kills,
		Deaths:   s.Deaths,
		Flags:    s.Flags,
	}, true
}

// DeleteDeltas returns the totals decrease for removing a match and its stats.
// Only completed non-SCRIM matches were counted, so anything else yields nothing.
func DeleteDeltas(m Match, stats []Stat) []Delta {
	if !m.IsCompleted {
		return nil
	}
	return collect(m.Type, stats, -1, -1)
}

func collect(t Type, stats []Stat, sign, matches int) []Delta {
	if !t.CountsTowardTotals() {
		return nil
	}

	byPlayer := make(map[int64]*Delta)
	for _, s := range stats {
		if !s.Counted(t) {
			continue
		}
		d, ok := byPlayer[s.PlayerID]
		if !ok {
			d = &Delta{PlayerID: s.PlayerID, MatchesPlayed: matches}
			byPlayer[s.PlayerID] = d
		}
		d.Kills += sign * s.Kills
		d.Deaths += sign * s.Deaths
		d.Flags += sign * s.Flags
	}

	out := make([]Delta, 0, len(byPlayer))
	for _, d := range byPlayer {
		out = append(out, *d)
	}
	// stable player order keeps row locks acquired in the same sequence
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
