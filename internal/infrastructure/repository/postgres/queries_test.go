package postgres

import (
	"testing"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
)

func TestDeltaQuery(t *testing.T) {
	stats := []match.Stat{
		{MatchID: 1, PlayerID: 7, TeamID: 2, Half: 1, Kills: 12, Deaths: 4, Flags: 1},
		{MatchID: 1, PlayerID: 7, TeamID: 2, Half: 2, Kills: 3, Deaths: 6},
	}
	completed := match.Match{ID: 1, Type: match.TypeLeague, IsCompleted: true}

	tests := []struct {
		name     string
		delta    match.Delta
		wantArgs []any
	}{
		{name: "load adds both halves and one match", delta: match.LoadDeltas(match.TypeLeague, stats)[0], wantArgs: []any{15, 10, 1, 1, int64(7)}},
		{name: "delete subtracts", delta: match.DeleteDeltas(completed, stats)[0], wantArgs: []any{-15, -10, -1, -1, int64(7)}},
	}

	wantQuery := "UPDATE players SET total_kills = total_kills + $1, total_deaths = total_deaths + $2, " +
		"total_flags = total_flags + $3, matches_played = GREATEST(matches_played + $4, 0) WHERE id = $5"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := deltaQuery(tt.delta)
			if err != nil {
				t.Fatalf("build delta query: %v", err)
			}
			if query != wantQuery {
				t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("unexpected args: %+v", args)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Fatalf("arg %d: want %v got %v", i, tt.wantArgs[i], args[i])
				}
			}
		})
	}
}

func TestLockTeamQuery(t *testing.T) {
	query, args, err := lockTeamQuery(4)
	if err != nil {
		t.Fatalf("build lock team query: %v", err)
	}
	if query != "SELECT is_free_agents FROM teams WHERE id = $1 FOR UPDATE" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != int64(4) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
