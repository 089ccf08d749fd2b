package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
)

func TestMatchService_LoadTwoHalvesCountsOneMatch(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	sniper := l.player(t, "sniper", &allies.ID)

	detail, err := l.matchSvc.Load(ctx, LoadMatchInput{
		Type:       "LEAGUE",
		Team1ID:    allies.ID,
		Team2ID:    axis.ID,
		Team1Score: 3,
		Team2Score: 1,
		MapName:    "dod_anzio",
		Stats: []StatInput{
			{PlayerID: sniper.ID, TeamID: allies.ID, Half: 1, Kills: 5, Deaths: 2},
			{PlayerID: sniper.ID, TeamID: allies.ID, Half: 2, Kills: 3, Deaths: 1},
		},
	})
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	if !detail.Match.IsCompleted || detail.Match.PlayedDate == nil || !detail.Match.PlayedDate.Equal(testNow) {
		t.Fatalf("expected completed match stamped with now, got %+v", detail.Match)
	}
	if len(detail.Stats) != 2 || detail.Stats[0].PlayerNickname != "sniper" {
		t.Fatalf("unexpected stat views: %+v", detail.Stats)
	}
	if detail.Team1.Tag != "AF" || detail.Team2.Tag != "AX" {
		t.Fatalf("unexpected team labels: %+v / %+v", detail.Team1, detail.Team2)
	}

	got := l.totals(t, sniper.ID)
	want := player.Totals{Kills: 8, Deaths: 3, Flags: 0, MatchesPlayed: 1}
	if got != want {
		t.Fatalf("unexpected totals: got=%+v want=%+v", got, want)
	}
}

func TestMatchService_LoadScrimLeavesCountersUntouched(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	a := l.player(t, "alpha", &allies.ID)
	b := l.player(t, "bravo", &axis.ID)

	_, err := l.matchSvc.Load(ctx, LoadMatchInput{
		Type:    "SCRIM",
		Team1ID: allies.ID,
		Team2ID: axis.ID,
		MapName: "dod_avalanche",
		Stats: []StatInput{
			{PlayerID: a.ID, TeamID: allies.ID, Half: 1, Kills: 12, Deaths: 4, Flags: 2},
			{PlayerID: b.ID, TeamID: axis.ID, Half: 1, Kills: 4, Deaths: 12, Flags: 1},
		},
	})
	if err != nil {
		t.Fatalf("load scrim: %v", err)
	}

	for _, id := range []int64{a.ID, b.ID} {
		if got := l.totals(t, id); got != (player.Totals{}) {
			t.Fatalf("expected untouched totals for player %d, got %+v", id, got)
		}
	}
}

func TestMatchService_RingerRowsDoNotCount(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	regular := l.player(t, "regular", &allies.ID)
	ringer := l.player(t, "ringer", nil)

	_, err := l.matchSvc.Load(ctx, LoadMatchInput{
		Type:    "DRAFT",
		Team1ID: allies.ID,
		Team2ID: axis.ID,
		Stats: []StatInput{
			{PlayerID: regular.ID, TeamID: allies.ID, Half: 1, Kills: 6, Deaths: 3, Flags: 1},
			{PlayerID: ringer.ID, TeamID: axis.ID, Half: 1, Kills: 9, Deaths: 1, Flags: 3, IsRinger: true},
		},
	})
	if err != nil {
		t.Fatalf("load match: %v", err)
	}

	if got := l.totals(t, ringer.ID); got != (player.Totals{}) {
		t.Fatalf("expected ringer totals untouched, got %+v", got)
	}
	if got := l.totals(t, regular.ID); got != (player.Totals{Kills: 6, Deaths: 3, Flags: 1, MatchesPlayed: 1}) {
		t.Fatalf("unexpected regular totals: %+v", got)
	}
}

func TestMatchService_LoadThenDeleteRestoresTotals(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	a := l.player(t, "alpha", &allies.ID)
	b := l.player(t, "bravo", &axis.ID)

	first, err := l.matchSvc.Load(ctx, LoadMatchInput{
		Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID, Team1Score: 2, Team2Score: 1,
		Stats: []StatInput{
			{PlayerID: a.ID, TeamID: allies.ID, Half: 1, Kills: 10, Deaths: 5, Flags: 2},
			{PlayerID: b.ID, TeamID: axis.ID, Half: 1, Kills: 5, Deaths: 10},
		},
	})
	if err != nil {
		t.Fatalf("load first match: %v", err)
	}
	before := l.totals(t, a.ID)

	second, err := l.matchSvc.Load(ctx, LoadMatchInput{
		Type: "LEAGUE", Team1ID: axis.ID, Team2ID: allies.ID,
		Stats: []StatInput{
			{PlayerID: a.ID, TeamID: allies.ID, Half: 1, Kills: 7, Deaths: 7, Flags: 1},
			{PlayerID: a.ID, TeamID: allies.ID, Half: 2, Kills: 3, Deaths: 2},
		},
	})
	if err != nil {
		t.Fatalf("load second match: %v", err)
	}
	if got := l.totals(t, a.ID); got.MatchesPlayed != 2 || got.Kills != 20 {
		t.Fatalf("unexpected totals after second load: %+v", got)
	}

	if err := l.matchSvc.Delete(ctx, second.Match.ID); err != nil {
		t.Fatalf("delete second match: %v", err)
	}
	if got := l.totals(t, a.ID); got != before {
		t.Fatalf("expected totals restored: got=%+v want=%+v", got, before)
	}

	if err := l.matchSvc.Delete(ctx, first.Match.ID); err != nil {
		t.Fatalf("delete first match: %v", err)
	}
	for _, id := range []int64{a.ID, b.ID} {
		if got := l.totals(t, id); got != (player.Totals{}) {
			t.Fatalf("expected zero totals for player %d, got %+v", id, got)
		}
	}

	stats, err := l.matches.ListStatsByPlayer(ctx, a.ID)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected stats rows removed with their match, got %d", len(stats))
	}
}

func TestMatchService_LoadDuplicateHalfIsConflictAndAtomic(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	a := l.player(t, "alpha", &allies.ID)

	_, err := l.matchSvc.Load(ctx, LoadMatchInput{
		Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID,
		Stats: []StatInput{
			{PlayerID: a.ID, TeamID: allies.ID, Half: 1, Kills: 1},
			{PlayerID: a.ID, TeamID: allies.ID, Half: 1, Kills: 2},
		},
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	matches, err := l.matchSvc.List(ctx, MatchFilter{})
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no match persisted, got %d", len(matches))
	}
	if got := l.totals(t, a.ID); got != (player.Totals{}) {
		t.Fatalf("expected untouched totals, got %+v", got)
	}
}

func TestMatchService_LoadUnknownPlayerIsNotFound(t *testing.T) {
	l := newLeague(t)
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")

	_, err := l.matchSvc.Load(context.Background(), LoadMatchInput{
		Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID,
		Stats: []StatInput{{PlayerID: 404, TeamID: allies.ID, Half: 1}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_LoadRejectsInvalidHalf(t *testing.T) {
	l := newLeague(t)
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	a := l.player(t, "alpha", &allies.ID)

	_, err := l.matchSvc.Load(context.Background(), LoadMatchInput{
		Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID,
		Stats: []StatInput{{PlayerID: a.ID, TeamID: allies.ID, Half: 3}},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_SelfMatchIsAlwaysInvalid(t *testing.T) {
	l := newLeague(t)
	allies := l.team(t, "Allied Force", "AF")

	cases := []struct {
		name  string
		input CreateMatchInput
	}{
		{name: "existing team", input: CreateMatchInput{Type: "LEAGUE", Team1ID: allies.ID, Team2ID: allies.ID}},
		{name: "missing team", input: CreateMatchInput{Type: "DRAFT", Team1ID: 99, Team2ID: 99}},
		{name: "with map and schedule", input: CreateMatchInput{Type: "SCRIM", Team1ID: allies.ID, Team2ID: allies.ID, MapName: "dod_flash", ScheduledDate: ptr(testNow.Add(time.Hour))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.matchSvc.Create(context.Background(), tc.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	_, err := l.matchSvc.Load(context.Background(), LoadMatchInput{Type: "LEAGUE", Team1ID: allies.ID, Team2ID: allies.ID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on load, got %v", err)
	}
}

func TestMatchService_CreateWithMissingTeamIsNotFound(t *testing.T) {
	l := newLeague(t)
	allies := l.team(t, "Allied Force", "AF")

	_, err := l.matchSvc.Create(context.Background(), CreateMatchInput{Type: "LEAGUE", Team1ID: allies.ID, Team2ID: 42})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_AddStatDuplicateIsConflictWithoutCounterChange(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	a := l.player(t, "alpha", &allies.ID)

	loaded, err := l.matchSvc.Load(ctx, LoadMatchInput{
		Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID,
		Stats: []StatInput{{PlayerID: a.ID, TeamID: allies.ID, Half: 1, Kills: 4, Deaths: 2}},
	})
	if err != nil {
		t.Fatalf("load match: %v", err)
	}
	before := l.totals(t, a.ID)

	_, err = l.matchSvc.AddStat(ctx, loaded.Match.ID, StatInput{PlayerID: a.ID, TeamID: allies.ID, Half: 1, Kills: 50})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if got := l.totals(t, a.ID); got != before {
		t.Fatalf("expected totals unchanged: got=%+v want=%+v", got, before)
	}
}

func TestMatchService_AddStatLeavesMatchesPlayed(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	a := l.player(t, "alpha", &allies.ID)

	created, err := l.matchSvc.Create(ctx, CreateMatchInput{Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	saved, err := l.matchSvc.AddStat(ctx, created.Match.ID, StatInput{PlayerID: a.ID, TeamID: allies.ID, Half: 2, Kills: 7, Deaths: 3, Flags: 1})
	if err != nil {
		t.Fatalf("add stat: %v", err)
	}
	if saved.ID == 0 || saved.MatchID != created.Match.ID {
		t.Fatalf("unexpected saved stat: %+v", saved)
	}

	if got := l.totals(t, a.ID); got != (player.Totals{Kills: 7, Deaths: 3, Flags: 1, MatchesPlayed: 0}) {
		t.Fatalf("unexpected totals: %+v", got)
	}

	// The match was never completed, so deleting it keeps the added kills.
	if err := l.matchSvc.Delete(ctx, created.Match.ID); err != nil {
		t.Fatalf("delete match: %v", err)
	}
	if got := l.totals(t, a.ID); got.Kills != 7 {
		t.Fatalf("expected kills kept after deleting incomplete match, got %+v", got)
	}
}

func TestMatchService_AddStatMissingReferences(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	a := l.player(t, "alpha", &allies.ID)
	created, err := l.matchSvc.Create(ctx, CreateMatchInput{Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	cases := []struct {
		name    string
		matchID int64
		input   StatInput
	}{
		{name: "match", matchID: 999, input: StatInput{PlayerID: a.ID, TeamID: allies.ID, Half: 1}},
		{name: "player", matchID: created.Match.ID, input: StatInput{PlayerID: 999, TeamID: allies.ID, Half: 1}},
		{name: "team", matchID: created.Match.ID, input: StatInput{PlayerID: a.ID, TeamID: 999, Half: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.matchSvc.AddStat(ctx, tc.matchID, tc.input)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestMatchService_UpdateCompletesAndStampsPlayedDate(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")
	created, err := l.matchSvc.Create(ctx, CreateMatchInput{Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	updated, err := l.matchSvc.Update(ctx, created.Match.ID, UpdateMatchInput{
		Team1Score:  ptr(4),
		Team2Score:  ptr(2),
		MapName:     ptr("dod_caen"),
		IsCompleted: ptr(true),
	})
	if err != nil {
		t.Fatalf("update match: %v", err)
	}
	if !updated.Match.IsCompleted || updated.Match.PlayedDate == nil || !updated.Match.PlayedDate.Equal(testNow) {
		t.Fatalf("expected played date stamped, got %+v", updated.Match)
	}
	if updated.Match.MapName != "dod_caen" || updated.Match.Team1Score != 4 {
		t.Fatalf("unexpected updated match: %+v", updated.Match)
	}

	_, err = l.matchSvc.Update(ctx, created.Match.ID, UpdateMatchInput{Team2ID: ptr(allies.ID)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self pairing, got %v", err)
	}
	_, err = l.matchSvc.Update(ctx, created.Match.ID, UpdateMatchInput{Type: ptr("FRIENDLY")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad type, got %v", err)
	}
}

func TestMatchService_ListingsAndOrdering(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	allies := l.team(t, "Allied Force", "AF")
	axis := l.team(t, "Axis Squad", "AX")

	for _, offset := range []time.Duration{48 * time.Hour, -time.Hour, 2 * time.Hour} {
		if _, err := l.matchSvc.Create(ctx, CreateMatchInput{
			Type: "LEAGUE", Team1ID: allies.ID, Team2ID: axis.ID, ScheduledDate: ptr(testNow.Add(offset)),
		}); err != nil {
			t.Fatalf("create match: %v", err)
		}
	}
	for _, played := range []time.Time{testNow.Add(-72 * time.Hour), testNow.Add(-24 * time.Hour)} {
		if _, err := l.matchSvc.Load(ctx, LoadMatchInput{
			Type: "SCRIM", Team1ID: allies.ID, Team2ID: axis.ID, PlayedDate: ptr(played),
		}); err != nil {
			t.Fatalf("load match: %v", err)
		}
	}

	upcoming, err := l.matchSvc.Upcoming(ctx)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].Match.ScheduledDate.After(*upcoming[1].Match.ScheduledDate) {
		t.Fatalf("expected two future matches ascending, got %+v", upcoming)
	}

	recent, err := l.matchSvc.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Match.PlayedDate.Before(*recent[1].Match.PlayedDate) {
		t.Fatalf("expected completed matches newest first, got %+v", recent)
	}

	completed, err := l.matchSvc.List(ctx, MatchFilter{IsCompleted: ptr(true)})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("expected two completed matches, got %d", len(completed))
	}

	scrims, err := l.matchSvc.List(ctx, MatchFilter{Type: "scrim"})
	if err != nil {
		t.Fatalf("list scrims: %v", err)
	}
	for _, m := range scrims {
		if m.Match.Type != match.TypeScrim {
			t.Fatalf("unexpected match type in scrim filter: %s", m.Match.Type)
		}
	}

	if _, err := l.matchSvc.List(ctx, MatchFilter{Type: "cup"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
}

func TestMatchService_GetMissingIsNotFound(t *testing.T) {
	l := newLeague(t)
	if _, err := l.matchSvc.Get(context.Background(), 77); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := l.matchSvc.Delete(context.Background(), 77); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}
