package match

import (
	"errors"
	"testing"
	"time"
)

func TestParseType(t *testing.T) {
	got, err := ParseType(" scrim ")
	if err != nil {
		t.Fatalf("parse type: %v", err)
	}
	if got != TypeScrim {
		t.Fatalf("unexpected type: %s", got)
	}

	if _, err := ParseType("CUP"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestMatchValidate_SameTeam(t *testing.T) {
	err := Match{Type: TypeLeague, Team1ID: 3, Team2ID: 3}.Validate()
	if !errors.Is(err, ErrSameTeam) {
		t.Fatalf("expected ErrSameTeam, got %v", err)
	}
}

func TestMatchComplete_StampsPlayedDateOnce(t *testing.T) {
	now := time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC)
	m := Match{Type: TypeLeague, Team1ID: 1, Team2ID: 2}

	m.Complete(now)
	if !m.IsCompleted || m.PlayedDate == nil || !m.PlayedDate.Equal(now) {
		t.Fatalf("unexpected match after complete: %+v", m)
	}

	m.Complete(now.Add(time.Hour))
	if !m.PlayedDate.Equal(now) {
		t.Fatalf("played date must not move once set, got %s", m.PlayedDate)
	}
}

func TestStatValidate(t *testing.T) {
	tests := []struct {
		name    string
		stat    Stat
		wantErr bool
	}{
		{name: "first half", stat: Stat{Half: 1}, wantErr: false},
		{name: "second half", stat: Stat{Half: 2, Kills: 3}, wantErr: false},
		{name: "half zero", stat: Stat{Half: 0}, wantErr: true},
		{name: "half three", stat: Stat{Half: 3}, wantErr: true},
		{name: "negative flags", stat: Stat{Half: 1, Flags: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stat.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestFindDuplicateStat(t *testing.T) {
	stats := []Stat{
		{PlayerID: 1, Half: 1},
		{PlayerID: 1, Half: 2},
		{PlayerID: 2, Half: 1},
	}
	if _, ok := FindDuplicateStat(stats); ok {
		t.Fatalf("did not expect duplicate")
	}

	stats = append(stats, Stat{PlayerID: 1, Half: 2, Kills: 9})
	dup, ok := FindDuplicateStat(stats)
	if !ok || dup.Kills != 9 {
		t.Fatalf("expected duplicate row with 9 kills, got %+v ok=%v", dup, ok)
	}
}
