package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
)

func TestPlayerRepository_RosterCap(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	teams := NewTeamRepository(store)
	players := NewPlayerRepository(store)

	allies, err := teams.Create(ctx, team.Team{Name: "Allied Force", Tag: "AF"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	fa, err := teams.Create(ctx, team.Team{Name: team.FreeAgentsName, Tag: team.FreeAgentsTag, IsFreeAgents: true})
	if err != nil {
		t.Fatalf("create free agents: %v", err)
	}

	var last player.Player
	for i := 0; i < team.MaxPlayers; i++ {
		last, err = players.Create(ctx, player.Player{Nickname: fmt.Sprintf("rifle%d", i), TeamID: &allies.ID})
		if err != nil {
			t.Fatalf("create player %d: %v", i, err)
		}
	}

	if _, err := players.Create(ctx, player.Player{Nickname: "eleventh", TeamID: &allies.ID}); !errors.Is(err, player.ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull on create, got %v", err)
	}

	spare, err := players.Create(ctx, player.Player{Nickname: "spare", TeamID: &fa.ID})
	if err != nil {
		t.Fatalf("create free agent: %v", err)
	}
	spare.TeamID = &allies.ID
	if _, err := players.Update(ctx, spare); !errors.Is(err, player.ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull on move, got %v", err)
	}

	last.Nickname = "rifle-renamed"
	if _, err := players.Update(ctx, last); err != nil {
		t.Fatalf("expected member of full team to stay editable, got %v", err)
	}

	for i := 0; i < team.MaxPlayers+2; i++ {
		if _, err := players.Create(ctx, player.Player{Nickname: fmt.Sprintf("fa%d", i), TeamID: &fa.ID}); err != nil {
			t.Fatalf("expected free agents to be uncapped, got %v", err)
		}
	}
}
