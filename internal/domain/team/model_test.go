package team

import "testing"

func TestTeamHasCapacity(t *testing.T) {
	tests := []struct {
		name    string
		team    Team
		current int
		want    bool
	}{
		{name: "empty roster", team: Team{Name: "Alpha", Tag: "A"}, current: 0, want: true},
		{name: "one slot left", team: Team{Name: "Alpha", Tag: "A"}, current: MaxPlayers - 1, want: true},
		{name: "full roster", team: Team{Name: "Alpha", Tag: "A"}, current: MaxPlayers, want: false},
		{name: "free agents ignore cap", team: Team{Name: FreeAgentsName, Tag: FreeAgentsTag, IsFreeAgents: true}, current: 50, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.team.HasCapacity(tt.current); got != tt.want {
				t.Fatalf("HasCapacity(%d)=%v want=%v", tt.current, got, tt.want)
			}
		})
	}
}

func TestTeamValidate(t *testing.T) {
	if err := (Team{Name: " ", Tag: "A"}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if err := (Team{Name: "Alpha", Tag: ""}).Validate(); err == nil {
		t.Fatalf("expected error for blank tag")
	}
	if err := (Team{Name: "Alpha", Tag: "A"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
