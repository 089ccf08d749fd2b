package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "nickname").
		From("players").
		Where(Eq("team_id", int64(3)), Expr("matches_played > ?", 0)).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, nickname FROM players WHERE team_id = $1 AND matches_played > $2 ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(3) || args[1] != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("name", "tag").
		Values("Allied Force", "AF").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (name, tag) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Allied Force" || args[1] != "AF" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("players").
		Set("nickname", "new").
		SetExpr("total_kills", "total_kills + ?", 7).
		Where(Eq("id", int64(1))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE players SET nickname = $1, total_kills = total_kills + $2 WHERE id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "new" || args[1] != 7 || args[2] != int64(1) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderOrAndSuffix(t *testing.T) {
	query, args, err := Select("id").
		From("matches").
		Where(Or(Eq("team1_id", int64(2)), Eq("team2_id", int64(2))), IsNotNull("played_date")).
		OrderBy("id DESC").
		Limit(5).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM matches WHERE (team1_id = $1 OR team2_id = $2) AND played_date IS NOT NULL ORDER BY id DESC LIMIT 5 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("player_match_stats").
		Where(Eq("match_id", int64(9))).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM player_match_stats WHERE match_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("player_match_stats").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditioned delete")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		MatchID int64 `db:"match_id"`
		Half    int   `db:"half"`
		Skipped int   `db:"-"`
		hidden  int
	}

	query, args, err := InsertModel("player_match_stats", row{MatchID: 4, Half: 2, hidden: 1}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO player_match_stats (match_id, half) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(4) || args[1] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateModel(t *testing.T) {
	type row struct {
		Team1Score int  `db:"team1_score"`
		Team2Score int  `db:"team2_score"`
		Completed  bool `db:"is_completed,omitempty"`
	}

	query, args, err := UpdateModel("matches", &row{Team1Score: 5, Team2Score: 3, Completed: true}).
		Where(Eq("id", int64(9))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update model query: %v", err)
	}

	wantQuery := "UPDATE matches SET team1_score = $1, team2_score = $2, is_completed = $3 WHERE id = $4"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != 5 || args[2] != true || args[3] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := UpdateModel("matches", nil).Where(Eq("id", 1)).ToSQL(); err == nil {
		t.Fatalf("expected error for nil model")
	}
	var missing *row
	if _, _, err := UpdateModel("matches", missing).ToSQL(); err == nil {
		t.Fatalf("expected error for nil pointer model")
	}
}
