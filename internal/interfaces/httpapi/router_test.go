package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/ktp-league/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/ktp-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/ktp-league/internal/platform/password"
	"github.com/riskibarqy/ktp-league/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	teams := memory.NewTeamRepository(store)
	players := memory.NewPlayerRepository(store)
	matches := memory.NewMatchRepository(store)
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := jwtauth.NewProvider("test-secret", "ktp-league-test", time.Hour, users, nil, nil)

	if err := usecase.NewBootstrapService(users, teams, hasher, "", "", nil).Run(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	handler := NewHandler(HandlerDeps{
		Auth:    usecase.NewAuthService(users, tokens, hasher, nil),
		Teams:   usecase.NewTeamService(teams, players, matches, nil),
		Players: usecase.NewPlayerService(players, teams, matches, nil),
		Matches: usecase.NewMatchService(matches, teams, players, nil),
		Stats:   usecase.NewStatsService(players, teams, matches),
		Version: "test",
	})
	return NewRouter(handler, tokens, nil, RouterConfig{LoginRatePerMinute: 60, LoginBurst: 20})
}

func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			c.t.Fatalf("unmarshal %s %s response: %v", method, path, err)
		}
	}
	return rec.Code, out
}

func (c *apiClient) mustData(method, path string, body any) map[string]any {
	c.t.Helper()
	code, out := c.do(method, path, body)
	if code != http.StatusOK {
		c.t.Fatalf("%s %s: expected 200, got %d: %v", method, path, code, out)
	}
	data, _ := out["data"].(map[string]any)
	return data
}

func (c *apiClient) mustList(method, path string) []any {
	c.t.Helper()
	code, out := c.do(method, path, nil)
	if code != http.StatusOK {
		c.t.Fatalf("%s %s: expected 200, got %d: %v", method, path, code, out)
	}
	data, _ := out["data"].([]any)
	return data
}

func loginAsAdmin(t *testing.T, router http.Handler) *apiClient {
	t.Helper()

	form := url.Values{"username": {"admin"}, "password": {"admin"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Data tokenDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal token: %v", err)
	}
	if out.Data.AccessToken == "" || out.Data.TokenType != "bearer" {
		t.Fatalf("unexpected token payload: %+v", out.Data)
	}
	return &apiClient{t: t, router: router, token: out.Data.AccessToken}
}

func idOf(t *testing.T, data map[string]any) int64 {
	t.Helper()
	id, ok := data["id"].(float64)
	if !ok {
		t.Fatalf("response has no id: %v", data)
	}
	return int64(id)
}

func TestRouter_PublicRoutes(t *testing.T) {
	router := newTestRouter(t)
	anon := &apiClient{t: t, router: router}

	root := anon.mustData(http.MethodGet, "/", nil)
	if root["message"] != "KTP League API" || root["version"] != "test" {
		t.Fatalf("unexpected root payload: %v", root)
	}

	health := anon.mustData(http.MethodGet, "/api/health", nil)
	if health["status"] != "healthy" {
		t.Fatalf("unexpected health payload: %v", health)
	}

	if code, _ := anon.do(http.MethodGet, "/api/teams", nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	if code, _ := anon.do(http.MethodGet, "/nope", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", code)
	}
}

func TestRouter_LoginJSONRejectsBadPassword(t *testing.T) {
	anon := &apiClient{t: t, router: newTestRouter(t)}

	code, out := anon.do(http.MethodPost, "/api/auth/login-json", map[string]string{"username": "admin", "password": "wrong"})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %v", code, out)
	}
}

func TestRouter_LoadMatchFlow(t *testing.T) {
	router := newTestRouter(t)
	api := loginAsAdmin(t, router)

	me := api.mustData(http.MethodGet, "/api/auth/me", nil)
	if me["username"] != "admin" || me["is_admin"] != true {
		t.Fatalf("unexpected me payload: %v", me)
	}

	allies := idOf(t, api.mustData(http.MethodPost, "/api/teams", map[string]any{"name": "Allies", "tag": "AL"}))
	axis := idOf(t, api.mustData(http.MethodPost, "/api/teams", map[string]any{"name": "Axis", "tag": "AX"}))
	sniper := idOf(t, api.mustData(http.MethodPost, "/api/players", map[string]any{"nickname": "sniper", "team_id": allies}))
	rifle := idOf(t, api.mustData(http.MethodPost, "/api/players", map[string]any{"nickname": "rifle", "team_id": axis}))

	loaded := api.mustData(http.MethodPost, "/api/matches/load", map[string]any{
		"match_type":  "LEAGUE",
		"team1_id":    allies,
		"team2_id":    axis,
		"map_name":    "dod_anzio",
		"team1_score": 5,
		"team2_score": 3,
		"player_stats": []map[string]any{
			{"player_id": sniper, "team_id": allies, "half": 1, "kills": 10, "deaths": 4, "flags": 1},
			{"player_id": sniper, "team_id": allies, "half": 2, "kills": 6, "deaths": 4, "flags": 0},
			{"player_id": rifle, "team_id": axis, "half": 1, "kills": 8, "deaths": 16, "flags": 2},
		},
	})
	matchID := idOf(t, loaded)
	if loaded["is_completed"] != true {
		t.Fatalf("loaded match should be completed: %v", loaded)
	}
	if stats, _ := loaded["player_stats"].([]any); len(stats) != 3 {
		t.Fatalf("expected 3 stat rows, got %v", loaded["player_stats"])
	}

	player := api.mustData(http.MethodGet, fmt.Sprintf("/api/players/%d", sniper), nil)
	if player["total_kills"] != float64(16) || player["matches_played"] != float64(1) {
		t.Fatalf("unexpected totals after load: %v", player)
	}

	board := api.mustList(http.MethodGet, "/api/stats/leaderboard?sort_by=kills&limit=1")
	if len(board) != 1 || board[0].(map[string]any)["nickname"] != "sniper" {
		t.Fatalf("unexpected leaderboard: %v", board)
	}

	teamStats := api.mustData(http.MethodGet, fmt.Sprintf("/api/stats/team/%d", allies), nil)
	if teamStats["wins"] != float64(1) || teamStats["win_rate"] != float64(100) {
		t.Fatalf("unexpected team stats: %v", teamStats)
	}

	recent := api.mustList(http.MethodGet, "/api/matches/recent?limit=5")
	if len(recent) != 1 {
		t.Fatalf("expected one recent match, got %d", len(recent))
	}

	if code, out := api.do(http.MethodDelete, fmt.Sprintf("/api/players/%d", sniper), nil); code != http.StatusConflict {
		t.Fatalf("expected 409 deleting player with history, got %d: %v", code, out)
	}

	deleted := api.mustData(http.MethodDelete, fmt.Sprintf("/api/matches/%d", matchID), nil)
	if deleted["message"] != "Match deleted successfully" {
		t.Fatalf("unexpected delete payload: %v", deleted)
	}

	player = api.mustData(http.MethodGet, fmt.Sprintf("/api/players/%d", sniper), nil)
	if player["total_kills"] != float64(0) || player["matches_played"] != float64(0) {
		t.Fatalf("totals should be restored after delete: %v", player)
	}
}

func TestRouter_ValidationErrors(t *testing.T) {
	api := loginAsAdmin(t, newTestRouter(t))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "bad match type", method: http.MethodPost, path: "/api/matches", body: map[string]any{"match_type": "CUP", "team1_id": 1, "team2_id": 2}, want: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/api/teams", body: map[string]any{"name": "A", "tag": "A", "colour": "red"}, want: http.StatusBadRequest},
		{name: "non numeric id", method: http.MethodGet, path: "/api/teams/abc", want: http.StatusBadRequest},
		{name: "missing team", method: http.MethodGet, path: "/api/teams/999", want: http.StatusNotFound},
		{name: "bad half", method: http.MethodPost, path: "/api/matches/load", body: map[string]any{
			"match_type": "LEAGUE", "team1_id": 1, "team2_id": 2,
			"player_stats": []map[string]any{{"player_id": 1, "team_id": 1, "half": 3}},
		}, want: http.StatusBadRequest},
		{name: "bad is_completed", method: http.MethodGet, path: "/api/matches?is_completed=maybe", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api.t = t
			code, out := api.do(tt.method, tt.path, tt.body)
			if code != tt.want {
				t.Fatalf("unexpected status: got=%d want=%d body=%v", code, tt.want, out)
			}
		})
	}
}

func TestRouter_AdminUserManagement(t *testing.T) {
	router := newTestRouter(t)
	admin := loginAsAdmin(t, router)

	created := admin.mustData(http.MethodPost, "/api/auth/users", map[string]any{"username": "caster", "password": "s3cret"})
	casterID := idOf(t, created)

	if code, _ := admin.do(http.MethodPost, "/api/auth/users", map[string]any{"username": "caster", "password": "x"}); code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", code)
	}

	viewer := &apiClient{t: t, router: router}
	_, out := viewer.do(http.MethodPost, "/api/auth/login-json", map[string]string{"username": "caster", "password": "s3cret"})
	data, _ := out["data"].(map[string]any)
	viewer.token, _ = data["access_token"].(string)
	if viewer.token == "" {
		t.Fatalf("caster login failed: %v", out)
	}

	if code, _ := viewer.do(http.MethodGet, "/api/auth/users", nil); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", code)
	}
	if list := viewer.mustList(http.MethodGet, "/api/teams"); len(list) != 1 {
		t.Fatalf("expected only the free agents team, got %v", list)
	}

	admin.mustData(http.MethodDelete, fmt.Sprintf("/api/auth/users/%d", casterID), nil)
	if code, _ := viewer.do(http.MethodGet, "/api/teams", nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 once the user is deleted, got %d", code)
	}
}
