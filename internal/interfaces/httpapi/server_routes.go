package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.Root)
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /api/health", handler.Health)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, cfg RouterConfig) {
	mux.Handle("POST /api/auth/login", LoginRateLimit(cfg.LoginRatePerMinute, cfg.LoginBurst, http.HandlerFunc(handler.Login)))
	mux.Handle("POST /api/auth/login-json", LoginRateLimit(cfg.LoginRatePerMinute, cfg.LoginBurst, http.HandlerFunc(handler.LoginJSON)))
	mux.Handle("GET /api/auth/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))

	mux.Handle("POST /api/auth/users", adminOnly(verifier, handler.CreateUser))
	mux.Handle("GET /api/auth/users", adminOnly(verifier, handler.ListUsers))
	mux.Handle("DELETE /api/auth/users/{userID}", adminOnly(verifier, handler.DeleteUser))
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListTeams)))
	mux.Handle("POST /api/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /api/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetTeam)))
	mux.Handle("PUT /api/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTeam)))
	mux.Handle("DELETE /api/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteTeam)))
	mux.Handle("POST /api/teams/{teamID}/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.AddPlayerToTeam)))
	mux.Handle("DELETE /api/teams/{teamID}/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.RemovePlayerFromTeam)))
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("POST /api/players", RequireAuth(verifier, http.HandlerFunc(handler.CreatePlayer)))
	mux.Handle("GET /api/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayer)))
	mux.Handle("PUT /api/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePlayer)))
	mux.Handle("DELETE /api/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePlayer)))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("POST /api/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("GET /api/matches/upcoming", RequireAuth(verifier, http.HandlerFunc(handler.ListUpcomingMatches)))
	mux.Handle("GET /api/matches/recent", RequireAuth(verifier, http.HandlerFunc(handler.ListRecentMatches)))
	mux.Handle("POST /api/matches/load", RequireAuth(verifier, http.HandlerFunc(handler.LoadMatch)))
	mux.Handle("GET /api/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMatch)))
	mux.Handle("PUT /api/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("DELETE /api/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
	mux.Handle("POST /api/matches/{matchID}/stats", RequireAuth(verifier, http.HandlerFunc(handler.AddMatchStats)))
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /api/stats/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetLeaderboard)))
	mux.Handle("GET /api/stats/dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetDashboard)))
	mux.Handle("GET /api/stats/maps", RequireAuth(verifier, http.HandlerFunc(handler.GetMapStats)))
	mux.Handle("GET /api/stats/team/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetTeamStats)))
}

func adminOnly(verifier TokenVerifier, fn http.HandlerFunc) http.Handler {
	return RequireAuth(verifier, RequireAdmin(fn))
}
