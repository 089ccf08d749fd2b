package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.statsService.Leaderboard(ctx, strings.TrimSpace(r.URL.Query().Get("sort_by")), limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, leaderboardToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	dashboard, err := h.statsService.Dashboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard))
}

func (h *Handler) GetMapStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMapStats")
	defer span.End()

	maps, err := h.statsService.Maps(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "map stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]mapCountDTO, 0, len(maps))
	for _, m := range maps {
		items = append(items, mapCountDTO{MapName: m.MapName, TimesPlayed: m.TimesPlayed})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStats")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.statsService.TeamStats(ctx, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamStatsToDTO(stats))
}
