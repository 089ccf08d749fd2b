package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/ktp-league/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	isCompleted, err := queryBool(r, "is_completed")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.matchService.List(ctx, usecase.MatchFilter{
		Type:        strings.TrimSpace(r.URL.Query().Get("match_type")),
		IsCompleted: isCompleted,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchListToDTO(matches))
}

func (h *Handler) ListUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingMatches")
	defer span.End()

	matches, err := h.matchService.Upcoming(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list upcoming matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchListToDTO(matches))
}

func (h *Handler) ListRecentMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecentMatches")
	defer span.End()

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.matchService.Recent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list recent matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchListToDTO(matches))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailToDTO(detail))
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeAndValidate(w, r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		Type:          req.MatchType,
		Team1ID:       req.Team1ID,
		Team2ID:       req.Team2ID,
		MapName:       stringValue(req.MapName),
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "team1_id", req.Team1ID, "team2_id", req.Team2ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(created))
}

// LoadMatch records a finished match with every player's half lines in one call.
func (h *Handler) LoadMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoadMatch")
	defer span.End()

	var req loadMatchRequest
	if err := h.decodeAndValidate(w, r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	stats := make([]usecase.StatInput, 0, len(req.PlayerStats))
	for _, s := range req.PlayerStats {
		stats = append(stats, s.input())
	}

	detail, err := h.matchService.Load(ctx, usecase.LoadMatchInput{
		Type:       req.MatchType,
		Team1ID:    req.Team1ID,
		Team2ID:    req.Team2ID,
		Team1Score: req.Team1Score,
		Team2Score: req.Team2Score,
		MapName:    req.MapName,
		PlayedDate: req.PlayedDate,
		Stats:      stats,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "load match failed", "team1_id", req.Team1ID, "team2_id", req.Team2ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailToDTO(detail))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req updateMatchRequest
	if err := h.decodeAndValidate(w, r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.Update(ctx, matchID, usecase.UpdateMatchInput{
		Type:          req.MatchType,
		Team1ID:       req.Team1ID,
		Team2ID:       req.Team2ID,
		Team1Score:    req.Team1Score,
		Team2Score:    req.Team2Score,
		MapName:       req.MapName,
		ScheduledDate: req.ScheduledDate,
		IsCompleted:   req.IsCompleted,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.matchService.Delete(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeMessage(ctx, w, "Match deleted successfully")
}

func (h *Handler) AddMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMatchStats")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req playerStatRequest
	if err := h.decodeAndValidate(w, r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.matchService.AddStat(ctx, matchID, req.input())
	if err != nil {
		h.logger.WarnContext(ctx, "add match stats failed", "match_id", matchID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statToDTO(saved, ""))
}
