package httpapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/ktp-league/internal/platform/logging"
	"github.com/riskibarqy/ktp-league/internal/usecase"
)

const apiTitle = "KTP League API"

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	authService   *usecase.AuthService
	teamService   *usecase.TeamService
	playerService *usecase.PlayerService
	matchService  *usecase.MatchService
	statsService  *usecase.StatsService
	health        HealthChecker
	version       string
	logger        *logging.Logger
	validator     *validator.Validate
}

// HandlerDeps wires the services behind the API. Health is nil for the
// in-memory store.
type HandlerDeps struct {
	Auth    *usecase.AuthService
	Teams   *usecase.TeamService
	Players *usecase.PlayerService
	Matches *usecase.MatchService
	Stats   *usecase.StatsService
	Health  HealthChecker
	Version string
	Logger  *logging.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:   deps.Auth,
		teamService:   deps.Teams,
		playerService: deps.Players,
		matchService:  deps.Matches,
		statsService:  deps.Stats,
		health:        deps.Health,
		version:       deps.Version,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Root")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, rootDTO{Message: apiTitle, Version: h.version})
}

// Health always answers 200 and reports a degraded status when the database
// ping fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	out := healthDTO{Status: "healthy", Database: "healthy", API: "healthy"}
	if h.health == nil {
		out.Database = "in-memory"
	} else if err := h.health.PingContext(ctx); err != nil {
		h.logger.WarnContext(ctx, "database ping failed", "error", err)
		out.Status = "degraded"
		out.Database = "unhealthy: " + err.Error()
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
