package httpapi

import (
	"net/http"

	"github.com/riskibarqy/ktp-league/internal/platform/logging"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
	LoginRatePerMinute int
	LoginBurst         int
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerAuthRoutes(mux, handler, verifier, cfg)
	registerTeamRoutes(mux, handler, verifier)
	registerPlayerRoutes(mux, handler, verifier)
	registerMatchRoutes(mux, handler, verifier)
	registerStatsRoutes(mux, handler, verifier)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}
