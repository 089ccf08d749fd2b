package app

import (
	"context"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ktp-league/internal/config"
	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/domain/user"
	"github.com/riskibarqy/ktp-league/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/ktp-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/ktp-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/ktp-league/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/ktp-league/internal/platform/id"
	"github.com/riskibarqy/ktp-league/internal/platform/logging"
	"github.com/riskibarqy/ktp-league/internal/platform/password"
	"github.com/riskibarqy/ktp-league/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"golang.org/x/crypto/bcrypt"
)

type repositories struct {
	users   user.Repository
	teams   team.Repository
	players player.Repository
	matches match.Repository
	health  httpapi.HealthChecker
	close   func() error
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// releases the database pool and must run after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, crerr.New("http server addr cannot be empty")
	}

	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hasher := password.NewHasher(bcrypt.DefaultCost)
	tokens := jwtauth.NewProvider(cfg.JWTSecret, cfg.JWTIssuer, cfg.AuthTokenTTL, repos.users, idgen.NewRandomGenerator(), logger)

	bootstrap := usecase.NewBootstrapService(repos.users, repos.teams, hasher, cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword, logger)
	if err := bootstrap.Run(ctx); err != nil {
		_ = repos.close()
		return nil, nil, crerr.Wrap(err, "bootstrap seed data")
	}

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Auth:    usecase.NewAuthService(repos.users, tokens, hasher, logger),
		Teams:   usecase.NewTeamService(repos.teams, repos.players, repos.matches, logger),
		Players: usecase.NewPlayerService(repos.players, repos.teams, repos.matches, logger),
		Matches: usecase.NewMatchService(repos.matches, repos.teams, repos.players, logger),
		Stats:   usecase.NewStatsService(repos.players, repos.teams, repos.matches),
		Health:  repos.health,
		Version: cfg.ServiceVersion,
		Logger:  logger,
	})
	router := httpapi.NewRouter(handler, tokens, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		LoginRatePerMinute: cfg.AuthLoginRatePerMinute,
		LoginBurst:         cfg.AuthLoginBurst,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return server, repos.close, nil
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		if cfg.DBAutoMigrate {
			if err := postgres.MigrateUp(cfg.DBURL); err != nil {
				_ = db.Close()
				return repositories{}, crerr.Wrap(err, "auto migrate")
			}
			logger.InfoContext(ctx, "database migrations applied")
		}
		logger.InfoContext(ctx, "storage backend ready", "backend", config.StoragePostgres, "database", dbNameFromURL(cfg.DBURL))
		return repositories{
			users:   postgres.NewUserRepository(db),
			teams:   postgres.NewTeamRepository(db),
			players: postgres.NewPlayerRepository(db),
			matches: postgres.NewMatchRepository(db),
			health:  db,
			close:   db.Close,
		}, nil
	default:
		store := memory.NewStore()
		logger.WarnContext(ctx, "storage backend ready", "backend", config.StorageMemory, "note", "data is lost on restart")
		return repositories{
			users:   memory.NewUserRepository(store),
			teams:   memory.NewTeamRepository(store),
			players: memory.NewPlayerRepository(store),
			matches: memory.NewMatchRepository(store),
			close:   func() error { return nil },
		}, nil
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", postgres.NormalizeURL(cfg.DBURL),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open database")
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	otelsql.ReportDBStatsMetrics(db.DB)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping database")
	}
	return db, nil
}
