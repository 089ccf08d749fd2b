package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/domain/user"
	"github.com/riskibarqy/ktp-league/internal/platform/logging"
)

const defaultAdminPassword = "admin"

type BootstrapService struct {
	userRepo      user.Repository
	teamRepo      team.Repository
	hasher        PasswordHasher
	adminUsername string
	adminPassword string
	logger        *logging.Logger
}

func NewBootstrapService(
	userRepo user.Repository,
	teamRepo team.Repository,
	hasher PasswordHasher,
	adminUsername, adminPassword string,
	logger *logging.Logger,
) *BootstrapService {
	if logger == nil {
		logger = logging.Default()
	}
	if adminUsername == "" {
		adminUsername = user.DefaultAdminUsername
	}
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}
	return &BootstrapService{
		userRepo:      userRepo,
		teamRepo:      teamRepo,
		hasher:        hasher,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		logger:        logger,
	}
}

// Run seeds the default admin account and the free agents team when absent.
// It is safe to call on every start.
func (s *BootstrapService) Run(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BootstrapService.Run")
	defer span.End()

	if err := s.ensureAdmin(ctx); err != nil {
		return err
	}
	return s.ensureFreeAgents(ctx)
}

func (s *BootstrapService) ensureAdmin(ctx context.Context) error {
	_, exists, err := s.userRepo.GetByUsername(ctx, s.adminUsername)
	if err != nil {
		return crerr.Wrap(err, "look up bootstrap admin")
	}
	if exists {
		return nil
	}

	hashed, err := s.hasher.Hash(s.adminPassword)
	if err != nil {
		return crerr.Wrap(err, "hash bootstrap admin password")
	}
	created, err := s.userRepo.Create(ctx, user.User{
		Username:     s.adminUsername,
		PasswordHash: hashed,
		IsAdmin:      true,
	})
	if err != nil {
		if crerr.Is(err, user.ErrDuplicateUsername) {
			return nil
		}
		return crerr.Wrap(err, "create bootstrap admin")
	}

	s.logger.InfoContext(ctx, "bootstrap admin created", "user_id", created.ID, "username", created.Username)
	return nil
}

func (s *BootstrapService) ensureFreeAgents(ctx context.Context) error {
	_, exists, err := s.teamRepo.GetFreeAgents(ctx)
	if err != nil {
		return crerr.Wrap(err, "look up free agents team")
	}
	if exists {
		return nil
	}

	created, err := s.teamRepo.Create(ctx, team.Team{
		Name:         team.FreeAgentsName,
		Tag:          team.FreeAgentsTag,
		IsFreeAgents: true,
	})
	if err != nil {
		return crerr.Wrap(err, "create free agents team")
	}

	s.logger.InfoContext(ctx, "free agents team created", "team_id", created.ID)
	return nil
}
