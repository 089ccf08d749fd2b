package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/ktp-league/internal/domain/match"
	"github.com/riskibarqy/ktp-league/internal/domain/player"
	"github.com/riskibarqy/ktp-league/internal/domain/team"
	"github.com/riskibarqy/ktp-league/internal/domain/user"
)

var storeConflicts = []error{
	user.ErrDuplicateUsername,
	team.ErrDuplicateName,
	team.ErrDuplicateTag,
	team.ErrHasMatches,
	player.ErrDuplicateNickname,
	player.ErrHasStats,
	match.ErrDuplicateStat,
}

// storeError translates repository integrity errors into ErrConflict and
// wraps everything else with the operation name.
func storeError(op string, err error) error {
	if errors.Is(err, player.ErrTeamFull) {
		return fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
	}
	for _, target := range storeConflicts {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
