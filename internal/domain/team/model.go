package team

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// MaxPlayers caps the roster of every team except the free-agents pool.
	MaxPlayers = 10

	FreeAgentsName = "FREE AGENTS"
	FreeAgentsTag  = "FA"
)

var (
	ErrDuplicateName = errors.New("team name already exists")
	ErrDuplicateTag  = errors.New("team tag already exists")
	ErrHasMatches    = errors.New("team is referenced by matches")
)

// Team is a league roster. The free-agents team holds unaffiliated players.
type Team struct {
	ID           int64
	Name         string
	Tag          string
	IsFreeAgents bool
	CreatedAt    time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.Tag) == "" {
		return fmt.Errorf("team tag is required")
	}

	return nil
}

// HasCapacity reports whether a roster of current players can take one more.
func (t Team) HasCapacity(current int) bool {
	return t.IsFreeAgents || current < MaxPlayers
}
