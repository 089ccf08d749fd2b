package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultAdminUsername is seeded on bootstrap when no account with this name exists.
const DefaultAdminUsername = "admin"

var ErrDuplicateUsername = errors.New("username already registered")

// User is an operator account allowed to manage league records.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("password hash is required")
	}

	return nil
}

// Principal is the identity resolved from a bearer token.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

func (u User) Principal() Principal {
	return Principal{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}

// AccessToken is a signed bearer token handed out on login.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}
