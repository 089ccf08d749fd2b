package jwtauth

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/ktp-league/internal/domain/user"
	idgen "github.com/riskibarqy/ktp-league/internal/platform/id"
	"github.com/riskibarqy/ktp-league/internal/platform/logging"
	"github.com/riskibarqy/ktp-league/internal/usecase"
)

const TokenTypeBearer = "bearer"

type claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// Provider issues and verifies HS256 access tokens. The subject carries the
// username; verification re-reads the user so deleted accounts and admin
// flag changes take effect immediately.
type Provider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	users  user.Repository
	ids    idgen.Generator
	now    func() time.Time
	logger *logging.Logger
}

type Option func(*Provider)

func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

func NewProvider(secret, issuer string, ttl time.Duration, users user.Repository, ids idgen.Generator, logger *logging.Logger, opts ...Option) *Provider {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = idgen.NewRandomGenerator()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	p := &Provider{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		ttl:    ttl,
		users:  users,
		ids:    ids,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) IssueAccessToken(ctx context.Context, u user.User) (user.AccessToken, error) {
	if len(p.secret) == 0 {
		return user.AccessToken{}, crerr.Wrap(usecase.ErrDependencyUnavailable, "jwt secret is not configured")
	}

	jti, err := p.ids.NewID()
	if err != nil {
		return user.AccessToken{}, crerr.Wrap(err, "generate token id")
	}

	now := p.now().UTC()
	expiresAt := now.Add(p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    p.issuer,
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return user.AccessToken{}, crerr.Wrap(err, "sign access token")
	}

	p.logger.DebugContext(ctx, "access token issued", "user_id", u.ID, "jti", jti)
	return user.AccessToken{
		Token:     signed,
		TokenType: TokenTypeBearer,
		ExpiresAt: expiresAt,
	}, nil
}

func (p *Provider) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, crerr.Wrap(usecase.ErrUnauthorized, "token is required")
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(p.issuer))
	}

	var parsed claims
	if _, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, parserOpts...); err != nil {
		return user.Principal{}, crerr.Wrapf(usecase.ErrUnauthorized, "parse token: %v", err)
	}

	username := strings.TrimSpace(parsed.Subject)
	if username == "" {
		return user.Principal{}, crerr.Wrap(usecase.ErrUnauthorized, "token subject is empty")
	}

	u, exists, err := p.users.GetByUsername(ctx, username)
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "resolve token subject")
	}
	if !exists {
		p.logger.WarnContext(ctx, "token subject no longer exists", "username", username)
		return user.Principal{}, crerr.Wrap(usecase.ErrUnauthorized, "token subject no longer exists")
	}

	return u.Principal(), nil
}
