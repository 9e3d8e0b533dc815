package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/security"
)

type identityCtxKey struct{}

// Identity is the authenticated dashboard owner.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// WithIdentity attaches the authenticated identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFrom extracts the authenticated identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}

// IsAuthenticated reports whether the context carries a signed-in identity.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := IdentityFrom(ctx)
	return ok
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type sessionStore interface {
	StoreSessionToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetSessionToken(ctx context.Context, userID string) (string, error)
	RevokeSessionToken(ctx context.Context, userID string) error
}

// Provider implements credential auth with a single active session per user.
// Minting a new token replaces the stored session, so an old token stops
// authenticating as soon as the user signs in elsewhere.
type Provider struct {
	users    userStore
	sessions sessionStore
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewProvider(users userStore, sessions sessionStore, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) *Provider {
	return &Provider{
		users:    users,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		logg:     logg,
		now:      time.Now,
	}
}

// Register creates the owner account and signs it in.
func (p *Provider) Register(ctx context.Context, email, password string) (Identity, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Identity{}, "", pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if existing, err := p.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return Identity{}, "", pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
	}

	hash, err := security.HashPassword(password, p.pwCfg)
	if err != nil {
		return Identity{}, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := p.users.Create(ctx, user); err != nil {
		return Identity{}, "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating user")
	}

	return p.openSession(ctx, user)
}

// Login verifies credentials and opens a fresh session.
func (p *Provider) Login(ctx context.Context, email, password string) (Identity, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Identity{}, "", pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := p.users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return Identity{}, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return Identity{}, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return Identity{}, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return p.openSession(ctx, user)
}

// Logout revokes the stored session so the current token stops working.
func (p *Provider) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := p.sessions.RevokeSessionToken(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// Authenticate resolves a bearer token into an identity. The token must both
// validate as a JWT and match the stored session for its user.
func (p *Provider) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := ParseAccessToken(p.jwtCfg, token)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	stored, err := p.sessions.GetSessionToken(ctx, claims.UserID.String())
	if err != nil || stored == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session superseded")
	}

	return Identity{ID: claims.UserID, Email: claims.Email}, nil
}

// CurrentIdentity loads the account record behind the context identity.
func (p *Provider) CurrentIdentity(ctx context.Context) (*models.User, error) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}
	user, err := p.users.FindByID(ctx, id.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "loading account")
	}
	return user, nil
}

func (p *Provider) openSession(ctx context.Context, user *models.User) (Identity, string, error) {
	token, err := MintAccessToken(p.jwtCfg, p.now(), AccessTokenPayload{UserID: user.ID, Email: user.Email})
	if err != nil {
		return Identity{}, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	if err := p.sessions.StoreSessionToken(ctx, user.ID.String(), token, p.jwtCfg.Expiration()); err != nil {
		return Identity{}, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}

	if p.logg != nil {
		p.logg.Info(p.logg.WithUserID(ctx, user.ID.String()), "auth.session.opened")
	}
	return Identity{ID: user.ID, Email: user.Email}, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
