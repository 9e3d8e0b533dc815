package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/db/models"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
)

type stubUserStore struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserStore) Create(_ context.Context, user *models.User) error {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

type stubSessionStore struct {
	tokens map[string]string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{tokens: map[string]string{}}
}

func (s *stubSessionStore) StoreSessionToken(_ context.Context, userID, token string, _ time.Duration) error {
	s.tokens[userID] = token
	return nil
}

func (s *stubSessionStore) GetSessionToken(_ context.Context, userID string) (string, error) {
	return s.tokens[userID], nil
}

func (s *stubSessionStore) RevokeSessionToken(_ context.Context, userID string) error {
	delete(s.tokens, userID)
	return nil
}

func newTestProvider() (*Provider, *stubUserStore, *stubSessionStore) {
	users := newStubUserStore()
	sessions := newStubSessionStore()
	pwCfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	return NewProvider(users, sessions, testJWTConfig(), pwCfg, nil), users, sessions
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	provider, _, _ := newTestProvider()

	identity, token, err := provider.Register(ctx, "Owner@Example.com", "hunter-two")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if identity.Email != "owner@example.com" {
		t.Fatalf("expected normalized email, got %q", identity.Email)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	resolved, err := provider.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if resolved.ID != identity.ID {
		t.Fatalf("expected identity %s, got %s", identity.ID, resolved.ID)
	}

	if _, _, err := provider.Login(ctx, "owner@example.com", "wrong"); err == nil {
		t.Fatal("expected login with wrong password to fail")
	}

	loginIdentity, loginToken, err := provider.Login(ctx, "owner@example.com", "hunter-two")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if loginIdentity.ID != identity.ID {
		t.Fatal("login resolved a different identity")
	}
	if loginToken == "" {
		t.Fatal("expected a fresh session token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	provider, _, _ := newTestProvider()

	if _, _, err := provider.Register(ctx, "owner@example.com", "hunter-two"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, _, err := provider.Register(ctx, "owner@example.com", "another-pass")
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestLoginSupersedesPriorSession(t *testing.T) {
	ctx := context.Background()
	provider, _, _ := newTestProvider()
	// Distinct issue times so the two tokens differ.
	issued := time.Now().Add(-time.Minute)
	provider.now = func() time.Time {
		issued = issued.Add(time.Second)
		return issued
	}

	_, firstToken, err := provider.Register(ctx, "owner@example.com", "hunter-two")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, secondToken, err := provider.Login(ctx, "owner@example.com", "hunter-two")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if firstToken == secondToken {
		t.Fatal("expected login to mint a distinct token")
	}

	_, err = provider.Authenticate(ctx, firstToken)
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	if _, err := provider.Authenticate(ctx, secondToken); err != nil {
		t.Fatalf("expected latest token to authenticate, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	ctx := context.Background()
	provider, _, sessions := newTestProvider()

	identity, token, err := provider.Register(ctx, "owner@example.com", "hunter-two")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := provider.Logout(ctx, identity.ID); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatal("expected session store to be empty after logout")
	}

	_, err = provider.Authenticate(ctx, token)
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestCurrentIdentityRequiresContext(t *testing.T) {
	ctx := context.Background()
	provider, _, _ := newTestProvider()

	_, err := provider.CurrentIdentity(ctx)
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	identity, _, err := provider.Register(ctx, "owner@example.com", "hunter-two")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, err := provider.CurrentIdentity(WithIdentity(ctx, identity))
	if err != nil {
		t.Fatalf("CurrentIdentity returned error: %v", err)
	}
	if user.Email != "owner@example.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
}
