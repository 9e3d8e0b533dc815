package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/adiwijaya-dev/shopdash-backend/api/responses"
	"github.com/adiwijaya-dev/shopdash-backend/api/validators"
	pkgauth "github.com/adiwijaya-dev/shopdash-backend/pkg/auth"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// AuthService is the credential surface the auth controllers depend on.
type AuthService interface {
	Register(ctx context.Context, email, password string) (pkgauth.Identity, string, error)
	Login(ctx context.Context, email, password string) (pkgauth.Identity, string, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// SyncBinder is notified when a session opens or closes so remote state can
// be reconciled. A nil binder means sync is disabled.
type SyncBinder interface {
	Bind(ctx context.Context, user string)
	Unbind(ctx context.Context)
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func sessionPayload(ident pkgauth.Identity, token string) sessionResponse {
	var out sessionResponse
	out.Token = token
	out.User.ID = ident.ID.String()
	out.User.Email = ident.Email
	return out
}

func AuthRegister(svc AuthService, syncer SyncBinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentialsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ident, token, err := svc.Register(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if syncer != nil {
			syncer.Bind(r.Context(), ident.ID.String())
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionPayload(ident, token))
	}
}

func AuthLogin(svc AuthService, syncer SyncBinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentialsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ident, token, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if syncer != nil {
			syncer.Bind(r.Context(), ident.ID.String())
		}
		responses.WriteSuccess(w, sessionPayload(ident, token))
	}
}

// AuthLogout revokes the caller's session. It sits behind the auth middleware
// so the identity always comes from the context.
func AuthLogout(svc AuthService, syncer SyncBinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := pkgauth.IdentityFrom(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if syncer != nil {
			syncer.Unbind(r.Context())
		}
		if err := svc.Logout(r.Context(), ident.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
