package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/models"
	"github.com/camden-git/congoaddressmapper/permissions"
	"github.com/camden-git/congoaddressmapper/repository"
)

type AuthHandler struct {
	Identity *Identity
	Users    repository.UserRepositoryInterface
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type MeResponse struct {
	User        models.User `json:"user"`
	Permissions []string    `json:"permissions"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if h.Identity.Demo == nil {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "login is not enabled")
		return
	}

	user, err := h.Identity.Demo.Authenticate(payload.Email, payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// the account row is a convenience; login works without a store
	if err := h.Users.Upsert(r.Context(), &user); err != nil {
		logging.Warn(r.Context(), "failed to record sign in", logging.Err(err))
	}

	caller := auth.Caller{ID: user.ID, Role: user.Role}
	token, expires, err := h.Identity.Tokens.Issue(caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: user, ExpiresAt: expires})
}

// Me returns the caller's user record. It is public: an anonymous caller
// gets a null user, as the web client expects.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil, "permissions": []string{}})
		return
	}

	user, err := h.Users.GetByID(r.Context(), caller.ID)
	switch {
	case err == nil:
	case h.Identity.Demo != nil && caller.ID == auth.DemoUserID &&
		(errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrStoreUnavailable)):
		demo := h.Identity.Demo.User()
		user = &demo
	default:
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{User: *user, Permissions: permissions.ForRole(caller.Role)})
}

// Logout clears the session cookie. Bearer tokens are simply discarded by the client.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
