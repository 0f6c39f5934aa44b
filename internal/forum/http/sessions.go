package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/corkboard/corkboard/internal/forum/service"
	"github.com/corkboard/corkboard/pkg/httpx"
)

// SessionHandler owns the login lifecycle: password step, TOTP step, skip,
// whoami, and logout.
type SessionHandler struct {
	AuthService *service.AuthService

	// CookieSecure should be true everywhere except local development over
	// plain http.
	CookieSecure bool
}

func (h *SessionHandler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = service.DefaultSessionTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *SessionHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleLogin handles POST /api/sessions.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	p, token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, h.AuthService.SessionTTL)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(p))
}

// HandleVerifyTOTP handles POST /api/login-totp.
func (h *SessionHandler) HandleVerifyTOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	p, err := h.AuthService.VerifySecondFactor(r.Context(), sessionToken(r), req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(p))
}

// HandleSkipTOTP handles POST /api/login-totp/skip.
func (h *SessionHandler) HandleSkipTOTP(w http.ResponseWriter, r *http.Request) {
	p, err := h.AuthService.SkipSecondFactor(r.Context(), sessionToken(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(p))
}

// HandleCurrent handles GET /api/sessions/current.
func (h *SessionHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if p == nil {
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrNotAuthenticated.Error())
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(*p))
}

// HandleLogout handles DELETE /api/sessions/current.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context(), sessionToken(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
