package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type contextKey string

// AdminClaimsKey holds the *domain.AdminClaims of an authenticated request.
const AdminClaimsKey contextKey = "admin_claims"

const accessTokenCookie = "access_token"

type CookieOptions struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

type AuthHandler struct {
	authService ports.AuthService
	redirectURL string
	cookie      CookieOptions
	logger      *slog.Logger
}

func NewAuthHandler(authService ports.AuthService, redirectURL string, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		redirectURL: redirectURL,
		cookie:      cookie,
		logger:      logger,
	}
}

// Login godoc
// @Summary      Logs an administrator in
// @Description  Checks the form credentials and sets the access_token cookie used by `/admin/api` calls.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true  "admin username"
// @Param        password  formData  string  true  "admin password"
// @Success      303
// @Failure      401  {object}  errorResponse
// @Router       /admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", "failed to parse form")
		return
	}

	token, err := h.authService.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.logger.Error("admin login failed", "error", err)
		}
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}

	h.setAccessTokenCookie(w, token)
	http.Redirect(w, r, h.redirectURL, http.StatusSeeOther)
}

// Logout godoc
// @Summary      Logs the administrator out
// @Description  Clears the access token cookie
// @Tags         auth
// @Success      200
// @Router       /admin/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookie.Domain})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me godoc
// @Summary      Returns the authenticated administrator
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.AdminClaims
// @Failure      401  {object}  errorResponse
// @Router       /admin/api/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(AdminClaimsKey).(*domain.AdminClaims)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing admin context")
		return
	}
	writeJSON(w, http.StatusOK, claims)
}

// RequireAdmin rejects requests without a valid admin token, read from the
// access_token cookie or a bearer Authorization header.
func (h *AuthHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(accessTokenCookie); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing access token")
			return
		}

		claims, err := h.authService.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), AdminClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: h.cookie.SameSite,
		MaxAge:   15 * 60, // 15 minutes
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
