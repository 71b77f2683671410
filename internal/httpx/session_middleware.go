package httpx

import (
	"net/http"

	"journalapi/internal/platform/crypto"

	"go.uber.org/zap"
)

const SessionCookieName = "journal_session"

// SessionMiddleware scopes every request to a browser session. A missing or
// invalid cookie starts a fresh session. The cookie is a session cookie (no
// Expires) so its data goes away with the browser session.
func SessionMiddleware(secret string, secure bool, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(SessionCookieName); err == nil {
				if claims, err := crypto.ParseSessionToken(secret, c.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), claims.SID)))
					return
				}
			}

			token, sid, err := crypto.GenerateSessionToken(secret)
			if err != nil {
				log.Error("session token", zap.Error(err))
				JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "could not start session", nil)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sid)))
		})
	}
}
