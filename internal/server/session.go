package server

import (
	"context"
	"net/http"

	"github.com/iwvelando/strac/pkg/constants"
	"github.com/iwvelando/strac/pkg/strac"
	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// withSession attaches the caller's STRAC session to the request, issuing a
// new session cookie when the request has none or carries an invalid one.
func (h *handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *strac.Session
		if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
			sess, err = h.sessions.Resolve(cookie.Value)
			if err != nil {
				h.logger.Debug("discarding session cookie",
					zap.String("op", "server.withSession"),
					zap.Error(err),
				)
			}
		}

		if sess == nil {
			var token string
			var err error
			sess, token, err = h.sessions.Issue()
			if err != nil {
				h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.withSession")
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     constants.SessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func sessionFrom(r *http.Request) *strac.Session {
	if sess, ok := r.Context().Value(sessionKey).(*strac.Session); ok {
		return sess
	}
	return strac.NewSession()
}
