package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "nextdir_session"

// Session resolves the request's auth.Session and puts it on the context.
// A cookie is issued on first contact. A valid bearer token signs the
// cookie's session in; an invalid one is rejected with 401. Bearer
// requests without a cookie get a request-scoped session that is never
// stored.
func Session(sessions *auth.Sessions, verifier *auth.Verifier, secure bool, log logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("session")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var user *auth.User
			if token, ok := BearerToken(r); ok {
				u, err := verifier.Verify(token)
				if err != nil {
					log.Debug("bearer token rejected", logger.Error(err))
					deny(w, http.StatusUnauthorized, "invalid token")
					return
				}
				user = u
			}

			c, err := r.Cookie(SessionCookie)
			hasCookie := err == nil && c.Value != ""

			var sess auth.Session
			switch {
			case hasCookie:
				if user != nil {
					if cur := sessions.Get(c.Value).User(); cur == nil || cur.ID != user.ID {
						sessions.SignIn(c.Value, user)
					}
				}
				sess = sessions.Get(c.Value)
			case user != nil:
				sess = auth.Session{ID: sessions.NewID(), State: auth.State{User: user}}
			default:
				sess = auth.Session{ID: sessions.NewID()}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := auth.WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
