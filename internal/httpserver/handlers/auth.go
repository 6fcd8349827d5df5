package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/mw"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
)

// keepAliveInterval spaces comment frames on idle event streams.
const keepAliveInterval = 25 * time.Second

// BeginLogin marks the session as loading and sends the browser to the
// identity provider.
func BeginLogin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := auth.FromContext(r.Context())
		d.Sessions.Begin(sess.ID)
		http.Redirect(w, r, d.AuthLoginURL, http.StatusFound)
	}
}

// Me returns the current session state.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, auth.FromContext(r.Context()).State)
	}
}

type signInRequest struct {
	Token string `json:"token"`
}

// SignIn verifies a token from the body or the Authorization header and
// attaches the user to the session.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := auth.FromContext(r.Context())

		token, ok := mw.BearerToken(r)
		if !ok {
			var body signInRequest
			if err := decodeJSON(w, r, &body); err != nil || body.Token == "" {
				writeError(w, http.StatusBadRequest, "token is required")
				return
			}
			token = body.Token
		}

		d.Sessions.Begin(sess.ID)
		user, err := d.Verifier.Verify(token)
		if err != nil {
			d.Sessions.SignOut(sess.ID)
			d.Logger.Debug("sign-in rejected", logger.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		d.Sessions.SignIn(sess.ID, user)

		writeJSON(w, http.StatusOK, d.Sessions.Get(sess.ID).State)
	}
}

// SignOut clears the session's user.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Sessions.SignOut(auth.FromContext(r.Context()).ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// AuthEvents streams the session state as server-sent events until the
// client goes away. The first event carries the current state.
func AuthEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		// the server write timeout would cut the stream
		_ = rc.SetWriteDeadline(time.Time{})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		// Subscribe delivers synchronously; a slow client drops
		// intermediate states and only the latest matters.
		updates := make(chan auth.State, 1)
		push := func(st auth.State) {
			for {
				select {
				case updates <- st:
					return
				default:
				}
				select {
				case <-updates:
				default:
				}
			}
		}

		release := d.Sessions.Subscribe(auth.FromContext(r.Context()).ID, push)
		defer release()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case st := <-updates:
				data, err := json.Marshal(st)
				if err != nil {
					d.Logger.Error("failed to encode auth state", logger.Error(err))
					return
				}
				if _, err := fmt.Fprintf(w, "event: auth\ndata: %s\n\n", data); err != nil {
					return
				}
				if err := rc.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := rc.Flush(); err != nil {
					return
				}
			}
		}
	}
}
