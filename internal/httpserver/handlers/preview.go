package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/preview"
)

// Preview fetches title and description of a page for the submit form.
func Preview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := d.Previews.Fetch(r.Context(), r.URL.Query().Get("url"))
		if errors.Is(err, preview.ErrUnsupportedURL) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			d.Logger.Debug("preview failed", logger.Error(err))
			writeError(w, http.StatusBadGateway, "could not fetch a preview for this page")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
