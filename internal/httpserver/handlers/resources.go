package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/catalog"
	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
	"github.com/MrSnakeDoc/nextdir/internal/submission"
)

type resourcesResponse struct {
	domain.CatalogView
	Source catalog.Source `json:"source"`
	// Notice is set when the built-in sample set is shown instead of live data.
	Notice string `json:"notice,omitempty"`
}

// ListResources serves the browse page: one catalog fetch per request,
// then filtering and sorting from the query string.
func ListResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		sort, err := domain.ParseSortKey(q.Get("sort"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		featured := false
		if v := q.Get("featured"); v != "" {
			if featured, err = strconv.ParseBool(v); err != nil {
				writeError(w, http.StatusBadRequest, "featured must be a boolean")
				return
			}
		}

		page := catalog.NewPage(d.Catalog)
		page.Load(r.Context())

		resp := resourcesResponse{
			CatalogView: page.View(domain.ViewOptions{
				Query:        q.Get("q"),
				Category:     q.Get("category"),
				Sort:         sort,
				FeaturedOnly: featured,
			}),
			Source: page.Source(),
		}
		if resp.Source == catalog.SourceFallback {
			d.Logger.Debug("serving fallback catalog", logger.Error(page.Err()))
			resp.Notice = "showing sample resources, the catalog is temporarily unavailable"
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type catalogMetaResponse struct {
	Categories       []string         `json:"categories"`
	SubmitCategories []string         `json:"submitCategories"`
	PopularTags      []string         `json:"popularTags"`
	SortKeys         []domain.SortKey `json:"sortKeys"`
}

// CatalogMeta returns the static vocabularies used by the browse and submit
// pages.
func CatalogMeta(d deps.Deps) http.HandlerFunc {
	resp := catalogMetaResponse{
		Categories:       domain.BrowseCategories,
		SubmitCategories: domain.SubmitCategories,
		PopularTags:      domain.PopularTags,
		SortKeys:         domain.SortKeys,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}

// SubmitResource stores a pending resource for the signed-in user.
func SubmitResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form submission.Form
		if err := decodeJSON(w, r, &form); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		receipt, err := d.Submissions.Submit(r.Context(), auth.FromContext(r.Context()), form)
		if err != nil {
			var verr *submission.ValidationError
			switch {
			case errors.Is(err, submission.ErrAuthRequired):
				writeError(w, http.StatusUnauthorized, err.Error())
			case errors.As(err, &verr):
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
			default:
				d.Logger.Error("submission failed", logger.Error(err))
				writeError(w, http.StatusInternalServerError, "submission failed")
			}
			return
		}

		writeJSON(w, http.StatusAccepted, receipt)
	}
}
