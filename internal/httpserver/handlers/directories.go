package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/nextdir/internal/auth"
	"github.com/MrSnakeDoc/nextdir/internal/directory"
	"github.com/MrSnakeDoc/nextdir/internal/domain"
	"github.com/MrSnakeDoc/nextdir/internal/httpserver/deps"
	"github.com/MrSnakeDoc/nextdir/internal/logger"
)

type directoriesResponse struct {
	Directories []domain.Directory `json:"directories"`
	Stats       directory.Stats    `json:"stats"`
}

func ListDirectories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dirs, err := d.Directories.List(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			d.Logger.Error("failed to list directories", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list directories")
			return
		}
		writeJSON(w, http.StatusOK, directoriesResponse{
			Directories: dirs,
			Stats:       directory.Summarize(dirs, auth.FromContext(r.Context())),
		})
	}
}

func CreateDirectory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in directory.Input
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dir, err := d.Directories.Create(r.Context(), auth.FromContext(r.Context()), in)
		if err != nil {
			directoryError(w, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, dir)
	}
}

func UpdateDirectory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in directory.Input
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dir, err := d.Directories.Update(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "id"), in)
		if err != nil {
			directoryError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, dir)
	}
}

func DeleteDirectory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Directories.Delete(r.Context(), auth.FromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
			directoryError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func directoryError(w http.ResponseWriter, d deps.Deps, err error) {
	switch {
	case errors.Is(err, directory.ErrAuthRequired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, directory.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, directory.ErrNameRequired), errors.Is(err, directory.ErrInvalidColor):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, directory.ErrNameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, directory.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		d.Logger.Error("directory operation failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "directory operation failed")
	}
}
