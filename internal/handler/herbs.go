package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"DermanlykBackend/config"
	"DermanlykBackend/internal/imagestore"
	"DermanlykBackend/internal/model"
	"DermanlykBackend/internal/service"

	"github.com/gorilla/mux"
)

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type popularResponse struct {
	Words []model.Herb `json:"words"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func handleServiceErr(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	slog.Error("request failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func intParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// requestOrigin resolves the scheme+host the response URLs should be built
// against: a configured BASE_URL wins, otherwise the request's own origin.
// The origin never ends in a slash; MediaURL carries the leading one.
func requestOrigin(r *http.Request, cfg *config.Config) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// materializePhotoURL fills PhotoURL with the absolute URL of the large
// derivative.
func materializePhotoURL(h *model.Herb, origin string, cfg *config.Config) {
	if h.Photo == "" {
		return
	}
	h.PhotoURL = origin + cfg.MediaURL + imagestore.DerivativePath(h.Photo, "l")
}

func materializePhotoURLs(herbs []model.Herb, origin string, cfg *config.Config) {
	for i := range herbs {
		materializePhotoURL(&herbs[i], origin, cfg)
	}
}

func ListHerbs(s service.HerbService, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := intParam(r, "page", 1)
		limit := intParam(r, "limit", 0)

		res, err := s.List(r.Context(), page, limit)
		if err != nil {
			handleServiceErr(w, err)
			return
		}
		materializePhotoURLs(res.Results, requestOrigin(r, cfg), cfg)
		writeJSON(w, res)
	}
}

func GetHerb(s service.HerbService, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}

		herb, err := s.Get(r.Context(), id)
		if err != nil {
			handleServiceErr(w, err)
			return
		}
		materializePhotoURL(herb, requestOrigin(r, cfg), cfg)
		writeJSON(w, herb)
	}
}

func SearchHerbs(s service.HerbService, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		page := intParam(r, "page", 1)
		limit := intParam(r, "limit", 0)

		res, err := s.Search(r.Context(), q, page, limit)
		if err != nil {
			handleServiceErr(w, err)
			return
		}
		materializePhotoURLs(res.Results, requestOrigin(r, cfg), cfg)
		writeJSON(w, res)
	}
}

func GlobalSearch(s service.HerbService, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		page := intParam(r, "page", 1)
		limit := intParam(r, "limit", 0)

		res, err := s.GlobalSearch(r.Context(), q, page, limit)
		if err != nil {
			handleServiceErr(w, err)
			return
		}
		materializePhotoURLs(res.Results, requestOrigin(r, cfg), cfg)
		writeJSON(w, res)
	}
}

func Suggestions(s service.HerbService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		limit := intParam(r, "limit", 0)

		names, err := s.Suggestions(r.Context(), q, limit)
		if err != nil {
			handleServiceErr(w, err)
			return
		}
		writeJSON(w, suggestionsResponse{Suggestions: names})
	}
}

func PopularHerbs(s service.HerbService, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := intParam(r, "limit", 0)

		herbs, err := s.Popular(r.Context(), limit)
		if err != nil {
			handleServiceErr(w, err)
			return
		}
		materializePhotoURLs(herbs, requestOrigin(r, cfg), cfg)
		writeJSON(w, popularResponse{Words: herbs})
	}
}

func RandomHerb(s service.HerbService, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		herb, err := s.Random(r.Context())
		if err != nil {
			handleServiceErr(w, err)
			return
		}
		materializePhotoURL(herb, requestOrigin(r, cfg), cfg)
		writeJSON(w, herb)
	}
}

func WordOfTheDay(s service.HerbService, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		herb, err := s.WordOfTheDay(r.Context())
		if err != nil {
			handleServiceErr(w, err)
			return
		}
		materializePhotoURL(herb, requestOrigin(r, cfg), cfg)
		writeJSON(w, herb)
	}
}
