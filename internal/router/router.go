package router

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"DermanlykBackend/config"
	"DermanlykBackend/internal/handler"
	"DermanlykBackend/internal/repository/postgres"
	"DermanlykBackend/internal/service"

	"github.com/gorilla/mux"
)

func setCORSHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r)

		slog.Info("request",
			"method", r.Method,
			"url", r.URL.String(),
			"status", sw.status,
			"duration", time.Since(start),
			"ip", r.RemoteAddr,
		)
	})
}

func NewRouter(db *sql.DB, cfg *config.Config) *mux.Router {
	herbRepo := postgres.NewHerbRepository(db)
	herbService := service.NewHerbService(herbRepo, cfg.MaxSearchLimit)

	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(setCORSHeaders)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/words/search", handler.SearchHerbs(herbService, cfg)).Methods("GET")
	api.HandleFunc("/words/suggestions", handler.Suggestions(herbService)).Methods("GET")
	api.HandleFunc("/words/popular", handler.PopularHerbs(herbService, cfg)).Methods("GET")
	api.HandleFunc("/words/random", handler.RandomHerb(herbService, cfg)).Methods("GET")
	api.HandleFunc("/words/word-of-the-day", handler.WordOfTheDay(herbService, cfg)).Methods("GET")
	api.HandleFunc("/words/{id:[0-9]+}", handler.GetHerb(herbService, cfg)).Methods("GET")
	api.HandleFunc("/words/", handler.ListHerbs(herbService, cfg)).Methods("GET")
	api.HandleFunc("/search", handler.GlobalSearch(herbService, cfg)).Methods("GET")

	r.PathPrefix(cfg.MediaURL).Handler(
		http.StripPrefix(cfg.MediaURL, http.FileServer(http.Dir(cfg.MediaRoot))))

	return r
}
