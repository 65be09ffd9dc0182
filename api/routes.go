// Package api mounts the HTTP surface: the JSON catalog query API under
// /api, the playback streaming routes at the root, and the Prometheus
// metrics endpoint.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"homecast/handlers"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homecast_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "method", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "homecast_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// statusRecorder captures the response status code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// corsMiddleware handles CORS for API routes.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Range")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter constructs the application router.
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)
	return r
}

// Register mounts all endpoints onto the provided router.
func Register(r *mux.Router, catalogHandler *handlers.CatalogHandler, streamHandler *handlers.StreamHandler) {
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Preflight requests are answered by the CORS middleware.
	api.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return req.Method == http.MethodOptions
	}).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	api.HandleFunc("/about", catalogHandler.About).Methods(http.MethodGet)
	api.HandleFunc("/generate", catalogHandler.Generate).Methods(http.MethodGet)

	api.HandleFunc("/movies", catalogHandler.Movies).Methods(http.MethodGet)
	api.HandleFunc("/movies/most_popular", catalogHandler.MostPopularMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/highest_rated", catalogHandler.HighestRatedMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/recently_added", catalogHandler.RecentlyAddedMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/genres", catalogHandler.MovieGenres).Methods(http.MethodGet)
	api.HandleFunc("/movies/genres/{name}", catalogHandler.MoviesByGenre).Methods(http.MethodGet)
	api.HandleFunc("/movies/random", catalogHandler.RandomMovie).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id}", catalogHandler.Movie).Methods(http.MethodGet)

	api.HandleFunc("/tv", catalogHandler.TV).Methods(http.MethodGet)
	api.HandleFunc("/tv/most_popular", catalogHandler.MostPopularTV).Methods(http.MethodGet)
	api.HandleFunc("/tv/highest_rated", catalogHandler.HighestRatedTV).Methods(http.MethodGet)
	api.HandleFunc("/tv/recently_added", catalogHandler.RecentlyAddedTV).Methods(http.MethodGet)
	api.HandleFunc("/tv/genres", catalogHandler.TVGenres).Methods(http.MethodGet)
	api.HandleFunc("/tv/genres/{name}", catalogHandler.TVByGenre).Methods(http.MethodGet)
	api.HandleFunc("/tv/random", catalogHandler.RandomTV).Methods(http.MethodGet)
	api.HandleFunc("/tv/{id}", catalogHandler.Show).Methods(http.MethodGet)

	api.HandleFunc("/music/albums", catalogHandler.Albums).Methods(http.MethodGet)
	api.HandleFunc("/music/albums/{id}", catalogHandler.Album).Methods(http.MethodGet)
	api.HandleFunc("/music/artists", catalogHandler.Artists).Methods(http.MethodGet)
	api.HandleFunc("/music/songs", catalogHandler.Songs).Methods(http.MethodGet)
	api.HandleFunc("/music/recently_added", catalogHandler.RecentlyAddedMusic).Methods(http.MethodGet)

	api.HandleFunc("/watch/search", catalogHandler.SearchWatch).Methods(http.MethodGet)
	api.HandleFunc("/listen/search", catalogHandler.SearchListen).Methods(http.MethodGet)

	r.HandleFunc("/movies/{id}", streamHandler.Movie).Methods(http.MethodGet)
	r.HandleFunc("/tv/{tv_id}/{season_number}/{episode_number}", streamHandler.Episode).Methods(http.MethodGet)
	r.HandleFunc("/music/{album_id}/{disc_number}/{track_number}", streamHandler.Track).Methods(http.MethodGet)
}
