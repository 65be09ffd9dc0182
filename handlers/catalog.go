package handlers

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"homecast/models"
	catalogsvc "homecast/services/catalog"
)

// topListSize caps the most_popular / highest_rated / recently_added
// listings.
const topListSize = 25

type catalogService interface {
	Movies() []models.Movie
	TV() []models.TVShow
	Music() []models.Album
	MovieByID(id int64) (models.Movie, bool)
	ShowByID(id int64) (models.TVShow, bool)
	AlbumByID(id string) (models.Album, bool)
	Songs() []models.Song
	Artists() []models.ArtistRef
	GenerateAsync(kinds ...models.MediaType) string
}

var _ catalogService = (*catalogsvc.Service)(nil)

// CatalogHandler serves the read-only catalog query API.
type CatalogHandler struct {
	Service catalogService

	environment string
	collator    *collate.Collator
}

func NewCatalogHandler(s catalogService, environment string) *CatalogHandler {
	return &CatalogHandler{
		Service:     s,
		environment: environment,
		collator:    collate.New(language.English),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[catalog-handler] encode response: %v", err)
	}
}

// About reports service identity and environment.
func (h *CatalogHandler) About(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"homecast":    "hello world",
		"environment": h.environment,
	})
}

// Generate kicks off a catalog generation run in the background and
// responds with its run id.
func (h *CatalogHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var kinds []models.MediaType
	if raw := strings.TrimSpace(r.URL.Query().Get("media")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			switch models.MediaType(strings.TrimSpace(part)) {
			case models.MediaTypeMovies:
				kinds = append(kinds, models.MediaTypeMovies)
			case models.MediaTypeTV:
				kinds = append(kinds, models.MediaTypeTV)
			case models.MediaTypeMusic:
				kinds = append(kinds, models.MediaTypeMusic)
			}
		}
	}

	runID := h.Service.GenerateAsync(kinds...)
	writeJSON(w, map[string]string{
		"status": "generating",
		"run_id": runID,
	})
}

// Movies returns the whole movie catalog.
func (h *CatalogHandler) Movies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Movies())
}

// MostPopularMovies returns the top movies by popularity.
func (h *CatalogHandler) MostPopularMovies(w http.ResponseWriter, r *http.Request) {
	movies := h.Service.Movies()
	sort.SliceStable(movies, func(i, j int) bool { return movies[i].Popularity > movies[j].Popularity })
	writeJSON(w, top(movies))
}

// HighestRatedMovies returns the top movies by vote average.
func (h *CatalogHandler) HighestRatedMovies(w http.ResponseWriter, r *http.Request) {
	movies := h.Service.Movies()
	sort.SliceStable(movies, func(i, j int) bool { return movies[i].VoteAverage > movies[j].VoteAverage })
	writeJSON(w, top(movies))
}

// RecentlyAddedMovies returns the most recently modified movies.
func (h *CatalogHandler) RecentlyAddedMovies(w http.ResponseWriter, r *http.Request) {
	movies := h.Service.Movies()
	sort.SliceStable(movies, func(i, j int) bool { return movies[i].MTime.After(movies[j].MTime) })
	writeJSON(w, top(movies))
}

// MovieGenres lists the distinct genres across the movie catalog.
func (h *CatalogHandler) MovieGenres(w http.ResponseWriter, r *http.Request) {
	var genres [][]models.Genre
	for _, m := range h.Service.Movies() {
		genres = append(genres, m.Genres)
	}
	writeJSON(w, h.distinctGenres(genres))
}

// MoviesByGenre filters the movie catalog by genre name.
func (h *CatalogHandler) MoviesByGenre(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	matches := make([]models.Movie, 0)
	for _, m := range h.Service.Movies() {
		if hasGenre(m.Genres, name) {
			matches = append(matches, m)
		}
	}
	writeJSON(w, matches)
}

// RandomMovie returns one random movie catalog entry.
func (h *CatalogHandler) RandomMovie(w http.ResponseWriter, r *http.Request) {
	movies := h.Service.Movies()
	if len(movies) == 0 {
		http.Error(w, "catalog is empty", http.StatusNotFound)
		return
	}
	writeJSON(w, movies[rand.IntN(len(movies))])
}

// Movie returns a single movie by id.
func (h *CatalogHandler) Movie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}
	movie, ok := h.Service.MovieByID(id)
	if !ok {
		http.Error(w, "movie not found", http.StatusNotFound)
		return
	}
	writeJSON(w, movie)
}

// TV returns the whole tv catalog.
func (h *CatalogHandler) TV(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.TV())
}

// MostPopularTV returns the top shows by popularity.
func (h *CatalogHandler) MostPopularTV(w http.ResponseWriter, r *http.Request) {
	shows := h.Service.TV()
	sort.SliceStable(shows, func(i, j int) bool { return shows[i].Popularity > shows[j].Popularity })
	writeJSON(w, top(shows))
}

// HighestRatedTV returns the top shows by vote average.
func (h *CatalogHandler) HighestRatedTV(w http.ResponseWriter, r *http.Request) {
	shows := h.Service.TV()
	sort.SliceStable(shows, func(i, j int) bool { return shows[i].VoteAverage > shows[j].VoteAverage })
	writeJSON(w, top(shows))
}

// RecentlyAddedTV returns the shows with the newest local episodes.
func (h *CatalogHandler) RecentlyAddedTV(w http.ResponseWriter, r *http.Request) {
	shows := h.Service.TV()
	sort.SliceStable(shows, func(i, j int) bool { return shows[i].MTime.After(shows[j].MTime) })
	writeJSON(w, top(shows))
}

// TVGenres lists the distinct genres across the tv catalog.
func (h *CatalogHandler) TVGenres(w http.ResponseWriter, r *http.Request) {
	var genres [][]models.Genre
	for _, show := range h.Service.TV() {
		genres = append(genres, show.Genres)
	}
	writeJSON(w, h.distinctGenres(genres))
}

// TVByGenre filters the tv catalog by genre name.
func (h *CatalogHandler) TVByGenre(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	matches := make([]models.TVShow, 0)
	for _, show := range h.Service.TV() {
		if hasGenre(show.Genres, name) {
			matches = append(matches, show)
		}
	}
	writeJSON(w, matches)
}

// RandomTV returns one random show catalog entry.
func (h *CatalogHandler) RandomTV(w http.ResponseWriter, r *http.Request) {
	shows := h.Service.TV()
	if len(shows) == 0 {
		http.Error(w, "catalog is empty", http.StatusNotFound)
		return
	}
	writeJSON(w, shows[rand.IntN(len(shows))])
}

// Show returns a single show by id.
func (h *CatalogHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid show id", http.StatusBadRequest)
		return
	}
	show, ok := h.Service.ShowByID(id)
	if !ok {
		http.Error(w, "show not found", http.StatusNotFound)
		return
	}
	writeJSON(w, show)
}

// Albums returns the whole music catalog.
func (h *CatalogHandler) Albums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Music())
}

// Album returns a single album by id.
func (h *CatalogHandler) Album(w http.ResponseWriter, r *http.Request) {
	album, ok := h.Service.AlbumByID(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "album not found", http.StatusNotFound)
		return
	}
	writeJSON(w, album)
}

// Artists lists the distinct artists across the music catalog.
func (h *CatalogHandler) Artists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Artists())
}

// Songs lists every locally available track with its album context.
func (h *CatalogHandler) Songs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Songs())
}

// RecentlyAddedMusic returns the most recently modified albums.
func (h *CatalogHandler) RecentlyAddedMusic(w http.ResponseWriter, r *http.Request) {
	albums := h.Service.Music()
	sort.SliceStable(albums, func(i, j int) bool { return albums[i].MTime.After(albums[j].MTime) })
	writeJSON(w, top(albums))
}

func top[T any](items []T) []T {
	if len(items) > topListSize {
		return items[:topListSize]
	}
	return items
}

func hasGenre(genres []models.Genre, name string) bool {
	for _, g := range genres {
		if g.Name == name {
			return true
		}
	}
	return false
}

// distinctGenres deduplicates by genre id and sorts by name.
func (h *CatalogHandler) distinctGenres(groups [][]models.Genre) []models.Genre {
	seen := make(map[int64]bool)
	distinct := make([]models.Genre, 0)
	for _, group := range groups {
		for _, g := range group {
			if seen[g.ID] {
				continue
			}
			seen[g.ID] = true
			distinct = append(distinct, g)
		}
	}
	sort.SliceStable(distinct, func(i, j int) bool {
		return h.collator.CompareString(distinct[i].Name, distinct[j].Name) < 0
	})
	return distinct
}
