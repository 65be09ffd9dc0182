package handlers

import (
	"net/http"
	"strings"

	"homecast/models"
)

// Search responses mirror the catalog query API: watch search spans the
// movie and tv catalogs, listen search spans the music catalog.

type watchSearchResponse struct {
	Results []any `json:"results"`
	Count   int   `json:"count"`
}

type listenSearchResults struct {
	Songs   []models.Song      `json:"songs"`
	Artists []models.ArtistRef `json:"artists"`
	Albums  []models.Album     `json:"albums"`
}

type listenSearchResponse struct {
	Results     listenSearchResults `json:"results"`
	SongCount   int                 `json:"song_count"`
	ArtistCount int                 `json:"artist_count"`
	AlbumCount  int                 `json:"album_count"`
	TotalCount  int                 `json:"total_count"`
}

// SearchWatch matches a keyword against movie and tv entries across
// title, tagline, overview, season and episode text, cast names and the
// director credit.
func (h *CatalogHandler) SearchWatch(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))

	response := watchSearchResponse{Results: make([]any, 0)}
	if keyword == "" {
		writeJSON(w, response)
		return
	}

	for _, show := range h.Service.TV() {
		if matchesTVShow(show, keyword) {
			response.Results = append(response.Results, show)
		}
	}
	for _, movie := range h.Service.Movies() {
		if matchesMovie(movie, keyword) {
			response.Results = append(response.Results, movie)
		}
	}

	response.Count = len(response.Results)
	writeJSON(w, response)
}

// SearchListen matches a keyword against song, artist and album names.
func (h *CatalogHandler) SearchListen(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("q"))

	response := listenSearchResponse{
		Results: listenSearchResults{
			Songs:   make([]models.Song, 0),
			Artists: make([]models.ArtistRef, 0),
			Albums:  make([]models.Album, 0),
		},
	}
	if keyword == "" {
		writeJSON(w, response)
		return
	}

	for _, song := range h.Service.Songs() {
		if containsFold(song.Name, keyword) {
			response.Results.Songs = append(response.Results.Songs, song)
		}
	}
	for _, artist := range h.Service.Artists() {
		if containsFold(artist.Name, keyword) {
			response.Results.Artists = append(response.Results.Artists, artist)
		}
	}
	for _, album := range h.Service.Music() {
		if containsFold(album.Name, keyword) {
			response.Results.Albums = append(response.Results.Albums, album)
		}
	}

	response.SongCount = len(response.Results.Songs)
	response.ArtistCount = len(response.Results.Artists)
	response.AlbumCount = len(response.Results.Albums)
	response.TotalCount = response.SongCount + response.ArtistCount + response.AlbumCount
	writeJSON(w, response)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesMovie(movie models.Movie, keyword string) bool {
	if containsFold(movie.Title, keyword) ||
		containsFold(movie.Tagline, keyword) ||
		containsFold(movie.Overview, keyword) {
		return true
	}
	for _, member := range movie.Credits.Cast {
		if containsFold(member.Name, keyword) {
			return true
		}
	}
	for _, member := range movie.Credits.Crew {
		if member.Job == "Director" && containsFold(member.Name, keyword) {
			return true
		}
	}
	return false
}

func matchesTVShow(show models.TVShow, keyword string) bool {
	if containsFold(show.Name, keyword) ||
		containsFold(show.Tagline, keyword) ||
		containsFold(show.Overview, keyword) {
		return true
	}
	for _, season := range show.Seasons {
		if containsFold(season.Name, keyword) || containsFold(season.Overview, keyword) {
			return true
		}
		for _, ep := range season.Episodes {
			if containsFold(ep.Name, keyword) || containsFold(ep.Overview, keyword) {
				return true
			}
		}
	}
	for _, member := range show.Credits.Cast {
		if containsFold(member.Name, keyword) {
			return true
		}
	}
	return false
}
