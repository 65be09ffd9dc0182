package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	catalogsvc "homecast/services/catalog"
	playbacksvc "homecast/services/playback"
)

// Media-class content types for playback responses. Audio uses the same
// type with and without a range request.
const (
	videoContentType = "video/mp4"
	audioContentType = "audio/mpeg"
)

type pathResolver interface {
	MoviePath(id int64) (string, bool)
	EpisodePath(tvID int64, season, episode int) (string, bool)
	TrackPath(albumID string, disc, track int) (string, bool)
}

type fileStreamer interface {
	ServeFile(w http.ResponseWriter, rangeHeader, path, contentType string) error
}

var (
	_ pathResolver = (*catalogsvc.Service)(nil)
	_ fileStreamer = (*playbacksvc.Service)(nil)
)

// StreamHandler serves media files for playback with byte-range support.
// Each request streams through its own file handle; catalog state is only
// read, never touched.
type StreamHandler struct {
	Resolver pathResolver
	Streamer fileStreamer
}

func NewStreamHandler(resolver pathResolver, streamer fileStreamer) *StreamHandler {
	return &StreamHandler{Resolver: resolver, Streamer: streamer}
}

// Movie streams the file backing a movie catalog entry.
func (h *StreamHandler) Movie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	path, ok := h.Resolver.MoviePath(id)
	if !ok {
		http.Error(w, "movie not found", http.StatusNotFound)
		return
	}

	h.stream(w, r, path, videoContentType)
}

// Episode streams the file backing one tv episode.
func (h *StreamHandler) Episode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tvID, err := strconv.ParseInt(vars["tv_id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid show id", http.StatusBadRequest)
		return
	}
	season, err := strconv.Atoi(vars["season_number"])
	if err != nil {
		http.Error(w, "invalid season number", http.StatusBadRequest)
		return
	}
	episode, err := strconv.Atoi(vars["episode_number"])
	if err != nil {
		http.Error(w, "invalid episode number", http.StatusBadRequest)
		return
	}

	path, ok := h.Resolver.EpisodePath(tvID, season, episode)
	if !ok {
		http.Error(w, "episode not found", http.StatusNotFound)
		return
	}

	h.stream(w, r, path, videoContentType)
}

// Track streams the file backing one album track.
func (h *StreamHandler) Track(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	disc, err := strconv.Atoi(vars["disc_number"])
	if err != nil {
		http.Error(w, "invalid disc number", http.StatusBadRequest)
		return
	}
	track, err := strconv.Atoi(vars["track_number"])
	if err != nil {
		http.Error(w, "invalid track number", http.StatusBadRequest)
		return
	}

	path, ok := h.Resolver.TrackPath(vars["album_id"], disc, track)
	if !ok {
		http.Error(w, "track not found", http.StatusNotFound)
		return
	}

	h.stream(w, r, path, audioContentType)
}

func (h *StreamHandler) stream(w http.ResponseWriter, r *http.Request, path, contentType string) {
	err := h.Streamer.ServeFile(w, r.Header.Get("Range"), path, contentType)
	switch {
	case err == nil:
	case errors.Is(err, playbacksvc.ErrNotFound):
		// Catalog entry points at a file that no longer exists.
		http.Error(w, "media file not found", http.StatusNotFound)
	case errors.Is(err, playbacksvc.ErrInvalidRange):
		// 416 already written by the streamer.
		log.Printf("[stream-handler] %s: %v", r.URL.Path, err)
	default:
		// Mid-stream failures cannot change the status line anymore;
		// log and let the connection drop.
		log.Printf("[stream-handler] %s: %v", r.URL.Path, err)
	}
}
