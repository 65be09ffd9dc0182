// Package catalog builds and serves the per-media-type catalogs. A
// generation run reconciles the indexer's directory snapshot against the
// remote metadata service and fully replaces the previous catalog; the
// in-memory read model is swapped only after a type's run completes, so
// readers never observe a half-built catalog.
package catalog

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"homecast/config"
	"homecast/models"
	"homecast/services/indexer"
)

// metadataProvider is the slice of the metadata service the builder
// consumes.
type metadataProvider interface {
	Movie(ctx context.Context, id int64) (models.Movie, error)
	TVShow(ctx context.Context, id int64) (models.TVShow, error)
	TVEpisode(ctx context.Context, tvID int64, season, episode int) (models.Episode, error)
	Album(ctx context.Context, id string) (models.Album, error)
	Artist(ctx context.Context, id string) (models.Artist, error)
}

// snapshotter supplies the point-in-time directory listing a run consumes.
type snapshotter interface {
	Snapshot() indexer.Collection
}

// Service owns catalog generation and the in-memory read model.
type Service struct {
	idx      snapshotter
	provider metadataProvider
	store    *Store
	library  config.LibrarySettings

	mu     sync.RWMutex
	movies []models.Movie
	tv     []models.TVShow
	music  []models.Album

	// Collapses overlapping generation requests per media type.
	group singleflight.Group
}

// NewService wires the builder to its collaborators.
func NewService(idx snapshotter, provider metadataProvider, store *Store, library config.LibrarySettings) *Service {
	return &Service{
		idx:      idx,
		provider: provider,
		store:    store,
		library:  library,
	}
}

// LoadFromStore populates the read model from the persisted snapshots at
// process start. Missing snapshot files leave empty catalogs.
func (s *Service) LoadFromStore() error {
	movies, err := s.store.LoadMovies()
	if err != nil {
		return err
	}
	tv, err := s.store.LoadTV()
	if err != nil {
		return err
	}
	music, err := s.store.LoadMusic()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.movies = movies
	s.tv = tv
	s.music = music
	s.mu.Unlock()

	log.Printf("[catalog] loaded snapshots: %d movies, %d shows, %d albums", len(movies), len(tv), len(music))
	return nil
}

// Generate rebuilds the requested catalogs in the fixed order movies, tv,
// music, one metadata fetch at a time. An empty kinds list means all
// three. Overlapping invocations join the in-flight run for each media
// type instead of racing it. Returns the run identifier used in logs.
func (s *Service) Generate(ctx context.Context, kinds ...models.MediaType) string {
	runID := uuid.NewString()
	s.generate(ctx, runID, kinds...)
	return runID
}

// GenerateAsync starts a generation run in the background and returns its
// run identifier immediately.
func (s *Service) GenerateAsync(kinds ...models.MediaType) string {
	runID := uuid.NewString()
	go s.generate(context.Background(), runID, kinds...)
	return runID
}

func (s *Service) generate(ctx context.Context, runID string, kinds ...models.MediaType) {
	wanted := func(k models.MediaType) bool {
		if len(kinds) == 0 {
			return true
		}
		for _, kind := range kinds {
			if kind == k {
				return true
			}
		}
		return false
	}

	log.Printf("[catalog] run %s starting", runID)

	if wanted(models.MediaTypeMovies) {
		s.generateOne(ctx, runID, models.MediaTypeMovies)
	}
	if wanted(models.MediaTypeTV) {
		s.generateOne(ctx, runID, models.MediaTypeTV)
	}
	if wanted(models.MediaTypeMusic) {
		s.generateOne(ctx, runID, models.MediaTypeMusic)
	}

	log.Printf("[catalog] run %s finished", runID)
}

func (s *Service) generateOne(ctx context.Context, runID string, mediaType models.MediaType) {
	_, _, _ = s.group.Do(string(mediaType), func() (any, error) {
		snapshot := s.idx.Snapshot()

		switch mediaType {
		case models.MediaTypeMovies:
			movies := s.generateMovies(ctx, runID, snapshot)
			if err := s.store.SaveMovies(movies); err != nil {
				log.Printf("[catalog] run %s: persist movies: %v", runID, err)
			} else {
				log.Printf("[catalog] run %s: movies catalog saved (%d entries)", runID, len(movies))
			}
			s.mu.Lock()
			s.movies = movies
			s.mu.Unlock()

		case models.MediaTypeTV:
			shows := s.generateTV(ctx, runID, snapshot)
			if err := s.store.SaveTV(shows); err != nil {
				log.Printf("[catalog] run %s: persist tv: %v", runID, err)
			} else {
				log.Printf("[catalog] run %s: tv catalog saved (%d entries)", runID, len(shows))
			}
			s.mu.Lock()
			s.tv = shows
			s.mu.Unlock()

		case models.MediaTypeMusic:
			albums := s.generateMusic(ctx, runID, snapshot)
			if err := s.store.SaveMusic(albums); err != nil {
				log.Printf("[catalog] run %s: persist music: %v", runID, err)
			} else {
				log.Printf("[catalog] run %s: music catalog saved (%d entries)", runID, len(albums))
			}
			s.mu.Lock()
			s.music = albums
			s.mu.Unlock()
		}

		return nil, nil
	})
}

// dirsUnder returns the snapshot keys below root in sorted order. The
// root entry itself is excluded when includeRoot is false.
func dirsUnder(snapshot indexer.Collection, root string, includeRoot bool) []string {
	dirs := make([]string, 0, len(snapshot))
	for dir := range snapshot {
		if !strings.HasPrefix(dir, root) {
			continue
		}
		if dir == root && !includeRoot {
			continue
		}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Movies returns a copy of the movie catalog.
func (s *Service) Movies() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// TV returns a copy of the tv catalog.
func (s *Service) TV() []models.TVShow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TVShow, len(s.tv))
	copy(out, s.tv)
	return out
}

// Music returns a copy of the music catalog.
func (s *Service) Music() []models.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Album, len(s.music))
	copy(out, s.music)
	return out
}

// MovieByID finds a movie catalog entry.
func (s *Service) MovieByID(id int64) (models.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.ID == id {
			return m, true
		}
	}
	return models.Movie{}, false
}

// ShowByID finds a tv catalog entry.
func (s *Service) ShowByID(id int64) (models.TVShow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, show := range s.tv {
		if show.ID == id {
			return show, true
		}
	}
	return models.TVShow{}, false
}

// AlbumByID finds a music catalog entry.
func (s *Service) AlbumByID(id string) (models.Album, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, album := range s.music {
		if album.ID == id {
			return album, true
		}
	}
	return models.Album{}, false
}

// MoviePath resolves a movie id to its local file path.
func (s *Service) MoviePath(id int64) (string, bool) {
	movie, ok := s.MovieByID(id)
	if !ok || !movie.HasLocalFile() {
		return "", false
	}
	return movie.FSPath, true
}

// EpisodePath resolves show, season and episode numbers to a local file
// path.
func (s *Service) EpisodePath(tvID int64, season, episode int) (string, bool) {
	show, ok := s.ShowByID(tvID)
	if !ok {
		return "", false
	}
	for _, se := range show.Seasons {
		if se.SeasonNumber != season {
			continue
		}
		for _, ep := range se.Episodes {
			if ep.EpisodeNumber == episode && ep.HasLocalFile() {
				return ep.FSPath, true
			}
		}
	}
	return "", false
}

// TrackPath resolves an album track by disc and track number to a local
// file path.
func (s *Service) TrackPath(albumID string, disc, track int) (string, bool) {
	album, ok := s.AlbumByID(albumID)
	if !ok {
		return "", false
	}
	for _, item := range album.Tracks.Items {
		if item.DiscNumber == disc && item.TrackNumber == track && item.HasLocalFile() {
			return item.FSPath, true
		}
	}
	return "", false
}

// Songs flattens every locally available track across all albums into
// fresh song values carrying their album context. Stored tracks are never
// mutated by the flattening.
func (s *Service) Songs() []models.Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	songs := make([]models.Song, 0)
	for _, album := range s.music {
		for _, track := range album.Tracks.Items {
			if !track.HasLocalFile() {
				continue
			}
			songs = append(songs, models.Song{
				Track:       track,
				AlbumName:   album.Name,
				AlbumImages: append([]models.Image(nil), album.Images...),
				Artists:     append([]models.ArtistRef(nil), album.Artists...),
			})
		}
	}
	return songs
}

// Artists returns the artists across all albums, deduplicated by id in
// first-seen order.
func (s *Service) Artists() []models.ArtistRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	artists := make([]models.ArtistRef, 0)
	for _, album := range s.music {
		for _, artist := range album.Artists {
			key := artist.ID + "\x00" + artist.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			artists = append(artists, artist)
		}
	}
	return artists
}
