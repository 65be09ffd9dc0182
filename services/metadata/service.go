package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"homecast/config"
	"homecast/models"
)

var (
	// ErrNotFound reports that the remote service has no record for the
	// requested identifier.
	ErrNotFound = errors.New("metadata: not found")
	// ErrNotConfigured reports that the credentials for the requested
	// media type are missing from settings.
	ErrNotConfigured = errors.New("metadata: service not configured")
)

// Service resolves metadata descriptors against the remote lookup APIs.
// Lookups are single-attempt: the catalog builder owns the skip-on-failure
// policy, so no retrying happens here.
type Service struct {
	titles *tmdbClient
	music  *spotifyClient
}

// NewService creates a metadata service from the configured endpoints.
func NewService(cfg config.MetadataSettings) *Service {
	return NewServiceWithClient(cfg, nil)
}

// NewServiceWithClient allows tests to supply a custom HTTP client.
func NewServiceWithClient(cfg config.MetadataSettings, httpc *http.Client) *Service {
	return &Service{
		titles: newTMDBClient(cfg.MovieBaseURL, cfg.MovieAPIKey, cfg.Language, httpc),
		music:  newSpotifyClient(cfg.MusicBaseURL, cfg.MusicTokenURL, cfg.MusicClientID, cfg.MusicClientSecret, httpc),
	}
}

// Get resolves a tagged descriptor to its normalized metadata value. The
// concrete type of the result follows the descriptor kind: models.Movie,
// models.TVShow, models.Episode, models.Album or models.Artist.
func (s *Service) Get(ctx context.Context, d Descriptor) (any, error) {
	switch d.Kind {
	case KindMovie:
		return s.Movie(ctx, d.TitleID)
	case KindTVShow:
		return s.TVShow(ctx, d.TitleID)
	case KindTVEpisode:
		return s.TVEpisode(ctx, d.TitleID, d.SeasonNumber, d.EpisodeNumber)
	case KindAlbum:
		return s.Album(ctx, d.MusicID)
	case KindArtist:
		return s.Artist(ctx, d.MusicID)
	default:
		return nil, fmt.Errorf("metadata: unknown descriptor kind %q", d.Kind)
	}
}

func (s *Service) Movie(ctx context.Context, id int64) (models.Movie, error) {
	return s.titles.movie(ctx, id)
}

func (s *Service) TVShow(ctx context.Context, id int64) (models.TVShow, error) {
	return s.titles.tvShow(ctx, id)
}

func (s *Service) TVEpisode(ctx context.Context, tvID int64, season, episode int) (models.Episode, error) {
	return s.titles.tvEpisode(ctx, tvID, season, episode)
}

func (s *Service) Album(ctx context.Context, id string) (models.Album, error) {
	return s.music.album(ctx, id)
}

func (s *Service) Artist(ctx context.Context, id string) (models.Artist, error) {
	return s.music.artist(ctx, id)
}
