package models

import "time"

// Catalog entry shapes persisted to the per-media-type snapshot files and
// served by the query API. JSON keys mirror the snapshot file format, so
// renaming a field here is a breaking change for existing data files.

// MediaType identifies one of the three catalogs.
type MediaType string

const (
	MediaTypeMovies MediaType = "movies"
	MediaTypeTV     MediaType = "tv"
	MediaTypeMusic  MediaType = "music"
)

// MediaAsset carries the filesystem-derived facts attached to every entry
// that resolved to a local file. URLPath is the synthetic playback route;
// an empty URLPath means no local file matched.
type MediaAsset struct {
	FSPath  string    `json:"fs_path,omitempty"`
	URLPath string    `json:"url_path,omitempty"`
	CTime   time.Time `json:"ctime,omitzero"`
	MTime   time.Time `json:"mtime,omitzero"`
}

// HasLocalFile reports whether a local file was reconciled onto this entry.
func (a MediaAsset) HasLocalFile() bool {
	return a.URLPath != ""
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

type CrewMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job,omitempty"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Movie is one movie catalog entry, keyed by the remote movie identifier.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Tagline      string  `json:"tagline,omitempty"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	Runtime      int     `json:"runtime,omitempty"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	Genres       []Genre `json:"genres"`
	Credits      Credits `json:"credits"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`

	MediaAsset
}

// TVShow is one show catalog entry with its reconciled seasons.
type TVShow struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline,omitempty"`
	Overview     string   `json:"overview"`
	FirstAirDate string   `json:"first_air_date,omitempty"`
	Popularity   float64  `json:"popularity"`
	VoteAverage  float64  `json:"vote_average"`
	Genres       []Genre  `json:"genres"`
	Credits      Credits  `json:"credits"`
	PosterPath   string   `json:"poster_path,omitempty"`
	BackdropPath string   `json:"backdrop_path,omitempty"`
	Seasons      []Season `json:"seasons"`

	// MTime of the most recently added episode, used by recently_added.
	MTime time.Time `json:"mtime,omitzero"`
}

type Season struct {
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty"`
	Episodes     []Episode `json:"episodes"`
}

type Episode struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	SeasonNumber  int     `json:"season_number"`
	EpisodeNumber int     `json:"episode_number"`
	AirDate       string  `json:"air_date,omitempty"`
	StillPath     string  `json:"still_path,omitempty"`
	VoteAverage   float64 `json:"vote_average,omitempty"`

	MediaAsset
}

// Image is a remote artwork reference carried on albums and artists.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ArtistRef is the artist reference embedded in an album. Images and
// Popularity are backfilled from a dedicated artist lookup during
// generation.
type ArtistRef struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Type       string  `json:"type,omitempty"`
	Images     []Image `json:"images,omitempty"`
	Popularity int     `json:"popularity,omitempty"`
}

// Artist is the full artist record returned by the metadata service.
type Artist struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Images     []Image `json:"images"`
	Popularity int     `json:"popularity"`
}

type ExternalURLs struct {
	Spotify string `json:"spotify,omitempty"`
}

// Track is one entry in an album's track list. Tracks without a local
// match carry no asset fields.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	DiscNumber   int          `json:"disc_number"`
	TrackNumber  int          `json:"track_number"`
	DurationMS   int64        `json:"duration_ms,omitempty"`
	PreviewURL   string       `json:"preview_url,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls,omitzero"`

	MediaAsset
}

// AlbumTracks wraps an album's track list together with the aggregates
// derived during generation.
type AlbumTracks struct {
	Items []Track `json:"items"`
	// LocalTotal counts tracks with a local file; PreviewTotal counts
	// tracks with a preview clip.
	LocalTotal      int   `json:"local_total"`
	PreviewTotal    int   `json:"preview_total,omitempty"`
	TotalDurationMS int64 `json:"total_duration_ms,omitempty"`
}

// Album is one music catalog entry, either fetched from the metadata
// service or synthesized for an "Unknown Album" directory.
type Album struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	AlbumType   string      `json:"album_type"`
	Artists     []ArtistRef `json:"artists"`
	Images      []Image     `json:"images"`
	ReleaseDate string      `json:"release_date,omitempty"`
	Label       string      `json:"label,omitempty"`
	Tracks      AlbumTracks `json:"tracks"`

	MTime time.Time `json:"mtime,omitzero"`
}

// Song is a flattened track for the songs listing: a fresh value carrying
// the album context, never a reference into the stored catalog.
type Song struct {
	Track
	AlbumName   string      `json:"album_name"`
	AlbumImages []Image     `json:"album_images"`
	Artists     []ArtistRef `json:"artists"`
}
