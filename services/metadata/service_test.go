package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"homecast/config"
	"homecast/models"
)

func newTitlesServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestMovieLookup(t *testing.T) {
	var gotPath, gotKey, gotLang, gotAppend string
	srv := newTitlesServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotLang = r.URL.Query().Get("language")
		gotAppend = r.URL.Query().Get("append_to_response")
		json.NewEncoder(w).Encode(map[string]any{
			"id":           int64(27205),
			"title":        "Inception",
			"popularity":   29.1,
			"vote_average": 8.3,
			"genres":       []map[string]any{{"id": 28, "name": "Action"}},
			"credits": map[string]any{
				"cast": []map[string]any{{"id": 6193, "name": "Leonardo DiCaprio", "order": 0}},
				"crew": []map[string]any{{"id": 525, "name": "Christopher Nolan", "job": "Director"}},
			},
		})
	})

	svc := NewServiceWithClient(config.MetadataSettings{
		MovieBaseURL: srv.URL,
		MovieAPIKey:  "test-key",
		Language:     "en-US",
	}, srv.Client())

	movie, err := svc.Movie(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Movie: %v", err)
	}

	if gotPath != "/movie/27205" {
		t.Errorf("request path = %q, want /movie/27205", gotPath)
	}
	if gotKey != "test-key" || gotLang != "en-US" {
		t.Errorf("query credentials = (%q, %q), want (test-key, en-US)", gotKey, gotLang)
	}
	if gotAppend != "credits" {
		t.Errorf("append_to_response = %q, want credits", gotAppend)
	}
	if movie.ID != 27205 || movie.Title != "Inception" {
		t.Errorf("movie = %+v", movie)
	}
	if len(movie.Credits.Crew) != 1 || movie.Credits.Crew[0].Job != "Director" {
		t.Errorf("crew = %+v", movie.Credits.Crew)
	}
}

func TestTVEpisodeLookupPath(t *testing.T) {
	var gotPath string
	srv := newTitlesServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"id": 63056, "name": "Winter Is Coming", "season_number": 1, "episode_number": 1,
		})
	})

	svc := NewServiceWithClient(config.MetadataSettings{
		MovieBaseURL: srv.URL,
		MovieAPIKey:  "test-key",
	}, srv.Client())

	ep, err := svc.TVEpisode(context.Background(), 1399, 1, 1)
	if err != nil {
		t.Fatalf("TVEpisode: %v", err)
	}
	if gotPath != "/tv/1399/season/1/episode/1" {
		t.Errorf("request path = %q", gotPath)
	}
	if ep.Name != "Winter Is Coming" || ep.SeasonNumber != 1 {
		t.Errorf("episode = %+v", ep)
	}
}

func TestMovieNotFound(t *testing.T) {
	srv := newTitlesServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	svc := NewServiceWithClient(config.MetadataSettings{
		MovieBaseURL: srv.URL,
		MovieAPIKey:  "test-key",
	}, srv.Client())

	_, err := svc.Movie(context.Background(), 99999999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMovieNotConfigured(t *testing.T) {
	svc := NewService(config.MetadataSettings{})
	_, err := svc.Movie(context.Background(), 1)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	_, err = svc.Album(context.Background(), "x")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestAlbumLookupWithTokenFlow(t *testing.T) {
	var tokenCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": 3600})
	})
	mux.HandleFunc("GET /albums/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "no token", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":         r.PathValue("id"),
			"name":       "Global Warming",
			"album_type": "album",
			"artists":    []map[string]any{{"id": "0TnOYISbd1XYRBk9myaseg", "name": "Pitbull", "type": "artist"}},
			"tracks": map[string]any{
				"items": []map[string]any{
					{"id": "t1", "name": "Global Warming", "disc_number": 1, "track_number": 1, "duration_ms": 205000},
				},
			},
		})
	})
	mux.HandleFunc("GET /artists/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": r.PathValue("id"), "name": "Pitbull", "popularity": 84,
			"images": []map[string]any{{"url": "https://img.example/pitbull.jpg", "width": 640, "height": 640}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc := NewServiceWithClient(config.MetadataSettings{
		MusicBaseURL:      srv.URL,
		MusicTokenURL:     srv.URL + "/token",
		MusicClientID:     "client-id",
		MusicClientSecret: "client-secret",
	}, srv.Client())

	album, err := svc.Album(context.Background(), "4aawyAB9vmqN3uQ7FjRGTy")
	if err != nil {
		t.Fatalf("Album: %v", err)
	}
	if album.Name != "Global Warming" || len(album.Tracks.Items) != 1 {
		t.Errorf("album = %+v", album)
	}
	if album.Tracks.Items[0].DurationMS != 205000 {
		t.Errorf("track duration = %d", album.Tracks.Items[0].DurationMS)
	}

	artist, err := svc.Artist(context.Background(), "0TnOYISbd1XYRBk9myaseg")
	if err != nil {
		t.Fatalf("Artist: %v", err)
	}
	if artist.Popularity != 84 || len(artist.Images) != 1 {
		t.Errorf("artist = %+v", artist)
	}

	// The cached token must be reused across lookups.
	if got := tokenCalls.Load(); got != 1 {
		t.Errorf("token requests = %d, want 1", got)
	}
}

func TestGetDispatch(t *testing.T) {
	srv := newTitlesServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": int64(603), "title": "The Matrix"})
	})

	svc := NewServiceWithClient(config.MetadataSettings{
		MovieBaseURL: srv.URL,
		MovieAPIKey:  "test-key",
	}, srv.Client())

	v, err := svc.Get(context.Background(), MovieDescriptor(603))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	movie, ok := v.(models.Movie)
	if !ok {
		t.Fatalf("Get returned %T, want models.Movie", v)
	}
	if movie.Title != "The Matrix" {
		t.Errorf("movie title = %q", movie.Title)
	}

	if _, err := svc.Get(context.Background(), Descriptor{Kind: "bogus"}); err == nil {
		t.Fatal("expected error for unknown descriptor kind")
	}
}
