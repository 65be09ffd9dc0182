package handlers_test

import (
	"net/http"
	"testing"

	"homecast/models"
)

func searchFixture() *fakeCatalog {
	return &fakeCatalog{
		movies: []models.Movie{
			{
				ID: 27205, Title: "Inception", Tagline: "Your mind is the scene of the crime",
				Credits: models.Credits{
					Cast: []models.CastMember{{ID: 6193, Name: "Leonardo DiCaprio"}},
					Crew: []models.CrewMember{
						{ID: 525, Name: "Christopher Nolan", Job: "Director"},
						{ID: 947, Name: "Hans Zimmer", Job: "Original Music Composer"},
					},
				},
			},
			{ID: 949, Title: "Heat"},
		},
		tv: []models.TVShow{
			{
				ID: 1399, Name: "Game of Thrones",
				Seasons: []models.Season{{
					SeasonNumber: 1,
					Episodes:     []models.Episode{{Name: "Winter Is Coming"}},
				}},
			},
		},
		songs: []models.Song{
			{Track: models.Track{ID: "t1", Name: "Global Warming"}, AlbumName: "Global Warming"},
		},
		artists: []models.ArtistRef{{ID: "a1", Name: "Pitbull"}},
		music:   []models.Album{{ID: "alb1", Name: "Global Warming"}},
	}
}

type watchResponse struct {
	Results []map[string]any `json:"results"`
	Count   int              `json:"count"`
}

func TestSearchWatchEmptyQuery(t *testing.T) {
	r := newCatalogRouter(searchFixture())

	rec := doGET(t, r, "/api/watch/search?q=")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[watchResponse](t, rec)
	if got.Count != 0 || len(got.Results) != 0 {
		t.Fatalf("response = %+v, want empty results", got)
	}
}

func TestSearchWatchByTitle(t *testing.T) {
	r := newCatalogRouter(searchFixture())

	got := decode[watchResponse](t, doGET(t, r, "/api/watch/search?q=inception"))
	if got.Count != 1 {
		t.Fatalf("response = %+v", got)
	}
	if got.Results[0]["title"] != "Inception" {
		t.Errorf("result = %v", got.Results[0])
	}
}

func TestSearchWatchShowsBeforeMovies(t *testing.T) {
	fake := searchFixture()
	// Make one keyword hit both catalogs.
	fake.movies[1].Title = "Game Night"
	r := newCatalogRouter(fake)

	got := decode[watchResponse](t, doGET(t, r, "/api/watch/search?q=game"))
	if got.Count != 2 {
		t.Fatalf("response = %+v", got)
	}
	if got.Results[0]["name"] != "Game of Thrones" {
		t.Errorf("first result = %v, want the show", got.Results[0])
	}
	if got.Results[1]["title"] != "Game Night" {
		t.Errorf("second result = %v, want the movie", got.Results[1])
	}
}

func TestSearchWatchByCastAndDirector(t *testing.T) {
	r := newCatalogRouter(searchFixture())

	byCast := decode[watchResponse](t, doGET(t, r, "/api/watch/search?q=dicaprio"))
	if byCast.Count != 1 {
		t.Fatalf("cast search = %+v", byCast)
	}

	byDirector := decode[watchResponse](t, doGET(t, r, "/api/watch/search?q=nolan"))
	if byDirector.Count != 1 {
		t.Fatalf("director search = %+v", byDirector)
	}

	// Crew other than the director is not searched.
	byComposer := decode[watchResponse](t, doGET(t, r, "/api/watch/search?q=zimmer"))
	if byComposer.Count != 0 {
		t.Fatalf("composer search = %+v, want no match", byComposer)
	}
}

func TestSearchWatchByEpisodeName(t *testing.T) {
	r := newCatalogRouter(searchFixture())

	got := decode[watchResponse](t, doGET(t, r, "/api/watch/search?q=winter"))
	if got.Count != 1 || got.Results[0]["name"] != "Game of Thrones" {
		t.Fatalf("response = %+v", got)
	}
}

type listenResponse struct {
	Results struct {
		Songs   []models.Song      `json:"songs"`
		Artists []models.ArtistRef `json:"artists"`
		Albums  []models.Album     `json:"albums"`
	} `json:"results"`
	SongCount   int `json:"song_count"`
	ArtistCount int `json:"artist_count"`
	AlbumCount  int `json:"album_count"`
	TotalCount  int `json:"total_count"`
}

func TestSearchListen(t *testing.T) {
	r := newCatalogRouter(searchFixture())

	got := decode[listenResponse](t, doGET(t, r, "/api/listen/search?q=global"))
	if got.SongCount != 1 || got.AlbumCount != 1 || got.ArtistCount != 0 {
		t.Fatalf("counts = %+v", got)
	}
	if got.TotalCount != 2 {
		t.Errorf("total = %d, want 2", got.TotalCount)
	}

	artists := decode[listenResponse](t, doGET(t, r, "/api/listen/search?q=pitbull"))
	if artists.ArtistCount != 1 || artists.TotalCount != 1 {
		t.Fatalf("counts = %+v", artists)
	}
}

func TestSearchListenEmptyQuery(t *testing.T) {
	r := newCatalogRouter(searchFixture())

	got := decode[listenResponse](t, doGET(t, r, "/api/listen/search"))
	if got.TotalCount != 0 {
		t.Fatalf("response = %+v", got)
	}
	// Empty result lists encode as [] rather than null.
	if got.Results.Songs == nil || got.Results.Artists == nil || got.Results.Albums == nil {
		t.Errorf("results = %+v", got.Results)
	}
}
