package mediaid

import "testing"

func TestMovieID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID int64
		wantOK bool
	}{
		{"mp4", "Inception 27205.mp4", 27205, true},
		{"mkv", "Heat 949.mkv", 949, true},
		{"digits only", "603.mp4", 603, true},
		{"no extension", "Inception 27205", 0, false},
		{"wrong extension", "Inception 27205.avi", 0, false},
		{"no id before extension", "Inception.mp4", 0, false},
		{"id not adjacent to extension", "27205 Inception.mp4", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := MovieID(tt.input)
			if ok != tt.wantOK || id != tt.wantID {
				t.Fatalf("MovieID(%q) = (%d, %v), want (%d, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestShowID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID int64
		wantOK bool
	}{
		{"trailing digits", "media/tv/Game of Thrones 1399", 1399, true},
		{"digits only", "1399", 1399, true},
		{"no digits", "media/tv/Game of Thrones", 0, false},
		{"digits not trailing", "media/tv/1399 Game of Thrones", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ShowID(tt.input)
			if ok != tt.wantOK || id != tt.wantID {
				t.Fatalf("ShowID(%q) = (%d, %v), want (%d, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestEpisode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantSeason  int
		wantEpisode int
		wantOK      bool
	}{
		{"upper case", "Game of Thrones S01E05.mkv", 1, 5, true},
		{"lower case", "game of thrones s01e05.mkv", 1, 5, true},
		{"mixed case", "S03e11 something.mp4", 3, 11, true},
		{"single digit", "S1E2.mkv", 1, 2, true},
		{"two digit", "S12E24.mkv", 12, 24, true},
		{"no marker", "Game of Thrones 105.mkv", 0, 0, false},
		{"season only", "S01.mkv", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			season, episode, ok := Episode(tt.input)
			if ok != tt.wantOK || season != tt.wantSeason || episode != tt.wantEpisode {
				t.Fatalf("Episode(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.input, season, episode, ok, tt.wantSeason, tt.wantEpisode, tt.wantOK)
			}
		})
	}
}

func TestIsUnknownAlbum(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"media/music/Unknown Album", true},
		{"media/music/unknown album", true},
		{"media/music/UNKNOWN ALBUM", true},
		{"media/music/Bowie Unknown Album", true},
		{"media/music/4aawyAB9vmqN3uQ7FjRGTy", false},
		{"media/music/Unknown Album Extras", false},
	}

	for _, tt := range tests {
		if got := IsUnknownAlbum(tt.input); got != tt.want {
			t.Errorf("IsUnknownAlbum(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAlbumID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{"spotify id", "media/music/Global Warming 4aawyAB9vmqN3uQ7FjRGTy", "4aawyAB9vmqN3uQ7FjRGTy", true},
		{"bare id", "4aawyAB9vmqN3uQ7FjRGTy", "4aawyAB9vmqN3uQ7FjRGTy", true},
		{"trailing punctuation", "media/music/Album!!!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := AlbumID(tt.input)
			if ok != tt.wantOK || id != tt.wantID {
				t.Fatalf("AlbumID(%q) = (%q, %v), want (%q, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestTrack(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDisc  int
		wantTrack int
		wantOK    bool
	}{
		{"disc and track", "2-04 Some Song.mp3", 2, 4, true},
		{"track only defaults disc one", "04 Some Song.mp3", 1, 4, true},
		{"embedded number", "Track 03.mp3", 1, 3, true},
		{"no number", "Some Song.mp3", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disc, track, ok := Track(tt.input)
			if ok != tt.wantOK || disc != tt.wantDisc || track != tt.wantTrack {
				t.Fatalf("Track(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.input, disc, track, ok, tt.wantDisc, tt.wantTrack, tt.wantOK)
			}
		})
	}
}
