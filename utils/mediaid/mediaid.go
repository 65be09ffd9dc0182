// Package mediaid extracts media identifiers from library file and
// directory names. All functions are pure string matching against fixed
// grammars; a false second return value means the name does not follow
// the expected layout and the caller should skip it.
package mediaid

import (
	"regexp"
	"strconv"
	"strings"
)

const unknownAlbumSuffix = "Unknown Album"

var (
	movieRe   = regexp.MustCompile(`(\d+)(\.mp4|\.mkv)$`)
	showRe    = regexp.MustCompile(`(\d+)$`)
	episodeRe = regexp.MustCompile(`(?i)S(\d{1,2})E(\d{1,2})`)
	albumRe   = regexp.MustCompile(`(\w+)$`)
	trackRe   = regexp.MustCompile(`(?:(\d+)-)?(\d+)`)
)

// MovieID parses the movie identifier from a filename: a trailing run of
// digits immediately before a recognized video extension.
func MovieID(name string) (int64, bool) {
	m := movieRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ShowID parses the show identifier from a show directory name: a
// trailing run of digits.
func ShowID(dir string) (int64, bool) {
	m := showRe.FindStringSubmatch(dir)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Episode parses season and episode numbers from an episode filename
// following the SxxEyy convention, case-insensitively.
func Episode(name string) (season, episode int, ok bool) {
	m := episodeRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	season, _ = strconv.Atoi(m[1])
	episode, _ = strconv.Atoi(m[2])
	return season, episode, true
}

// IsUnknownAlbum reports whether an album directory names the sentinel
// "Unknown Album" collection, case-insensitively.
func IsUnknownAlbum(dir string) bool {
	return strings.HasSuffix(strings.ToUpper(dir), strings.ToUpper(unknownAlbumSuffix))
}

// UnknownAlbumName is the display name used for synthesized albums.
func UnknownAlbumName() string {
	return unknownAlbumSuffix
}

// AlbumID parses the album identifier from a directory name: the
// trailing alphanumeric token.
func AlbumID(dir string) (string, bool) {
	m := albumRe.FindStringSubmatch(dir)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Track parses the disc and track numbers from a track filename. The
// leading "<disc>-" prefix is optional and defaults to disc 1.
func Track(name string) (disc, track int, ok bool) {
	m := trackRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	disc = 1
	if m[1] != "" {
		disc, _ = strconv.Atoi(m[1])
	}
	track, _ = strconv.Atoi(m[2])
	return disc, track, true
}
