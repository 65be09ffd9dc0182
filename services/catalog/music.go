package catalog

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strconv"

	"homecast/models"
	"homecast/services/indexer"
	"homecast/utils/mediaid"
)

const (
	unknownAlbumID    = "unknown"
	unknownArtistName = "Unknown Artist"
	unknownLabelName  = "Unknown Label"
	unknownImageURL   = "http://i.imgur.com/bVnx0IY.png"

	// Estimate added per preview-only track when summing album duration.
	previewDurationEstimate = 30
)

var audioExtRe = regexp.MustCompile(`(?i)\.mp3|\.flac`)

// generateMusic reconciles every album directory under the music root.
// Directories naming the "Unknown Album" sentinel are synthesized without
// a remote lookup; any fetch failure on the remote branch skips the whole
// album rather than producing a partial entry.
func (s *Service) generateMusic(ctx context.Context, runID string, snapshot indexer.Collection) []models.Album {
	log.Printf("[catalog] run %s: generating music", runID)

	albums := make([]models.Album, 0)
	for _, dir := range dirsUnder(snapshot, s.library.MusicPath, false) {
		log.Printf("[catalog] run %s: GET %s", runID, dir)

		if mediaid.IsUnknownAlbum(dir) {
			albums = append(albums, s.buildUnknownAlbum(runID, dir, snapshot[dir]))
			continue
		}

		album, ok := s.buildRemoteAlbum(ctx, runID, dir, snapshot[dir])
		if !ok {
			continue
		}
		albums = append(albums, album)
	}

	return albums
}

// buildUnknownAlbum synthesizes a placeholder album for a directory of
// unidentified tracks. Every file becomes a local track numbered in
// directory listing order; durations stay unknown.
func (s *Service) buildUnknownAlbum(runID, dir string, files []string) models.Album {
	album := models.Album{
		ID:        unknownAlbumID,
		Name:      mediaid.UnknownAlbumName(),
		AlbumType: "compilation",
		Label:     unknownLabelName,
		Artists: []models.ArtistRef{{
			Name:   unknownArtistName,
			Type:   "artist",
			Images: []models.Image{{URL: unknownImageURL}},
		}},
		Images: []models.Image{{URL: unknownImageURL}},
		Tracks: models.AlbumTracks{Items: []models.Track{}},
	}

	for index, file := range files {
		path := filepath.Join(dir, file)
		track := models.Track{
			ID:          strconv.Itoa(index),
			Name:        audioExtRe.ReplaceAllString(file, ""),
			DiscNumber:  1,
			TrackNumber: index + 1,
		}

		asset, err := assetFor(path, fmt.Sprintf("/music/%s/%d/%d", album.ID, track.DiscNumber, track.TrackNumber))
		if err != nil {
			log.Printf("[catalog] run %s: %v, skipping %s", runID, err, path)
			continue
		}
		track.MediaAsset = asset

		if track.MTime.After(album.MTime) {
			album.MTime = track.MTime
		}
		album.Tracks.Items = append(album.Tracks.Items, track)
	}

	album.Tracks.LocalTotal = len(album.Tracks.Items)
	return album
}

// buildRemoteAlbum fetches album and primary-artist metadata and matches
// local files onto the remote track list by (disc, track) pair.
func (s *Service) buildRemoteAlbum(ctx context.Context, runID, dir string, files []string) (models.Album, bool) {
	albumID, ok := mediaid.AlbumID(dir)
	if !ok {
		return models.Album{}, false
	}

	album, err := s.provider.Album(ctx, albumID)
	if err != nil {
		log.Printf("[catalog] run %s: fetch album failed, skipping %s: %v", runID, dir, err)
		return models.Album{}, false
	}

	// Album responses carry only a bare artist reference; a dedicated
	// artist lookup backfills images and popularity.
	if len(album.Artists) > 0 {
		artist, err := s.provider.Artist(ctx, album.Artists[0].ID)
		if err != nil {
			log.Printf("[catalog] run %s: fetch artist failed, skipping %s: %v", runID, dir, err)
			return models.Album{}, false
		}
		album.Artists[0].Images = artist.Images
		album.Artists[0].Popularity = artist.Popularity
	}

	for _, file := range files {
		disc, trackNo, ok := mediaid.Track(file)
		if !ok {
			continue
		}

		for i := range album.Tracks.Items {
			item := &album.Tracks.Items[i]
			if item.DiscNumber != disc || item.TrackNumber != trackNo {
				continue
			}

			path := filepath.Join(dir, file)
			asset, err := assetFor(path, fmt.Sprintf("/music/%s/%d/%d", album.ID, item.DiscNumber, item.TrackNumber))
			if err != nil {
				log.Printf("[catalog] run %s: %v, skipping %s", runID, err, path)
				continue
			}
			item.MediaAsset = asset

			if item.MTime.After(album.MTime) {
				album.MTime = item.MTime
			}
		}
	}

	album.Tracks.LocalTotal = 0
	album.Tracks.PreviewTotal = 0
	album.Tracks.TotalDurationMS = totalDuration(album.Tracks.Items)
	for _, item := range album.Tracks.Items {
		if item.HasLocalFile() {
			album.Tracks.LocalTotal++
		}
		if item.PreviewURL != "" {
			album.Tracks.PreviewTotal++
		}
	}

	return album, true
}

// totalDuration sums per track: the full duration when a local file
// matched, the preview estimate when only a preview clip exists, else
// nothing.
func totalDuration(items []models.Track) int64 {
	var total int64
	for _, item := range items {
		switch {
		case item.HasLocalFile():
			total += item.DurationMS
		case item.PreviewURL != "":
			total += previewDurationEstimate
		}
	}
	return total
}
