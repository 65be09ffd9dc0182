package catalog

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"homecast/models"
	"homecast/services/indexer"
	"homecast/utils/mediaid"
)

// assetFor stats a local file and builds its MediaAsset fields.
func assetFor(path, urlPath string) (models.MediaAsset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.MediaAsset{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return models.MediaAsset{
		FSPath:  path,
		URLPath: urlPath,
		CTime:   changeTime(info),
		MTime:   info.ModTime(),
	}, nil
}

// generateMovies reconciles every file under the movies root against the
// metadata service. Files whose names do not carry a movie id are
// skipped silently; fetch failures skip that file only.
func (s *Service) generateMovies(ctx context.Context, runID string, snapshot indexer.Collection) []models.Movie {
	log.Printf("[catalog] run %s: generating movies", runID)

	movies := make([]models.Movie, 0)
	for _, dir := range dirsUnder(snapshot, s.library.MoviesPath, true) {
		for _, file := range snapshot[dir] {
			path := filepath.Join(dir, file)

			id, ok := mediaid.MovieID(file)
			if !ok {
				continue
			}

			log.Printf("[catalog] run %s: GET %s", runID, path)
			movie, err := s.provider.Movie(ctx, id)
			if err != nil {
				log.Printf("[catalog] run %s: fetch movie failed, skipping %s: %v", runID, path, err)
				continue
			}

			asset, err := assetFor(path, fmt.Sprintf("/movies/%d", movie.ID))
			if err != nil {
				log.Printf("[catalog] run %s: %v, skipping %s", runID, err, path)
				continue
			}
			movie.MediaAsset = asset

			movies = append(movies, movie)
		}
	}

	return movies
}
