package catalog

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"homecast/models"
	"homecast/services/indexer"
	"homecast/utils/mediaid"
)

// generateTV reconciles every show directory under the tv root. A failed
// show lookup skips that show; a failed episode lookup skips that file
// only. Seasons left without episodes are dropped from the entry.
func (s *Service) generateTV(ctx context.Context, runID string, snapshot indexer.Collection) []models.TVShow {
	log.Printf("[catalog] run %s: generating tv", runID)

	shows := make([]models.TVShow, 0)
	for _, dir := range dirsUnder(snapshot, s.library.TVPath, false) {
		tvID, ok := mediaid.ShowID(dir)
		if !ok {
			continue
		}

		log.Printf("[catalog] run %s: GET %s", runID, dir)
		show, err := s.provider.TVShow(ctx, tvID)
		if err != nil {
			log.Printf("[catalog] run %s: fetch show failed, skipping %s: %v", runID, dir, err)
			continue
		}

		// Every season starts with an empty episode list; only episodes
		// backed by a local file are added back.
		for i := range show.Seasons {
			show.Seasons[i].Episodes = []models.Episode{}
		}

		for _, file := range snapshot[dir] {
			season, episode, ok := mediaid.Episode(file)
			if !ok {
				continue
			}

			path := filepath.Join(dir, file)
			log.Printf("[catalog] run %s: GET %s", runID, path)

			ep, err := s.provider.TVEpisode(ctx, tvID, season, episode)
			if err != nil {
				log.Printf("[catalog] run %s: fetch episode failed, skipping %s: %v", runID, path, err)
				continue
			}

			asset, err := assetFor(path, fmt.Sprintf("/tv/%d/%d/%d", tvID, ep.SeasonNumber, ep.EpisodeNumber))
			if err != nil {
				log.Printf("[catalog] run %s: %v, skipping %s", runID, err, path)
				continue
			}
			ep.MediaAsset = asset

			placed := false
			for i := range show.Seasons {
				if show.Seasons[i].SeasonNumber == season {
					show.Seasons[i].Episodes = append(show.Seasons[i].Episodes, ep)
					placed = true
					break
				}
			}
			if !placed {
				log.Printf("[catalog] run %s: no season %d on show %d, skipping %s", runID, season, tvID, path)
				continue
			}

			if ep.MTime.After(show.MTime) {
				show.MTime = ep.MTime
			}
		}

		// Remove seasons with no local episodes.
		kept := show.Seasons[:0]
		for _, se := range show.Seasons {
			if len(se.Episodes) > 0 {
				kept = append(kept, se)
			}
		}
		show.Seasons = kept

		shows = append(shows, show)
	}

	return shows
}
