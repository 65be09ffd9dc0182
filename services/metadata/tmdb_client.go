package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"homecast/models"
)

// tmdbClient looks up movie and TV metadata from a TMDB-shaped API.
// Every lookup is a single attempt; failures are absorbed per item by the
// catalog builder.
type tmdbClient struct {
	baseURL  string
	apiKey   string
	language string
	httpc    *http.Client
}

func newTMDBClient(baseURL, apiKey, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   strings.TrimSpace(apiKey),
		language: language,
		httpc:    httpc,
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

func (c *tmdbClient) doGET(ctx context.Context, endpoint string, query url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	q := req.URL.Query()
	for key, vals := range query {
		for _, val := range vals {
			q.Add(key, val)
		}
	}
	q.Set("api_key", c.apiKey)
	if lang := strings.TrimSpace(c.language); lang != "" {
		q.Set("language", lang)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("metadata request failed: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *tmdbClient) movie(ctx context.Context, id int64) (models.Movie, error) {
	if !c.isConfigured() {
		return models.Movie{}, ErrNotConfigured
	}

	endpoint, err := url.JoinPath(c.baseURL, "movie", strconv.FormatInt(id, 10))
	if err != nil {
		return models.Movie{}, err
	}

	var movie models.Movie
	q := url.Values{"append_to_response": {"credits"}}
	if err := c.doGET(ctx, endpoint, q, &movie); err != nil {
		return models.Movie{}, fmt.Errorf("fetch movie %d: %w", id, err)
	}
	return movie, nil
}

func (c *tmdbClient) tvShow(ctx context.Context, id int64) (models.TVShow, error) {
	if !c.isConfigured() {
		return models.TVShow{}, ErrNotConfigured
	}

	endpoint, err := url.JoinPath(c.baseURL, "tv", strconv.FormatInt(id, 10))
	if err != nil {
		return models.TVShow{}, err
	}

	var show models.TVShow
	q := url.Values{"append_to_response": {"credits"}}
	if err := c.doGET(ctx, endpoint, q, &show); err != nil {
		return models.TVShow{}, fmt.Errorf("fetch tv show %d: %w", id, err)
	}
	return show, nil
}

func (c *tmdbClient) tvEpisode(ctx context.Context, tvID int64, season, episode int) (models.Episode, error) {
	if !c.isConfigured() {
		return models.Episode{}, ErrNotConfigured
	}

	endpoint, err := url.JoinPath(c.baseURL,
		"tv", strconv.FormatInt(tvID, 10),
		"season", strconv.Itoa(season),
		"episode", strconv.Itoa(episode))
	if err != nil {
		return models.Episode{}, err
	}

	var ep models.Episode
	if err := c.doGET(ctx, endpoint, nil, &ep); err != nil {
		return models.Episode{}, fmt.Errorf("fetch episode %d S%02dE%02d: %w", tvID, season, episode, err)
	}
	return ep, nil
}
