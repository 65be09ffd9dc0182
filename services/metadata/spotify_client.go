package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"homecast/models"
)

// spotifyClient looks up album and artist metadata from a Spotify-shaped
// API using the client-credentials flow. The bearer token is cached until
// shortly before expiry.
type spotifyClient struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	httpc        *http.Client

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func newSpotifyClient(baseURL, tokenURL, clientID, clientSecret string, httpc *http.Client) *spotifyClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &spotifyClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenURL:     tokenURL,
		clientID:     strings.TrimSpace(clientID),
		clientSecret: strings.TrimSpace(clientSecret),
		httpc:        httpc,
	}
}

func (c *spotifyClient) isConfigured() bool {
	return c != nil && c.clientID != "" && c.clientSecret != ""
}

func (c *spotifyClient) token(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("token request failed: %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.accessToken = payload.AccessToken
	// Renew half a minute early to avoid racing the expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - 30*time.Second)

	return c.accessToken, nil
}

func (c *spotifyClient) doGET(ctx context.Context, endpoint string, v any) error {
	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

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

// album fetches an album with its full track list. Fields the catalog does
// not carry, such as available-market lists, are dropped by the typed
// decode.
func (c *spotifyClient) album(ctx context.Context, id string) (models.Album, error) {
	if !c.isConfigured() {
		return models.Album{}, ErrNotConfigured
	}

	endpoint, err := url.JoinPath(c.baseURL, "albums", id)
	if err != nil {
		return models.Album{}, err
	}

	var album models.Album
	if err := c.doGET(ctx, endpoint, &album); err != nil {
		return models.Album{}, fmt.Errorf("fetch album %s: %w", id, err)
	}
	return album, nil
}

func (c *spotifyClient) artist(ctx context.Context, id string) (models.Artist, error) {
	if !c.isConfigured() {
		return models.Artist{}, ErrNotConfigured
	}

	endpoint, err := url.JoinPath(c.baseURL, "artists", id)
	if err != nil {
		return models.Artist{}, err
	}

	var artist models.Artist
	if err := c.doGET(ctx, endpoint, &artist); err != nil {
		return models.Artist{}, fmt.Errorf("fetch artist %s: %w", id, err)
	}
	return artist, nil
}
