package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Library  LibrarySettings  `json:"library"`
	Metadata MetadataSettings `json:"metadata"`
	Data     DataSettings     `json:"data"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LibrarySettings names the watched media root directories.
type LibrarySettings struct {
	MoviesPath string `json:"moviesPath"`
	TVPath     string `json:"tvPath"`
	MusicPath  string `json:"musicPath"`
}

type MetadataSettings struct {
	// Movie/TV lookups (TMDB-shaped API).
	MovieBaseURL string `json:"movieBaseUrl"`
	MovieAPIKey  string `json:"movieApiKey"`
	// Music lookups (Spotify-shaped API).
	MusicBaseURL     string `json:"musicBaseUrl"`
	MusicTokenURL    string `json:"musicTokenUrl"`
	MusicClientID    string `json:"musicClientId"`
	MusicClientSecret string `json:"musicClientSecret"`
	Language         string `json:"language"`
}

// DataSettings locates the directory holding catalog snapshot files.
type DataSettings struct {
	Directory string `json:"directory"`
}

type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first start.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Library: LibrarySettings{
			MoviesPath: "media/movies",
			TVPath:     "media/tv",
			MusicPath:  "media/music",
		},
		Metadata: MetadataSettings{
			MovieBaseURL:  "https://api.themoviedb.org/3",
			MusicBaseURL:  "https://api.spotify.com/v1",
			MusicTokenURL: "https://accounts.spotify.com/api/token",
			Language:      "en-US",
		},
		Data: DataSettings{
			Directory: "data",
		},
		Log: LogConfig{
			File:       "",
			MaxSize:    50,
			MaxAge:     14,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures the parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}

	// Backfill defaults when the config predates a setting.
	defaults := DefaultSettings()
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = defaults.Server.Host
	}
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if strings.TrimSpace(s.Metadata.MovieBaseURL) == "" {
		s.Metadata.MovieBaseURL = defaults.Metadata.MovieBaseURL
	}
	if strings.TrimSpace(s.Metadata.MusicBaseURL) == "" {
		s.Metadata.MusicBaseURL = defaults.Metadata.MusicBaseURL
	}
	if strings.TrimSpace(s.Metadata.MusicTokenURL) == "" {
		s.Metadata.MusicTokenURL = defaults.Metadata.MusicTokenURL
	}
	if strings.TrimSpace(s.Metadata.Language) == "" {
		s.Metadata.Language = defaults.Metadata.Language
	}
	if strings.TrimSpace(s.Data.Directory) == "" {
		s.Data.Directory = defaults.Data.Directory
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = defaults.Log.MaxSize
	}
	if s.Log.MaxAge == 0 {
		s.Log.MaxAge = defaults.Log.MaxAge
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = defaults.Log.MaxBackups
	}

	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
