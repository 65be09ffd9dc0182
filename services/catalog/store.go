package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"homecast/models"
)

// Store persists catalog snapshots as one pretty-printed JSON document per
// media type, fully overwritten on each successful generation run. Writes
// go through a temp file and rename so a reader of the store never sees a
// partial document.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore creates a store rooted at dir on the given filesystem.
func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

type moviesDocument struct {
	Movies []models.Movie `json:"movies"`
}

type tvDocument struct {
	TV []models.TVShow `json:"tv"`
}

type musicDocument struct {
	Music []models.Album `json:"music"`
}

func (st *Store) path(mediaType models.MediaType) string {
	return filepath.Join(st.dir, string(mediaType)+".json")
}

// SaveMovies overwrites the movies snapshot.
func (st *Store) SaveMovies(movies []models.Movie) error {
	if movies == nil {
		movies = []models.Movie{}
	}
	return st.save(models.MediaTypeMovies, moviesDocument{Movies: movies})
}

// SaveTV overwrites the tv snapshot.
func (st *Store) SaveTV(shows []models.TVShow) error {
	if shows == nil {
		shows = []models.TVShow{}
	}
	return st.save(models.MediaTypeTV, tvDocument{TV: shows})
}

// SaveMusic overwrites the music snapshot.
func (st *Store) SaveMusic(albums []models.Album) error {
	if albums == nil {
		albums = []models.Album{}
	}
	return st.save(models.MediaTypeMusic, musicDocument{Music: albums})
}

// LoadMovies reads the persisted movies snapshot. A missing file yields an
// empty catalog.
func (st *Store) LoadMovies() ([]models.Movie, error) {
	var doc moviesDocument
	if err := st.load(models.MediaTypeMovies, &doc); err != nil {
		return nil, err
	}
	return doc.Movies, nil
}

// LoadTV reads the persisted tv snapshot.
func (st *Store) LoadTV() ([]models.TVShow, error) {
	var doc tvDocument
	if err := st.load(models.MediaTypeTV, &doc); err != nil {
		return nil, err
	}
	return doc.TV, nil
}

// LoadMusic reads the persisted music snapshot.
func (st *Store) LoadMusic() ([]models.Album, error) {
	var doc musicDocument
	if err := st.load(models.MediaTypeMusic, &doc); err != nil {
		return nil, err
	}
	return doc.Music, nil
}

func (st *Store) save(mediaType models.MediaType, doc any) error {
	if err := st.fs.MkdirAll(st.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	target := st.path(mediaType)
	tmp := target + ".tmp"

	f, err := st.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s temp file: %w", mediaType, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		_ = st.fs.Remove(tmp)
		return fmt.Errorf("encode %s catalog: %w", mediaType, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		_ = st.fs.Remove(tmp)
		return fmt.Errorf("sync %s catalog: %w", mediaType, err)
	}

	if err := f.Close(); err != nil {
		_ = st.fs.Remove(tmp)
		return fmt.Errorf("close %s temp file: %w", mediaType, err)
	}

	if err := st.fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace %s catalog: %w", mediaType, err)
	}

	return nil
}

func (st *Store) load(mediaType models.MediaType, doc any) error {
	data, err := afero.ReadFile(st.fs, st.path(mediaType))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s catalog: %w", mediaType, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("decode %s catalog: %w", mediaType, err)
	}
	return nil
}
