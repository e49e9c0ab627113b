package profile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// FileStore keeps one profile per JSON file under a directory. It is
// the default backend when no database DSN is configured.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Load(id string) (Profile, error) {
	b, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		// A corrupted file is treated like a fresh start rather
		// than wedging the server.
		log.Warn().Str("id", id).Err(err).Msg("discarding corrupted profile file")
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *FileStore) Save(p Profile) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(p.ID), b, 0644)
}
