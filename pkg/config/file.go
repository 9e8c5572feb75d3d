package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/relfetch/pkg/errors"
)

// FileStore is a [Store] backed by a TOML state file.
// Every setter rewrites the file atomically.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	state State
}

// NewFileStore opens the state file at path, creating its directory if
// needed. An empty path uses [StatePath]. A missing file starts empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := StatePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create state dir")
	}

	s := &FileStore{path: path}
	if _, err := toml.DecodeFile(path, &s.state); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeMalformed, err, "parse state file %s", path)
	}
	return s, nil
}

// Path returns the state file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) InstalledVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.InstalledVersion
}

func (s *FileStore) IntegrationsDownloadURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IntegrationsDownloadURL
}

func (s *FileStore) PatchesDownloadURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.PatchesDownloadURL
}

// SetInstalledVersion records the version the caller has installed.
func (s *FileStore) SetInstalledVersion(version string) error {
	return s.update(func(st *State) { st.InstalledVersion = version })
}

func (s *FileStore) SetIntegrationsDownloadURL(url string) error {
	return s.update(func(st *State) { st.IntegrationsDownloadURL = url })
}

func (s *FileStore) SetPatchesDownloadURL(url string) error {
	return s.update(func(st *State) { st.PatchesDownloadURL = url })
}

// Reset clears the recorded download URLs, keeping the installed version.
func (s *FileStore) Reset() error {
	return s.update(func(st *State) {
		st.IntegrationsDownloadURL = ""
		st.PatchesDownloadURL = ""
	})
}

func (s *FileStore) update(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)
	if err := writeState(s.path, next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func writeState(path string, st State) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(st); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode state")
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"-"+uuid.NewString())
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write state file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "replace state file")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
