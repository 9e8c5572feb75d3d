package config

import "sync"

// Store is the state the resolver reads and records between runs: the
// caller's installed version and the last resolved asset download URLs.
type Store interface {
	InstalledVersion() string
	IntegrationsDownloadURL() string
	PatchesDownloadURL() string
	SetIntegrationsDownloadURL(url string) error
	SetPatchesDownloadURL(url string) error
}

// State is the persisted form of a [Store].
type State struct {
	InstalledVersion        string `toml:"installed_version"`
	IntegrationsDownloadURL string `toml:"integrations_download_url"`
	PatchesDownloadURL      string `toml:"patches_download_url"`
}

// MemoryStore is an in-process [Store].
type MemoryStore struct {
	mu    sync.RWMutex
	state State
}

// NewMemoryStore creates a MemoryStore reporting installedVersion.
func NewMemoryStore(installedVersion string) *MemoryStore {
	return &MemoryStore{state: State{InstalledVersion: installedVersion}}
}

func (m *MemoryStore) InstalledVersion() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.InstalledVersion
}

func (m *MemoryStore) IntegrationsDownloadURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IntegrationsDownloadURL
}

func (m *MemoryStore) PatchesDownloadURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.PatchesDownloadURL
}

func (m *MemoryStore) SetIntegrationsDownloadURL(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IntegrationsDownloadURL = url
	return nil
}

func (m *MemoryStore) SetPatchesDownloadURL(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.PatchesDownloadURL = url
	return nil
}

// Snapshot returns a copy of the current state.
func (m *MemoryStore) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

var _ Store = (*MemoryStore)(nil)
