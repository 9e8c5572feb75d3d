// Package filecache materializes downloaded assets on disk, keyed by their
// source URL.
//
// A URL is downloaded at most once: later requests for the same URL return
// the existing file without touching the network, regardless of HTTP cache
// headers. Files persist across process restarts and are only removed by
// [Store.Clear].
//
// Downloads are written to a temporary file and renamed into place, so a
// reader never observes a partial file. Two concurrent first requests for
// the same URL may both download; the last rename wins with identical
// content.
package filecache

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/relfetch/pkg/cache"
	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/observability"
)

const (
	appName      = "relfetch"
	keyTypeFile  = "file"
	partialExt   = ".part"
	maxNameBytes = 80
)

// Store is an on-disk download cache rooted at a directory.
type Store struct {
	dir    string
	http   *http.Client
	logger *log.Logger
}

// New creates a Store in dir, creating the directory if needed. An empty
// dir uses [DefaultDir]. A nil httpClient uses http.DefaultClient and a nil
// logger uses log.Default().
//
// httpClient should not carry the in-memory response cache; asset bodies
// are stored here instead.
func New(dir string, httpClient *http.Client, logger *log.Logger) (*Store, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create cache dir %s", dir)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{dir: dir, http: httpClient, logger: logger}, nil
}

// DefaultDir returns the download cache directory using the XDG standard
// (~/.cache/relfetch/downloads).
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName, "downloads"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "locate home directory")
	}
	return filepath.Join(home, ".cache", appName, "downloads"), nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string { return s.dir }

// Path returns the local path rawURL is (or would be) stored at.
func (s *Store) Path(rawURL string) string {
	hash := cache.Hash([]byte(rawURL))
	name := hash[2:]
	if base := baseName(rawURL); base != "" {
		name += "-" + base
	}
	return filepath.Join(s.dir, hash[:2], name)
}

// Cached reports whether rawURL has already been materialized.
func (s *Store) Cached(rawURL string) bool {
	info, err := os.Stat(s.Path(rawURL))
	return err == nil && info.Mode().IsRegular()
}

// Fetch returns the local path of rawURL's content, downloading it first if
// it is not yet cached.
func (s *Store) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return "", err
	}

	dst := s.Path(rawURL)
	if s.Cached(rawURL) {
		observability.Cache().OnCacheHit(ctx, keyTypeFile)
		s.logger.Debug("asset cached", "url", rawURL, "path", dst)
		return dst, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeFile)

	size, err := s.download(ctx, rawURL, dst)
	if err != nil {
		if errors.IsAbsent(err) {
			s.logger.Debug("asset not found", "url", rawURL, "err", err)
		} else {
			s.logger.Warn("asset download failed", "url", rawURL, "err", err)
		}
		return "", err
	}
	observability.Cache().OnCacheSet(ctx, keyTypeFile, int(size))
	s.logger.Debug("asset downloaded", "url", rawURL, "path", dst, "bytes", size)
	return dst, nil
}

// ReadFile fetches rawURL through the cache and returns its content.
func (s *Store) ReadFile(ctx context.Context, rawURL string) ([]byte, error) {
	p, err := s.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read cached asset %s", p)
	}
	return data, nil
}

// Open fetches rawURL through the cache and opens the local file.
func (s *Store) Open(ctx context.Context, rawURL string) (*os.File, error) {
	p, err := s.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open cached asset %s", p)
	}
	return f, nil
}

func (s *Store) download(ctx context.Context, rawURL, dst string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", rawURL)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", rawURL)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, errors.New(errors.ErrCodeNotFound, "GET %s: status %d", rawURL, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return 0, errors.New(errors.ErrCodeNetwork, "GET %s: status %d", rawURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "create %s", filepath.Dir(dst))
	}
	tmp := filepath.Join(filepath.Dir(dst), "."+uuid.NewString()+partialExt)
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "create %s", tmp)
	}

	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmp)
		if copyErr != nil {
			return 0, errors.Wrap(errors.ErrCodeNetwork, copyErr, "read body of %s", rawURL)
		}
		return 0, errors.Wrap(errors.ErrCodeInternal, closeErr, "write %s", tmp)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "move download into %s", dst)
	}
	return n, nil
}

// Remove deletes the cached copy of rawURL so the next Fetch downloads it
// again. Removing an uncached URL is not an error.
func (s *Store) Remove(rawURL string) error {
	p := s.Path(rawURL)
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove %s", p)
	}
	s.logger.Debug("asset evicted", "url", rawURL, "path", p)
	return nil
}

// Clear removes every cached file and empty subdirectory, leaving the root
// directory in place. It returns the number of files removed.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "read cache dir %s", s.dir)
	}

	count := 0
	for _, e := range entries {
		p := filepath.Join(s.dir, e.Name())
		if e.IsDir() {
			n, err := countFiles(p)
			if err != nil {
				return count, err
			}
			if err := os.RemoveAll(p); err != nil {
				return count, errors.Wrap(errors.ErrCodeInternal, err, "remove %s", p)
			}
			count += n
			continue
		}
		if err := os.Remove(p); err != nil {
			return count, errors.Wrap(errors.ErrCodeInternal, err, "remove %s", p)
		}
		count++
	}
	s.logger.Debug("download cache cleared", "dir", s.dir, "files", count)
	return count, nil
}

func countFiles(dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "walk %s", dir)
	}
	return n, nil
}

// baseName returns a filesystem-safe version of the URL's last path element.
func baseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
	if len(safe) > maxNameBytes {
		safe = safe[len(safe)-maxNameBytes:]
	}
	return strings.TrimLeft(safe, ".")
}
