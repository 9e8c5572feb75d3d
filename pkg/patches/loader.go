// Package patches resolves patch catalog and integrations assets from a
// release feed and decodes the catalog into [Patch] records.
package patches

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relfetch/pkg/config"
	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/release"
)

// Asset suffixes selected from a release.
const (
	CatalogSuffix      = ".json"
	IntegrationsSuffix = ".apk"
)

// Releases looks up releases in a feed.
type Releases interface {
	LatestRelease(ctx context.Context, repo string) (*release.Release, error)
	ReleaseByTag(ctx context.Context, repo, tag string) (*release.Release, error)
}

// Files materializes downloads locally.
type Files interface {
	Fetch(ctx context.Context, url string) (string, error)
	ReadFile(ctx context.Context, url string) ([]byte, error)
	Remove(url string) error
}

// Loader downloads patch assets and records where it found them.
type Loader struct {
	releases Releases
	files    Files
	store    config.Store
	logger   *log.Logger
}

// NewLoader creates a Loader. store receives resolved download URLs so the
// next run can skip the release lookup; a nil logger uses log.Default().
func NewLoader(releases Releases, files Files, store config.Store, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{releases: releases, files: files, store: store, logger: logger}
}

// Load returns the patch catalog of repo at version.
//
// A non-empty directURL is downloaded as-is without consulting the feed.
// Otherwise the release tagged version (used verbatim; "" means the latest
// release) is resolved and its first .json asset is selected. The asset's
// URL is recorded in the store once the catalog parses. An unparseable
// catalog is evicted from the file cache. On any failure the result is empty.
func (l *Loader) Load(ctx context.Context, repo, version, directURL string) ([]Patch, error) {
	url, resolved, err := l.resolve(ctx, repo, version, directURL, CatalogSuffix)
	if err != nil {
		return nil, err
	}
	data, err := l.files.ReadFile(ctx, url)
	if err != nil {
		return nil, err
	}
	list, err := Parse(data)
	if err != nil {
		l.logger.Warn("patch catalog unreadable", "url", url, "err", err)
		if rmErr := l.files.Remove(url); rmErr != nil {
			l.logger.Warn("could not evict patch catalog", "url", url, "err", rmErr)
		}
		return nil, err
	}
	if resolved {
		l.record(url, l.store.SetPatchesDownloadURL)
	}
	l.logger.Debug("patch catalog loaded", "url", url, "patches", len(list))
	return list, nil
}

// Integrations resolves the integrations binary the same way as [Loader.Load]
// and returns the path of the local copy.
func (l *Loader) Integrations(ctx context.Context, repo, version, directURL string) (string, error) {
	url, resolved, err := l.resolve(ctx, repo, version, directURL, IntegrationsSuffix)
	if err != nil {
		return "", err
	}
	path, err := l.files.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	if resolved {
		l.record(url, l.store.SetIntegrationsDownloadURL)
	}
	return path, nil
}

// record stores url with set. A store failure is logged, never returned.
func (l *Loader) record(url string, set func(string) error) {
	if err := set(url); err != nil {
		l.logger.Warn("could not record download url", "url", url, "err", err)
	}
}

// resolve returns the download URL for the asset with suffix. resolved
// reports whether the URL came from the feed rather than directURL.
func (l *Loader) resolve(ctx context.Context, repo, version, directURL, suffix string) (url string, resolved bool, err error) {
	if directURL != "" {
		l.logger.Debug("using recorded download url", "url", directURL)
		return directURL, false, nil
	}

	var rel *release.Release
	if version == "" {
		rel, err = l.releases.LatestRelease(ctx, repo)
	} else {
		rel, err = l.releases.ReleaseByTag(ctx, repo, version)
	}
	if err != nil {
		return "", false, err
	}
	if rel == nil {
		return "", false, errors.New(errors.ErrCodeNotFound, "no release %q for %s", version, repo)
	}

	asset, ok := release.SelectAsset(rel, suffix)
	if !ok {
		return "", false, errors.New(errors.ErrCodeNotFound, "release %s of %s has no %s asset", rel.Tag, repo, suffix)
	}
	return asset.DownloadURL, true, nil
}
