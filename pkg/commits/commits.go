// Package commits lists the recent commits that touched a package's patch
// sources.
//
// Each supported package identifier maps to a source directory in the
// patches repository. [PathFor] is total: an identifier without a mapping
// yields a MISSING_MAPPING error and no request is made.
package commits

import (
	"context"
	"maps"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/release"
)

// SourceRoot is the directory holding per-app patch sources.
const SourceRoot = "src/main/kotlin/app/revanced/patches"

// DefaultPaths maps package identifiers to their patch source directory
// below [SourceRoot].
var DefaultPaths = map[string]string{
	"com.google.android.youtube":            "youtube",
	"com.google.android.apps.youtube.music": "music",
	"com.twitter.android":                   "twitter",
	"com.reddit.frontpage":                  "reddit",
	"com.zhiliaoapp.musically":              "tiktok",
	"com.ss.android.ugc.trill":              "tiktok",
	"de.dwd.warnapp":                        "warnwetter",
	"com.garzotto.pflotsh.ecmwf_a":          "ecmwf",
	"com.spotify.music":                     "spotify",
}

// Source lists commits of repo that touched path since a point in time.
type Source interface {
	Commits(ctx context.Context, repo, path string, since time.Time) ([]release.CommitEntry, error)
}

// Fetcher resolves package identifiers to source paths and lists their commits.
type Fetcher struct {
	source Source
	paths  map[string]string
	logger *log.Logger
}

// NewFetcher creates a Fetcher over source. extra entries are added to
// [DefaultPaths] and win on conflict. A nil logger uses log.Default().
func NewFetcher(source Source, extra map[string]string, logger *log.Logger) *Fetcher {
	paths := maps.Clone(DefaultPaths)
	maps.Copy(paths, extra)
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{source: source, paths: paths, logger: logger}
}

// PathFor returns the repository path holding the patch sources for
// packageID.
func (f *Fetcher) PathFor(packageID string) (string, error) {
	return PathFor(f.paths, packageID)
}

// PathFor looks packageID up in paths and joins the result onto [SourceRoot].
func PathFor(paths map[string]string, packageID string) (string, error) {
	dir, ok := paths[packageID]
	if !ok || dir == "" {
		return "", errors.New(errors.ErrCodeMissingMapping, "no patch source path for package %q", packageID)
	}
	return SourceRoot + "/" + dir, nil
}

// Since returns the commits of repo touching packageID's sources at or
// after since, in the feed's order. An unmapped packageID returns
// MISSING_MAPPING without contacting the feed.
func (f *Fetcher) Since(ctx context.Context, packageID, repo string, since time.Time) ([]release.CommitEntry, error) {
	path, err := f.PathFor(packageID)
	if err != nil {
		f.logger.Debug("skipping commit lookup", "package", packageID, "err", err)
		return nil, err
	}
	return f.source.Commits(ctx, repo, path, since)
}

// Lines formats entries as "<summary> - <author>" strings.
func Lines(entries []release.CommitEntry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}
