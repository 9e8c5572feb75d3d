package release

import (
	"context"
	"strings"

	"github.com/matzehuels/relfetch/pkg/errors"
)

// Lister returns the first page of a repository's releases, newest first.
type Lister interface {
	Releases(ctx context.Context, repo string) ([]Release, error)
}

// TagFor returns the tag the feed uses for an installed version string.
func TagFor(version string) string {
	return "v" + version
}

// Boundary returns the index of the release tagged TagFor(currentVersion).
// ok is false when no release on the page carries that tag.
func Boundary(releases []Release, currentVersion string) (int, bool) {
	tag := TagFor(currentVersion)
	for i, r := range releases {
		if r.Tag == tag {
			return i, true
		}
	}
	return 0, false
}

// Aggregate returns a copy of the newest release whose body is extended with
// a "# <tag>" section for every release strictly between it and the installed
// version, newest first. The input slice is not modified.
//
// Given [v3, v2, v1] and currentVersion "1", the body is
// v3.Body + "\n# v2\n" + v2.Body.
func Aggregate(releases []Release, currentVersion string) (*Release, error) {
	if len(releases) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no releases")
	}
	boundary, ok := Boundary(releases, currentVersion)
	if !ok {
		return nil, errors.New(errors.ErrCodeVersionNotFound,
			"version %s not found in the %d most recent releases", TagFor(currentVersion), len(releases))
	}

	base := releases[0]
	base.Assets = append([]Asset(nil), base.Assets...)

	var b strings.Builder
	b.WriteString(base.Body)
	for _, r := range releases[1:max(boundary, 1)] {
		b.WriteString("\n# ")
		b.WriteString(r.Tag)
		b.WriteString("\n")
		b.WriteString(r.Body)
	}
	base.Body = b.String()
	return &base, nil
}

// Changelog fetches the release page of repo and aggregates it against
// currentVersion.
func Changelog(ctx context.Context, l Lister, repo, currentVersion string) (*Release, error) {
	releases, err := l.Releases(ctx, repo)
	if err != nil {
		return nil, err
	}
	return Aggregate(releases, currentVersion)
}
