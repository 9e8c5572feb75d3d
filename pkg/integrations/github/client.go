package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/integrations"
	"github.com/matzehuels/relfetch/pkg/release"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Stable names the unscoped release track served by /releases/latest.
const Stable = "stable"

// Client resolves releases and commits for repositories on one GitHub API
// host. Construct one Client per base URL; it holds no per-repository state,
// so a single Client can serve concurrent lookups for different repositories.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for the API at baseURL ("" means
// [DefaultBaseURL]). httpClient carries the response cache; see
// [integrations.NewCachedHTTPClient].
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	return &Client{
		Client:  integrations.NewClient(httpClient, headers, logger),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Releases returns the first page of releases for repo, newest first.
func (c *Client) Releases(ctx context.Context, repo string) ([]release.Release, error) {
	if err := ValidateRepo(repo); err != nil {
		return nil, err
	}
	var data []releaseResponse
	if err := c.Get(ctx, c.repoURL(repo, "releases"), &data); err != nil {
		return nil, c.fail("list releases", repo, err)
	}

	releases := make([]release.Release, 0, len(data))
	for _, r := range data {
		releases = append(releases, r.toRelease())
	}
	return releases, nil
}

// LatestRelease returns the newest release of repo: the first entry of the
// release list.
func (c *Client) LatestRelease(ctx context.Context, repo string) (*release.Release, error) {
	releases, err := c.Releases(ctx, repo)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, c.fail("latest release", repo, errors.New(errors.ErrCodeNotFound, "%s has no releases", repo))
	}
	return &releases[0], nil
}

// ReleaseByTag returns the release of repo tagged exactly tag. The tag is
// sent verbatim, including any "v" prefix.
func (c *Client) ReleaseByTag(ctx context.Context, repo, tag string) (*release.Release, error) {
	if err := ValidateRepo(repo); err != nil {
		return nil, err
	}
	if err := errors.ValidateTag(tag); err != nil {
		return nil, err
	}
	return c.fetchRelease(ctx, repo, c.repoURL(repo, "releases", "tags", integrations.PathEscape(tag)), "release "+tag)
}

// LatestNamedRelease returns the newest release on track.
//
// The stable track ("", "stable" or "latest") is served by the feed's
// /releases/latest endpoint, which excludes prereleases. Any other track
// selects the newest release whose tag carries the prerelease identifier
// "-<track>", such as v2.1.0-dev.3 for track "dev".
func (c *Client) LatestNamedRelease(ctx context.Context, repo, track string) (*release.Release, error) {
	switch strings.ToLower(track) {
	case "", Stable, "latest":
		if err := ValidateRepo(repo); err != nil {
			return nil, err
		}
		return c.fetchRelease(ctx, repo, c.repoURL(repo, "releases", "latest"), "latest stable release")
	}

	releases, err := c.Releases(ctx, repo)
	if err != nil {
		return nil, err
	}
	for i := range releases {
		if OnTrack(releases[i].Tag, track) {
			return &releases[i], nil
		}
	}
	return nil, c.fail("latest "+track+" release", repo,
		errors.New(errors.ErrCodeNotFound, "no %s release in the %d most recent releases of %s", track, len(releases), repo))
}

// OnTrack reports whether tag belongs to the named prerelease track.
func OnTrack(tag, track string) bool {
	_, pre, ok := strings.Cut(tag, "-")
	if !ok {
		return false
	}
	name, _, _ := strings.Cut(pre, ".")
	return strings.EqualFold(name, track)
}

// Commits returns the commits of repo touching path at or after since, in
// the feed's order (newest first). Only the first page is read.
func (c *Client) Commits(ctx context.Context, repo, path string, since time.Time) ([]release.CommitEntry, error) {
	if err := ValidateRepo(repo); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("path", path)
	q.Set("since", since.UTC().Format(time.RFC3339))

	var data []commitResponse
	if err := c.Get(ctx, c.repoURL(repo, "commits")+"?"+q.Encode(), &data); err != nil {
		return nil, c.fail("list commits", repo, err)
	}

	entries := make([]release.CommitEntry, 0, len(data))
	for _, cr := range data {
		entries = append(entries, release.NewCommitEntry(cr.Commit.Message, cr.Commit.Author.Name))
	}
	return entries, nil
}

func (c *Client) fetchRelease(ctx context.Context, repo, u, what string) (*release.Release, error) {
	var data releaseResponse
	if err := c.Get(ctx, u, &data); err != nil {
		return nil, c.fail(what, repo, err)
	}
	if data.TagName == "" {
		return nil, c.fail(what, repo, errors.New(errors.ErrCodeMalformed, "release without tag_name"))
	}
	rel := data.toRelease()
	return &rel, nil
}

func (c *Client) repoURL(repo string, parts ...string) string {
	return fmt.Sprintf("%s/repos/%s/%s", c.baseURL, repo, strings.Join(parts, "/"))
}

// fail logs err and returns it. Absence is routine and logged at debug level.
func (c *Client) fail(op, repo string, err error) error {
	if errors.IsAbsent(err) {
		c.Logger().Debug(op+" not found", "repo", repo, "err", err)
	} else {
		c.Logger().Warn(op+" failed", "repo", repo, "err", err)
	}
	return err
}
