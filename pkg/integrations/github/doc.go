// Package github resolves releases and commit history from the GitHub REST API.
//
// # Overview
//
// [Client] issues the release lookups relfetch needs:
//
//   - [Client.LatestRelease]: first entry of /repos/{repo}/releases
//   - [Client.ReleaseByTag]: /repos/{repo}/releases/tags/{tag}
//   - [Client.LatestNamedRelease]: newest release of a track
//   - [Client.Releases]: first page of releases, newest first
//   - [Client.Commits]: /repos/{repo}/commits filtered by path and time
//
// Responses are normalized into [release.Release] and [release.CommitEntry].
//
// # Usage
//
//	httpClient := integrations.NewCachedHTTPClient(cache.NewMemoryCache(), nil, 5*time.Minute)
//	client := github.NewClient("", httpClient, logger)
//
//	rel, err := client.LatestRelease(ctx, "revanced/revanced-patches")
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // no release published
//	}
//
// # Errors
//
// Failures are logged through the client's logger and returned with a
// relfetch error code. Nothing is retried; only the first page of any list
// is read.
//
// [release.Release]: github.com/matzehuels/relfetch/pkg/release.Release
// [release.CommitEntry]: github.com/matzehuels/relfetch/pkg/release.CommitEntry
package github
