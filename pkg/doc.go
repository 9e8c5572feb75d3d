// Package pkg provides the core libraries for relfetch release resolution.
//
// # Overview
//
// Relfetch answers questions about a repository's release feed (what is the
// newest release, what changed since the installed version, which commits
// touched an app's patches) and materializes release assets locally. The pkg
// directory is organized into four areas:
//
//  1. [release] - Domain types and pure operations (asset selection,
//     changelog aggregation, version comparison)
//  2. [integrations] - Feed clients; [integrations/github] implements the
//     release and commit queries
//  3. Caching - [cache] backends, the [httputil] response cache transport,
//     and the on-disk [filecache] for downloads
//  4. Composition - [commits] and [patches] build on the feed client;
//     [config] supplies settings and recorded state
//
// # Architecture
//
// A typical lookup:
//
//	caller
//	   ↓
//	[integrations/github] Client (release by tag / latest / track)
//	   ↓                    ↑ every GET passes through [httputil] Transport
//	[release] SelectAsset    (memory or Redis [cache], staleness window)
//	   ↓
//	[filecache] Store (download once per URL)
//	   ↓
//	[patches] Parse (catalog documents only)
//
// # Quick Start
//
//	c := cache.NewMemoryCache()
//	gh := github.NewClient("", integrations.NewCachedHTTPClient(c, nil, 5*time.Minute), nil)
//
//	rel, err := gh.ReleaseByTag(ctx, "revanced/revanced-patches", "v4.0.0")
//	if err != nil {
//	    return err
//	}
//	asset, ok := release.SelectAsset(rel, ".json")
//	if !ok {
//	    return nil
//	}
//
//	files, _ := filecache.New("", nil, nil)
//	path, err := files.Fetch(ctx, asset.DownloadURL)
//
// # Errors
//
// Every operation returns (value, error). Errors carry an [errors.Code];
// [errors.IsAbsent] separates "nothing there" (NOT_FOUND,
// VERSION_NOT_FOUND, MISSING_MAPPING) from transport and decoding failures.
//
// [release]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/release
// [integrations]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/integrations
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/integrations/github
// [cache]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/httputil
// [filecache]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/filecache
// [commits]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/commits
// [patches]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/patches
// [config]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/config
// [errors.Code]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/errors#Code
// [errors.IsAbsent]: https://pkg.go.dev/github.com/matzehuels/relfetch/pkg/errors#IsAbsent
package pkg
