// Package release holds the normalized release model and the pure decision
// logic built on it.
//
// # Model
//
// A [Release] is identified by its tag within a repository and carries
// release notes and an ordered list of [Asset] values. Assets are only ever
// resolved against the release that produced them.
//
// # Asset selection
//
// [SelectAsset] returns the first asset, in feed order, whose name ends
// with a byte-exact, case-sensitive suffix:
//
//	apk, ok := release.SelectAsset(rel, ".apk")
//
// # Changelog aggregation
//
// [Aggregate] folds the notes of every release newer than the installed
// version into one document. [Changelog] fetches the release page first.
// When the installed version's tag is not on the page, the result is a
// VERSION_NOT_FOUND error; the scan never runs past the page.
package release
