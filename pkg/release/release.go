package release

import (
	"strings"
	"time"
)

// Release is a tagged publication in a repository's release feed.
type Release struct {
	Tag         string    `json:"tag"`
	Name        string    `json:"name,omitempty"`
	Body        string    `json:"body"`
	Prerelease  bool      `json:"prerelease,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"download_url"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// CommitEntry is a display-only summary of one commit.
type CommitEntry struct {
	Summary    string `json:"summary"`
	AuthorName string `json:"author_name"`
}

// String formats the entry as "<summary> - <author>".
func (c CommitEntry) String() string {
	return c.Summary + " - " + c.AuthorName
}

// NewCommitEntry builds an entry from a full commit message, keeping only
// its first line.
func NewCommitEntry(message, author string) CommitEntry {
	summary, _, _ := strings.Cut(message, "\n")
	return CommitEntry{
		Summary:    strings.TrimRight(summary, "\r"),
		AuthorName: author,
	}
}

// SelectAsset returns the first asset of rel whose name ends with suffix.
// ok is false when rel is nil or nothing matches; other releases are never
// consulted.
func SelectAsset(rel *Release, suffix string) (asset Asset, ok bool) {
	if rel == nil {
		return Asset{}, false
	}
	for _, a := range rel.Assets {
		if strings.HasSuffix(a.Name, suffix) {
			return a, true
		}
	}
	return Asset{}, false
}
