package github

import (
	"time"

	"github.com/matzehuels/relfetch/pkg/release"
)

// releaseResponse is the GitHub API release object.
type releaseResponse struct {
	TagName     string          `json:"tag_name"`
	Name        string          `json:"name"`
	Body        string          `json:"body"`
	Prerelease  bool            `json:"prerelease"`
	PublishedAt *time.Time      `json:"published_at"`
	Assets      []assetResponse `json:"assets"`
}

type assetResponse struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
	ContentType        string `json:"content_type"`
}

// commitResponse is the subset of the GitHub API commit object relfetch reads.
type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string     `json:"name"`
			Date *time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

func (r releaseResponse) toRelease() release.Release {
	rel := release.Release{
		Tag:        r.TagName,
		Name:       r.Name,
		Body:       r.Body,
		Prerelease: r.Prerelease,
		Assets:     make([]release.Asset, 0, len(r.Assets)),
	}
	if r.PublishedAt != nil {
		rel.PublishedAt = *r.PublishedAt
	}
	for _, a := range r.Assets {
		rel.Assets = append(rel.Assets, release.Asset{
			Name:        a.Name,
			DownloadURL: a.BrowserDownloadURL,
			Size:        a.Size,
			ContentType: a.ContentType,
		})
	}
	return rel
}
