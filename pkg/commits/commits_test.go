package commits

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/release"
)

type stubSource struct {
	entries []release.CommitEntry
	err     error
	calls   int
	path    string
	since   time.Time
}

func (s *stubSource) Commits(_ context.Context, _, path string, since time.Time) ([]release.CommitEntry, error) {
	s.calls++
	s.path = path
	s.since = since
	return s.entries, s.err
}

func TestPathFor(t *testing.T) {
	f := NewFetcher(&stubSource{}, map[string]string{"org.example.app": "example", "com.spotify.music": "spotify2"}, nil)

	tests := []struct {
		id      string
		want    string
		wantErr bool
	}{
		{"com.google.android.youtube", SourceRoot + "/youtube", false},
		{"com.google.android.apps.youtube.music", SourceRoot + "/music", false},
		{"org.example.app", SourceRoot + "/example", false},
		{"com.spotify.music", SourceRoot + "/spotify2", false},
		{"com.unknown", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := f.PathFor(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("PathFor(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeMissingMapping) {
			t.Errorf("PathFor(%q) code = %s, want %s", tt.id, errors.GetCode(err), errors.ErrCodeMissingMapping)
		}
		if got != tt.want {
			t.Errorf("PathFor(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNewFetcherDoesNotMutateDefaults(t *testing.T) {
	NewFetcher(&stubSource{}, map[string]string{"org.example.app": "example"}, nil)
	if _, ok := DefaultPaths["org.example.app"]; ok {
		t.Error("extra paths leaked into DefaultPaths")
	}
}

func TestSince(t *testing.T) {
	src := &stubSource{entries: []release.CommitEntry{
		release.NewCommitEntry("feat: b\nbody", "bob"),
		release.NewCommitEntry("fix: a", "alice"),
	}}
	f := NewFetcher(src, nil, nil)
	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	got, err := f.Since(context.Background(), "com.reddit.frontpage", "revanced/revanced-patches", since)
	if err != nil {
		t.Fatalf("Since() error: %v", err)
	}
	if src.path != SourceRoot+"/reddit" {
		t.Errorf("source path = %q", src.path)
	}
	if !src.since.Equal(since) {
		t.Errorf("source since = %v", src.since)
	}

	lines := Lines(got)
	want := []string{"feat: b - bob", "fix: a - alice"}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSinceUnmappedSkipsFeed(t *testing.T) {
	src := &stubSource{}
	f := NewFetcher(src, nil, nil)

	got, err := f.Since(context.Background(), "com.unknown", "o/r", time.Now())
	if !errors.Is(err, errors.ErrCodeMissingMapping) {
		t.Errorf("Since() error = %v, want %s", err, errors.ErrCodeMissingMapping)
	}
	if len(got) != 0 {
		t.Errorf("Since() = %v, want empty", got)
	}
	if src.calls != 0 {
		t.Errorf("feed calls = %d, want 0", src.calls)
	}
}

func TestSinceEmptyAndFailure(t *testing.T) {
	f := NewFetcher(&stubSource{entries: []release.CommitEntry{}}, nil, nil)
	got, err := f.Since(context.Background(), "com.twitter.android", "o/r", time.Now())
	if err != nil || len(got) != 0 {
		t.Errorf("Since() = %v, %v; want empty, nil", got, err)
	}

	f = NewFetcher(&stubSource{err: errors.New(errors.ErrCodeNetwork, "down")}, nil, nil)
	got, err = f.Since(context.Background(), "com.twitter.android", "o/r", time.Now())
	if !errors.Is(err, errors.ErrCodeNetwork) || len(got) != 0 {
		t.Errorf("Since() = %v, %v; want empty, %s", got, err, errors.ErrCodeNetwork)
	}
}
