package patches

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/relfetch/pkg/config"
	"github.com/matzehuels/relfetch/pkg/errors"
	"github.com/matzehuels/relfetch/pkg/filecache"
	"github.com/matzehuels/relfetch/pkg/release"
)

const catalog = `[
  {
    "name": "Hide ads",
    "description": "Removes ads.",
    "version": "1.2.0",
    "excluded": false,
    "dependencies": ["integrations"],
    "compatiblePackages": [{"name": "com.google.android.youtube", "versions": ["19.16.39"]}],
    "options": [{"key": "mode", "title": "Mode", "required": true, "default": "all"}],
    "use": true,
    "requiresIntegrations": true
  },
  {
    "name": "Debugging",
    "excluded": true,
    "compatiblePackages": [{"name": "com.google.android.youtube"}]
  }
]`

type fakeReleases struct {
	releases map[string]*release.Release
	latest   *release.Release
	calls    int
}

func (f *fakeReleases) LatestRelease(_ context.Context, _ string) (*release.Release, error) {
	f.calls++
	if f.latest == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no releases")
	}
	return f.latest, nil
}

func (f *fakeReleases) ReleaseByTag(_ context.Context, _, tag string) (*release.Release, error) {
	f.calls++
	if r, ok := f.releases[tag]; ok {
		return r, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no release %s", tag)
}

type fixture struct {
	server   *httptest.Server
	releases *fakeReleases
	store    *config.MemoryStore
	files    *filecache.Store
	loader   *Loader
	hits     *int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var hits, flaky int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Path {
		case "/v2/patches.json":
			w.Write([]byte(catalog))
		case "/v2/integrations.apk":
			w.Write([]byte("PK-binary"))
		case "/broken/patches.json":
			w.Write([]byte(`[{"name": "ok"}, {"name": 42}]`))
		case "/flaky/patches.json":
			if atomic.AddInt32(&flaky, 1) == 1 {
				w.Write([]byte(`{"truncated`))
				return
			}
			w.Write([]byte(catalog))
		case "/nameless/patches.json":
			w.Write([]byte(`[{"name": "ok"}, {"description": "no name"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	v2 := &release.Release{
		Tag: "v2.0.0",
		Assets: []release.Asset{
			{Name: "patches-2.0.0.jar", DownloadURL: server.URL + "/v2/patches.jar"},
			{Name: "patches-2.0.0.json", DownloadURL: server.URL + "/v2/patches.json"},
			{Name: "integrations-2.0.0.apk", DownloadURL: server.URL + "/v2/integrations.apk"},
		},
	}
	broken := &release.Release{
		Tag:    "v1.9.0",
		Assets: []release.Asset{
			{Name: "patches.json", DownloadURL: server.URL + "/broken/patches.json"},
			{Name: "integrations.apk", DownloadURL: server.URL + "/broken/integrations.apk"},
		},
	}
	flakyRel := &release.Release{
		Tag:    "v1.8.0",
		Assets: []release.Asset{{Name: "patches.json", DownloadURL: server.URL + "/flaky/patches.json"}},
	}
	bare := &release.Release{Tag: "v1.0.0"}

	files, err := filecache.New(t.TempDir(), server.Client(), nil)
	if err != nil {
		t.Fatal(err)
	}
	fr := &fakeReleases{
		releases: map[string]*release.Release{"v2.0.0": v2, "v1.9.0": broken, "v1.8.0": flakyRel, "v1.0.0": bare},
		latest:   v2,
	}
	store := config.NewMemoryStore("19.16.39")
	return &fixture{
		server:   server,
		releases: fr,
		store:    store,
		files:    files,
		loader:   NewLoader(fr, files, store, nil),
		hits:     &hits,
	}
}

func TestLoadByTag(t *testing.T) {
	f := newFixture(t)

	list, err := f.loader.Load(context.Background(), "revanced/revanced-patches", "v2.0.0", "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Load() returned %d patches, want 2", len(list))
	}
	if list[0].Name != "Hide ads" || list[1].Name != "Debugging" {
		t.Errorf("names = %q, %q", list[0].Name, list[1].Name)
	}
	if got := f.store.PatchesDownloadURL(); got != f.server.URL+"/v2/patches.json" {
		t.Errorf("recorded patches URL = %q", got)
	}
	if got := f.store.IntegrationsDownloadURL(); got != "" {
		t.Errorf("integrations URL should be untouched, got %q", got)
	}
}

func TestLoadLatestWhenVersionEmpty(t *testing.T) {
	f := newFixture(t)
	list, err := f.loader.Load(context.Background(), "o/r", "", "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Load() returned %d patches, want 2", len(list))
	}
}

func TestLoadDirectURLSkipsFeed(t *testing.T) {
	f := newFixture(t)

	list, err := f.loader.Load(context.Background(), "o/r", "v9.9.9", f.server.URL+"/v2/patches.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Load() returned %d patches, want 2", len(list))
	}
	if f.releases.calls != 0 {
		t.Errorf("release lookups = %d, want 0", f.releases.calls)
	}
	if f.store.PatchesDownloadURL() != "" {
		t.Error("direct URL should not be re-recorded")
	}
}

func TestLoadReusesDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := f.loader.Load(ctx, "o/r", "v2.0.0", ""); err != nil {
			t.Fatal(err)
		}
	}
	if *f.hits != 1 {
		t.Errorf("downloads = %d, want 1", *f.hits)
	}
}

func TestLoadFailuresAreEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name, version, direct string
		want                  errors.Code
	}{
		{"unknown tag", "v0.0.1", "", errors.ErrCodeNotFound},
		{"no json asset", "v1.0.0", "", errors.ErrCodeNotFound},
		{"malformed entry", "v1.9.0", "", errors.ErrCodeMalformed},
		{"nameless entry", "", f.server.URL + "/nameless/patches.json", errors.ErrCodeMalformed},
		{"missing download", "", f.server.URL + "/gone/patches.json", errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.loader.Load(ctx, "o/r", tt.version, tt.direct)
			if len(list) != 0 {
				t.Errorf("Load() returned %d patches, want none", len(list))
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestLoadMalformedCatalogIsEvicted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	url := f.server.URL + "/flaky/patches.json"

	if _, err := f.loader.Load(ctx, "o/r", "v1.8.0", ""); !errors.Is(err, errors.ErrCodeMalformed) {
		t.Fatalf("Load() error = %v, want %s", err, errors.ErrCodeMalformed)
	}
	if f.files.Cached(url) {
		t.Error("malformed catalog should not stay cached")
	}
	if got := f.store.PatchesDownloadURL(); got != "" {
		t.Errorf("malformed catalog URL recorded: %q", got)
	}

	list, err := f.loader.Load(ctx, "o/r", "v1.8.0", "")
	if err != nil {
		t.Fatalf("Load() after eviction error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Load() returned %d patches, want 2", len(list))
	}
	if got := f.store.PatchesDownloadURL(); got != url {
		t.Errorf("recorded patches URL = %q, want %q", got, url)
	}
	if *f.hits != 2 {
		t.Errorf("downloads = %d, want 2", *f.hits)
	}
}

func TestIntegrationsFailureNotRecorded(t *testing.T) {
	f := newFixture(t)
	_, err := f.loader.Integrations(context.Background(), "o/r", "v1.9.0", "")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("Integrations() error = %v, want %s", err, errors.ErrCodeNotFound)
	}
	if got := f.store.IntegrationsDownloadURL(); got != "" {
		t.Errorf("failed download recorded: %q", got)
	}
}

func TestIntegrations(t *testing.T) {
	f := newFixture(t)

	path, err := f.loader.Integrations(context.Background(), "revanced/revanced-integrations", "v2.0.0", "")
	if err != nil {
		t.Fatalf("Integrations() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "PK-binary" {
		t.Errorf("content = %q", data)
	}
	if got := f.store.IntegrationsDownloadURL(); got != f.server.URL+"/v2/integrations.apk" {
		t.Errorf("recorded integrations URL = %q", got)
	}
	if f.store.PatchesDownloadURL() != "" {
		t.Error("patches URL should be untouched")
	}
}

func TestPatchFields(t *testing.T) {
	list, err := Parse([]byte(catalog))
	if err != nil {
		t.Fatal(err)
	}
	p := list[0]
	if p.Fields["use"] != true || p.Fields["requiresIntegrations"] != true {
		t.Errorf("Fields = %v", p.Fields)
	}
	if _, ok := p.Fields["name"]; ok {
		t.Error("known fields should not be duplicated into Fields")
	}
	if list[1].Fields != nil {
		t.Errorf("patch without extra fields has Fields = %v", list[1].Fields)
	}
	if len(p.Options) != 1 || p.Options[0].Key != "mode" || !p.Options[0].Required || p.Options[0].Default != "all" {
		t.Errorf("Options = %+v", p.Options)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	json.Unmarshal(out, &back)
	if back["use"] != true || back["name"] != "Hide ads" {
		t.Errorf("marshalled patch lost fields: %s", out)
	}
}

func TestSupportsAndFilter(t *testing.T) {
	list, _ := Parse([]byte(catalog))
	const yt = "com.google.android.youtube"

	if !list[0].Supports(yt, "19.16.39") || list[0].Supports(yt, "18.0.0") {
		t.Error("version-pinned support wrong")
	}
	if !list[1].Supports(yt, "18.0.0") {
		t.Error("patch without versions should support any version")
	}
	if list[0].Supports("com.other", "") {
		t.Error("unrelated package should not be supported")
	}

	if got := Filter(list, yt, "19.16.39", false); len(got) != 1 || got[0].Name != "Hide ads" {
		t.Errorf("Filter() = %+v", got)
	}
	if got := Filter(list, "", "", true); len(got) != 2 {
		t.Errorf("Filter(all) = %d patches, want 2", len(got))
	}
}
