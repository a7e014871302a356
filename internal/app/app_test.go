package app

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/arbor/internal/config"
	"github.com/five82/arbor/internal/demoapi"
	"github.com/five82/arbor/internal/imageref"
	"github.com/five82/arbor/internal/picture"
	"github.com/five82/arbor/internal/stage"
)

func writeConfig(t *testing.T, apiURL string) Options {
	t.Helper()
	t.Setenv(config.EnvAPIURL, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("api_url = %q\nlog_file = %q\n", apiURL, filepath.Join(dir, "arbor.log"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return Options{ConfigPath: path, PrefsPath: filepath.Join(dir, "prefs.toml"), Version: "test"}
}

func TestCheck_DemoBackend(t *testing.T) {
	server := httptest.NewServer(demoapi.New(demoapi.Options{}))
	t.Cleanup(server.Close)

	report, err := Check(context.Background(), writeConfig(t, server.URL))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(report.Images) != len(demoapi.DefaultStages)+1 {
		t.Fatalf("checked %d images, want %d", len(report.Images), len(demoapi.DefaultStages)+1)
	}
	if report.Failed() != 0 {
		t.Fatalf("Failed() = %d, want 0: %+v", report.Failed(), report.Images)
	}
	for _, img := range report.Images {
		if img.Kind != imageref.KindURL || img.Width == 0 || img.Height == 0 {
			t.Fatalf("image %d = %+v, want a loaded url", img.Stage, img)
		}
	}
}

func TestCheckImages_ReportsEachFailure(t *testing.T) {
	server := httptest.NewServer(demoapi.New(demoapi.Options{}))
	t.Cleanup(server.Close)

	fetch := &fakeFetcher{snap: stage.Snapshot{
		Stages: []int64{10, 20},
		Images: []string{server.URL + "/images/0.png", "tree1", ""},
	}}
	report, err := checkImages(context.Background(), fetch, imageref.NewResolver(""), picture.NewLoader(nil, "test"))
	if err != nil {
		t.Fatalf("checkImages returned error: %v", err)
	}
	if report.Failed() != 2 {
		t.Fatalf("Failed() = %d, want 2", report.Failed())
	}
	if report.Images[0].Err != nil {
		t.Fatalf("image 0 error = %v, want nil", report.Images[0].Err)
	}
	if !errors.Is(report.Images[1].Err, imageref.ErrInvalidFormat) {
		t.Fatalf("image 1 error = %v, want ErrInvalidFormat", report.Images[1].Err)
	}
	if !errors.Is(report.Images[2].Err, imageref.ErrMissingConfig) {
		t.Fatalf("image 2 error = %v, want ErrMissingConfig", report.Images[2].Err)
	}
}

func TestCheckImages_ConfigFailure(t *testing.T) {
	fetch := &fakeFetcher{configErr: errors.New("status 503")}
	if _, err := checkImages(context.Background(), fetch, imageref.NewResolver(""), picture.NewLoader(nil, "test")); err == nil {
		t.Fatalf("checkImages error = nil, want config failure")
	}
}

func TestStats_DemoBackend(t *testing.T) {
	demo := demoapi.New(demoapi.Options{Start: 8, Step: 5})
	server := httptest.NewServer(demo)
	t.Cleanup(server.Close)
	opts := writeConfig(t, server.URL)

	// Polling twice crosses the first threshold.
	c := server.Client()
	for range 2 {
		resp, err := c.Get(server.URL + "/?action=getData")
		if err != nil {
			t.Fatalf("getData: %v", err)
		}
		resp.Body.Close()
	}

	stats, err := Stats(context.Background(), opts)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if len(stats.StageHistory) == 0 || len(stats.Hours()) == 0 {
		t.Fatalf("stats = %+v, want history and hourly access", stats)
	}
}

func TestOpen_RequiresAPIURL(t *testing.T) {
	opts := writeConfig(t, "")
	if _, err := Check(context.Background(), opts); !errors.Is(err, config.ErrNoAPIURL) {
		t.Fatalf("Check error = %v, want ErrNoAPIURL", err)
	}

	opts.APIURL = "http://127.0.0.1:1"
	opts.PollEvery = -1
	s, err := open(opts, false)
	if err != nil {
		t.Fatalf("open with flag url returned error: %v", err)
	}
	_ = s.closeLog()
}
