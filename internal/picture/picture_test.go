package picture

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/five82/arbor/internal/imageref"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		in      string
		want    Protocol
		wantErr bool
	}{
		{"", Halfblocks, false},
		{"auto", Halfblocks, false},
		{"Kitty", Kitty, false},
		{"iterm2", ITerm2, false},
		{"sixel", Sixel, false},
		{"ascii", Halfblocks, true},
	}
	for _, tt := range tests {
		got, err := ParseProtocol(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseProtocol(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseProtocol(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderHalfblocks_SolidColor(t *testing.T) {
	r := NewRenderer(Halfblocks, 4, 2)
	out, err := r.Render(solid(8, 8, color.NRGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(out, "\x1b[38;2;255;0;0m\x1b[48;2;255;0;0m▀") {
		t.Fatalf("output missing red half block: %q", out)
	}
}

func TestFitBox(t *testing.T) {
	big := fitBox(solid(200, 100, color.White), 40, 40)
	if big.Bounds().Dx() != 40 || big.Bounds().Dy() != 20 {
		t.Fatalf("fit down = %v, want 40x20", big.Bounds())
	}
	tiny := fitBox(solid(1, 1, color.White), 10, 6)
	if tiny.Bounds().Dx() != 6 || tiny.Bounds().Dy() != 6 {
		t.Fatalf("fit up = %v, want 6x6", tiny.Bounds())
	}
}

func TestLoader_PlaceholderDataURI(t *testing.T) {
	img, err := NewLoader(nil, "").Load(context.Background(), imageref.Placeholder)
	if err != nil {
		t.Fatalf("Load(placeholder) returned error: %v", err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Fatalf("placeholder bounds = %v, want 1x1", img.Bounds())
	}
}

func TestLoader_RejectsNonImageDataURI(t *testing.T) {
	if _, err := NewLoader(nil, "").Load(context.Background(), "data:text/plain,hello"); err == nil {
		t.Fatalf("Load(text data uri) error = nil, want error")
	}
}

func TestLoader_FetchesAndReportsStatus(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(2, 2, color.Black)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)

	l := NewLoader(server.Client(), "arbor/test")
	img, err := l.Load(context.Background(), server.URL+"/tree.png")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if img.Bounds().Dx() != 2 {
		t.Fatalf("bounds = %v, want 2x2", img.Bounds())
	}
	if gotUserAgent != "arbor/test" {
		t.Fatalf("User-Agent = %q, want arbor/test", gotUserAgent)
	}

	if _, err := l.Load(context.Background(), server.URL+"/missing.png"); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("Load(missing) error = %v, want status 404", err)
	}
}
