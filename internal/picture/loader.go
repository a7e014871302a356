package picture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// maxImageBytes caps a single download.
const maxImageBytes = 16 << 20

// ErrDataURI is returned for data: URIs that are not base64 images.
var ErrDataURI = errors.New("unsupported data uri")

// Loader fetches and decodes images. Concurrent loads of the same URL share
// one request.
type Loader struct {
	http      *http.Client
	userAgent string
	group     singleflight.Group
}

// NewLoader builds a Loader. A nil client gets a 10 second timeout.
func NewLoader(client *http.Client, userAgent string) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Loader{http: client, userAgent: userAgent}
}

// Load returns the decoded image at rawURL.
func (l *Loader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	v, err, _ := l.group.Do(rawURL, func() (any, error) {
		return l.load(ctx, rawURL)
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

func (l *Loader) load(ctx context.Context, rawURL string) (image.Image, error) {
	if strings.HasPrefix(rawURL, "data:") {
		data, err := decodeDataURI(rawURL)
		if err != nil {
			return nil, err
		}
		return decode(bytes.NewReader(data))
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse image url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("image %s returned status %d", u.Redacted(), resp.StatusCode)
	}
	return decode(io.LimitReader(resp.Body, maxImageBytes))
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func decodeDataURI(raw string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") || !strings.HasPrefix(meta, "image/") {
		return nil, ErrDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataURI, err)
	}
	return data, nil
}
