package app

import (
	"context"
	"fmt"

	"github.com/five82/arbor/internal/engine"
	"github.com/five82/arbor/internal/imageref"
	"github.com/five82/arbor/internal/picture"
)

// pictureSource resolves, downloads and renders stage images.
type pictureSource struct {
	resolver *imageref.Resolver
	loader   *picture.Loader
	renderer *picture.Renderer
}

func (p pictureSource) Frame(ctx context.Context, stage int, id imageref.Identifier) (engine.Frame, error) {
	url, err := p.resolver.Resolve(ctx, id)
	if err != nil {
		return engine.Frame{}, err
	}
	img, err := p.loader.Load(ctx, url)
	if err != nil {
		return engine.Frame{}, fmt.Errorf("load stage %d image: %w", stage, err)
	}
	art, err := p.renderer.Render(img)
	if err != nil {
		return engine.Frame{}, fmt.Errorf("render stage %d image: %w", stage, err)
	}
	return engine.Frame{Stage: stage, URL: url, Art: art}, nil
}

// placeholderArt renders the fallback image once so the engine can show it
// without a round trip.
func placeholderArt(ctx context.Context, loader *picture.Loader, renderer *picture.Renderer) string {
	img, err := loader.Load(ctx, imageref.Placeholder)
	if err != nil {
		return ""
	}
	art, err := renderer.Render(img)
	if err != nil {
		return ""
	}
	return art
}
