// Package imageref classifies opaque image identifiers from the backend and
// resolves them to URLs that can be fetched.
package imageref

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Kind is the structural class of an identifier.
type Kind int

const (
	KindEmpty Kind = iota
	KindURL
	KindOpaque
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindOpaque:
		return "opaque"
	case KindInvalid:
		return "invalid"
	default:
		return "empty"
	}
}

// Identifier is a classified image reference. Build it with Classify.
type Identifier struct {
	Kind Kind
	Raw  string
}

var opaquePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{28,33}$`)

// Classify decides the identifier kind from the shape of the string alone.
func Classify(raw string) Identifier {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	switch {
	case trimmed == "":
		return Identifier{Kind: KindEmpty}
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return Identifier{Kind: KindURL, Raw: trimmed}
	case opaquePattern.MatchString(trimmed):
		return Identifier{Kind: KindOpaque, Raw: trimmed}
	default:
		return Identifier{Kind: KindInvalid, Raw: trimmed}
	}
}

// IsSet reports whether the identifier names anything at all.
func (id Identifier) IsSet() bool {
	return id.Kind != KindEmpty
}

// Resolution failures.
var (
	ErrMissingConfig = errors.New("image identifier is empty")
	ErrInvalidFormat = errors.New("invalid image identifier format")
)

// DefaultAssetTemplate builds a direct-view URL for an opaque reference.
const DefaultAssetTemplate = "https://drive.google.com/uc?export=view&id={id}"

// Resolver turns identifiers into fetchable URLs. It never substitutes a
// placeholder; callers decide the fallback.
type Resolver struct {
	template string
}

// NewResolver builds a Resolver using template, where "{id}" is replaced by
// the escaped opaque reference. An empty template uses DefaultAssetTemplate.
func NewResolver(template string) *Resolver {
	template = strings.TrimSpace(template)
	if template == "" {
		template = DefaultAssetTemplate
	}
	return &Resolver{template: template}
}

// Resolve returns the URL for id. Opaque references are expanded locally and
// never require a round trip.
func (r *Resolver) Resolve(ctx context.Context, id Identifier) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch id.Kind {
	case KindURL:
		return id.Raw, nil
	case KindOpaque:
		return strings.ReplaceAll(r.template, "{id}", url.QueryEscape(id.Raw)), nil
	case KindEmpty:
		return "", ErrMissingConfig
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, id.Raw)
	}
}

// Placeholder is a 1x1 white GIF that always renders.
const Placeholder = "data:image/gif;base64,R0lGODlhAQABAIAAAP///wAAACH5BAEAAAAALAAAAAABAAEAAAICRAEAOw=="
