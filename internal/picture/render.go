// Package picture downloads stage images and renders them for the terminal.
package picture

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/disintegration/imaging"
)

// Protocol selects how images reach the terminal.
type Protocol int

const (
	Halfblocks Protocol = iota
	Kitty
	ITerm2
	Sixel
)

func (p Protocol) String() string {
	switch p {
	case Kitty:
		return "kitty"
	case ITerm2:
		return "iterm2"
	case Sixel:
		return "sixel"
	default:
		return "halfblocks"
	}
}

// ParseProtocol maps a config value onto a Protocol. Empty and "auto" pick
// halfblocks, which works in every true color terminal.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "halfblocks":
		return Halfblocks, nil
	case "kitty":
		return Kitty, nil
	case "iterm2":
		return ITerm2, nil
	case "sixel":
		return Sixel, nil
	default:
		return Halfblocks, fmt.Errorf("unknown image protocol %q", s)
	}
}

// Renderer turns images into terminal strings sized in character cells.
type Renderer struct {
	protocol Protocol
	width    int
	height   int
}

// NewRenderer returns a Renderer for a box of width x height cells.
func NewRenderer(protocol Protocol, width, height int) *Renderer {
	if width <= 0 {
		width = 40
	}
	if height <= 0 {
		height = 20
	}
	return &Renderer{protocol: protocol, width: width, height: height}
}

// Protocol returns the active protocol.
func (r *Renderer) Protocol() Protocol { return r.protocol }

// Size returns the cell box.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Render converts img into escape sequences.
func (r *Renderer) Render(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image is nil")
	}
	switch r.protocol {
	case Kitty:
		return r.renderTermimg(img, termimg.Kitty)
	case ITerm2:
		return r.renderTermimg(img, termimg.ITerm2)
	case Sixel:
		return r.renderTermimg(img, termimg.Sixel)
	default:
		// Each cell holds two vertical pixels.
		return renderHalfblocks(fitBox(img, r.width, r.height*2)), nil
	}
}

func (r *Renderer) renderTermimg(img image.Image, proto termimg.Protocol) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", fmt.Errorf("go-termimg: failed to create image wrapper")
	}
	ti.Protocol(proto).Size(r.width, r.height).Scale(termimg.ScaleFit)
	return ti.Render()
}

// fitBox scales img to the largest size that fits w x h, keeping the aspect
// ratio. Tiny images are scaled up with nearest neighbour so placeholders
// still fill the box.
func fitBox(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return imaging.Clone(img)
	}
	if b.Dx() > w || b.Dy() > h {
		return imaging.Sharpen(imaging.Fit(img, w, h, imaging.CatmullRom), 0.5)
	}
	scale := min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	dw := max(1, int(float64(b.Dx())*scale))
	dh := max(1, int(float64(b.Dy())*scale))
	return imaging.Resize(img, dw, dh, imaging.NearestNeighbor)
}

// renderHalfblocks draws two pixel rows per line with the upper half block:
// the top pixel is the foreground and the bottom pixel the background.
func renderHalfblocks(img *image.NRGBA) string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(w * (h/2 + 1) * 30)
	for y := 0; y < h; y += 2 {
		if y > 0 {
			b.WriteString("\x1b[0m\n")
		}
		for x := 0; x < w; x++ {
			top := img.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			var bot color.NRGBA
			if y+1 < h {
				bot = img.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y+1)
			}
			switch {
			case top.A == 0 && bot.A == 0:
				b.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}
	b.WriteString("\x1b[0m")
	return b.String()
}
