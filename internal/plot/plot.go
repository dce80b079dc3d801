// Package plot renders oscillator curves to PNG images.
package plot

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

var DefaultColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

// Image collects curves and draws them scaled to fit. It implements
// osc.Surface.
type Image struct {
	Width, Height int
	LineWidth     float32
	Background    color.Color
	Axis          color.Color
	Colors        []color.Color

	curves [][]float32
}

func New(width, height int) *Image {
	return &Image{
		Width:      width,
		Height:     height,
		LineWidth:  1.5,
		Background: color.White,
		Axis:       color.Gray{Y: 0xc0},
		Colors:     DefaultColors,
	}
}

// Curve records samples to be drawn as one line spanning the image width.
func (im *Image) Curve(samples []float32) {
	im.curves = append(im.curves, append([]float32(nil), samples...))
}

func (im *Image) Len() int { return len(im.curves) }

// bounds returns the value range shared by all curves, padded so lines do not
// touch the edges.
func (im *Image) bounds() (lo, hi float32) {
	lo, hi = float32(math.Inf(1)), float32(math.Inf(-1))
	for _, c := range im.curves {
		for _, v := range c {
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	if lo > hi {
		return -1, 1
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// Render draws every curve in order, cycling through Colors.
func (im *Image) Render() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(im.Background), image.Point{}, draw.Src)
	if im.Width < 2 || im.Height < 2 {
		return dst
	}
	lo, hi := im.bounds()
	y := func(v float32) float32 {
		return (hi - v) / (hi - lo) * float32(im.Height-1)
	}
	if lo < 0 && hi > 0 && im.Axis != nil {
		im.stroke(dst, im.Axis, []vec{{0, y(0)}, {float32(im.Width - 1), y(0)}}, 1)
	}
	for i, c := range im.curves {
		if len(c) == 0 {
			continue
		}
		pts := make([]vec, len(c))
		step := float32(im.Width-1) / float32(max(len(c)-1, 1))
		for j, v := range c {
			pts[j] = vec{float32(j) * step, y(v)}
		}
		if len(pts) == 1 {
			pts = append(pts, vec{float32(im.Width - 1), pts[0].y})
		}
		col := color.Color(color.Black)
		if len(im.Colors) > 0 {
			col = im.Colors[i%len(im.Colors)]
		}
		im.stroke(dst, col, pts, im.LineWidth)
	}
	return dst
}

func (im *Image) WritePNG(w io.Writer) error {
	return png.Encode(w, im.Render())
}

type vec struct{ x, y float32 }

// stroke fills one quad per segment. All quads wind the same way so overlaps
// at the joints accumulate instead of cancelling.
func (im *Image) stroke(dst draw.Image, col color.Color, pts []vec, width float32) {
	r := vector.NewRasterizer(im.Width, im.Height)
	half := width / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.x-a.x, b.y-a.y
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		r.MoveTo(a.x+nx, a.y+ny)
		r.LineTo(b.x+nx, b.y+ny)
		r.LineTo(b.x-nx, b.y-ny)
		r.LineTo(a.x-nx, a.y-ny)
		r.ClosePath()
	}
	r.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
}
