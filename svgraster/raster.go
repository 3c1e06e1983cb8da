// Implements a raster backend to render charts,
// by wrapping rasterx.
package svgraster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/benoitkugler/censuspie/svgdraw"
	"github.com/benoitkugler/censuspie/svgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var _ svgdraw.Driver = (*Renderer)(nil) // assert interface conformance

type Renderer struct {
	dst    draw.Image
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
	face   font.Face
}

// NewRenderer returns a renderer drawing into `dst`, with
// a rasterx.ScannerGV.
func NewRenderer(dst draw.Image) *Renderer {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, b)
	return &Renderer{
		dst:    dst,
		dasher: rasterx.NewDasher(w, h, scanner),
		filler: rasterx.NewFiller(w, h, scanner),
		face:   basicfont.Face7x13,
	}
}

// RasterScene renders the chart into a new image, scaled by `scale`.
// A nil background leaves the image transparent.
func RasterScene(sc *svgdraw.Scene, scale float64, background color.Color) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	w, h := int(math.Ceil(sc.Width*scale)), int(math.Ceil(sc.Height*scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	}
	sc.Draw(NewRenderer(img), svgpath.Identity.Scale(scale, scale))
	return img
}

// WritePNG renders the chart on a white background and encodes it as PNG.
func WritePNG(w io.Writer, sc *svgdraw.Scene, scale float64) error {
	return png.Encode(w, RasterScene(sc, scale, color.White))
}

type filler struct{ *rasterx.Filler }

func (f filler) SetColor(c color.Color, opacity float64) {
	f.Filler.SetColor(rasterx.ApplyOpacity(c, opacity))
}

type stroker struct{ *rasterx.Dasher }

func (s stroker) SetColor(c color.Color, opacity float64) {
	s.Dasher.SetColor(rasterx.ApplyOpacity(c, opacity))
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgdraw.Round: rasterx.Round,
		svgdraw.Bevel: rasterx.Bevel,
		svgdraw.Miter: rasterx.Miter,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgdraw.ButtCap:   rasterx.ButtCap,
		svgdraw.SquareCap: rasterx.SquareCap,
		svgdraw.RoundCap:  rasterx.RoundCap,
	}
)

func (s stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.Dasher.SetStroke(
		options.LineWidth, options.MiterLimit, capToFunc[options.LineCap],
		capToFunc[options.LineCap], rasterx.FlatGap,
		joinToJoin[options.LineJoin], nil, 0,
	)
}

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (svgdraw.Filler, svgdraw.Stroker) {
	var (
		f svgdraw.Filler
		s svgdraw.Stroker
	)
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

// DrawText uses a fixed size bitmap font: `size` is ignored.
func (rd *Renderer) DrawText(text svgdraw.Text, x, y, size float64) {
	d := font.Drawer{
		Dst:  rd.dst,
		Src:  image.NewUniform(text.Color),
		Face: rd.face,
	}
	width := d.MeasureString(text.Content)
	dot := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y*64) + rd.face.Metrics().CapHeight/2, // vertically centered
	}
	switch text.Anchor {
	case svgdraw.AnchorMiddle:
		dot.X -= width / 2
	case svgdraw.AnchorEnd:
		dot.X -= width
	}
	d.Dot = dot
	d.DrawString(text.Content)
}
