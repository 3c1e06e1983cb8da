// Implements a PDF backend to render charts,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"errors"
	"image/color"
	"io"
	"math"

	"github.com/benoitkugler/censuspie/svgdraw"
	"github.com/benoitkugler/censuspie/svgpath"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ svgdraw.Driver  = Renderer{}
	_ svgdraw.Filler  = (*filler)(nil)
	_ svgdraw.Stroker = stroker{}
)

const fontFamily = "Helvetica"

type Renderer struct {
	pdf       *gofpdf.Fpdf
	translate func(string) string // from UTF-8 to the encoding of the core fonts
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf *gofpdf.Fpdf
}

// implements the filling operation
type filler struct {
	pather
	useNonZeroWinding bool
}

// implements the stroking operation
type stroker struct {
	pather
}

// NewRenderer return a renderer which will
// write to the current page of `pdf`.
func NewRenderer(pdf *gofpdf.Fpdf) Renderer {
	return Renderer{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (p pather) Clear() {}

func (p pather) Start(a fixed.Point26_6) {
	p.pdf.MoveTo(svgpath.FixedTof(a))
}

func (p pather) Line(b fixed.Point26_6) {
	p.pdf.LineTo(svgpath.FixedTof(b))
}

func (p pather) QuadBezier(b fixed.Point26_6, c fixed.Point26_6) {
	cx, cy := svgpath.FixedTof(b)
	x, y := svgpath.FixedTof(c)
	p.pdf.CurveTo(cx, cy, x, y)
}

func (p pather) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	cx0, cy0 := svgpath.FixedTof(b)
	cx1, cy1 := svgpath.FixedTof(c)
	x, y := svgpath.FixedTof(d)
	p.pdf.CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y)
}

func (p pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

func rgb(c color.Color) (r, g, b int, alpha float64) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return int(n.R), int(n.G), int(n.B), float64(n.A) / 255
}

func (f *filler) SetColor(c color.Color, opacity float64) {
	r, g, b, a := rgb(c)
	f.pdf.SetFillColor(r, g, b)
	f.pdf.SetAlpha(a*opacity, "")
}

func (f *filler) Draw() {
	styleStr := "f*"
	if f.useNonZeroWinding {
		styleStr = "f"
	}
	f.pdf.DrawPath(styleStr)
}

func (f *filler) SetWinding(useNonZeroWinding bool) {
	f.useNonZeroWinding = useNonZeroWinding
}

func (s stroker) SetColor(c color.Color, opacity float64) {
	r, g, b, a := rgb(c)
	s.pdf.SetDrawColor(r, g, b)
	s.pdf.SetAlpha(a*opacity, "")
}

var (
	joinStyles = [...]string{svgdraw.Round: "round", svgdraw.Bevel: "bevel", svgdraw.Miter: "miter"}
	capStyles  = [...]string{svgdraw.ButtCap: "butt", svgdraw.SquareCap: "square", svgdraw.RoundCap: "round"}
)

func (s stroker) SetStrokeOptions(options svgdraw.StrokeOptions) {
	s.pdf.SetLineWidth(float64(options.LineWidth) / 64)
	s.pdf.SetLineJoinStyle(joinStyles[options.LineJoin])
	s.pdf.SetLineCapStyle(capStyles[options.LineCap])
}

func (s stroker) Draw() { s.pdf.DrawPath("D") }

func (r Renderer) SetupDrawers(willFill, willStroke bool) (svgdraw.Filler, svgdraw.Stroker) {
	var (
		f svgdraw.Filler
		s svgdraw.Stroker
	)
	if willFill {
		f = &filler{pather: pather{pdf: r.pdf}, useNonZeroWinding: true}
	}
	if willStroke {
		s = stroker{pather{pdf: r.pdf}}
	}
	return f, s
}

// DrawText uses the Helvetica core font, `size` being in points.
func (r Renderer) DrawText(text svgdraw.Text, x, y, size float64) {
	content := r.translate(text.Content)
	red, green, blue, a := rgb(text.Color)
	r.pdf.SetFont(fontFamily, "", size)
	r.pdf.SetTextColor(red, green, blue)
	r.pdf.SetAlpha(a, "")
	width := r.pdf.GetStringWidth(content)
	switch text.Anchor {
	case svgdraw.AnchorMiddle:
		x -= width / 2
	case svgdraw.AnchorEnd:
		x -= width
	}
	r.pdf.Text(x, y+0.35*size, content)
}

// Options controls the layout of the document.
type Options struct {
	Title         string
	Columns, Rows int     // grid of charts on each page, default to 3 x 2
	Margin        float64 // in points, default to 20
}

// fitMatrix returns the transformation mapping `box` into the
// cell of origin (x, y) and size (w, h), preserving the aspect ratio,
// and centering it.
func fitMatrix(box fixed.Rectangle26_6, x, y, w, h float64) svgpath.Matrix2D {
	minX, minY := svgpath.FixedTof(box.Min)
	maxX, maxY := svgpath.FixedTof(box.Max)
	bw, bh := maxX-minX, maxY-minY
	if bw <= 0 || bh <= 0 {
		return svgpath.Identity.Translate(x, y)
	}
	scale := math.Min(w/bw, h/bh)
	offX, offY := (w-bw*scale)/2, (h-bh*scale)/2
	return svgpath.Identity.Translate(x+offX, y+offY).Scale(scale, scale).Translate(-minX, -minY)
}

// WriteCharts renders all the scenes on A4 landscape pages,
// each scene being scaled to fit its cell of the grid.
func WriteCharts(w io.Writer, scenes []*svgdraw.Scene, opts Options) error {
	if len(scenes) == 0 {
		return errors.New("no chart to write")
	}
	if opts.Columns <= 0 || opts.Rows <= 0 {
		opts.Columns, opts.Rows = 3, 2
	}
	if opts.Margin <= 0 {
		opts.Margin = 20
	}

	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("censuspie", true)
	pdf.SetAutoPageBreak(false, 0)
	renderer := NewRenderer(pdf)

	pageW, pageH := pdf.GetPageSize()
	header := 0.
	if opts.Title != "" {
		header = 2 * opts.Margin
	}
	cellW := (pageW - 2*opts.Margin) / float64(opts.Columns)
	cellH := (pageH - 2*opts.Margin - header) / float64(opts.Rows)
	perPage := opts.Columns * opts.Rows

	for i, sc := range scenes {
		pos := i % perPage
		if pos == 0 {
			pdf.AddPage()
			if opts.Title != "" {
				renderer.DrawText(svgdraw.Text{Content: opts.Title, Color: color.Black}, opts.Margin, opts.Margin+header/2, 16)
			}
		}
		col, row := pos%opts.Columns, pos/opts.Columns
		x := opts.Margin + float64(col)*cellW
		y := opts.Margin + header + float64(row)*cellH
		sc.Draw(renderer, fitMatrix(sc.Bounds(), x, y, cellW, cellH))
	}
	return pdf.Output(w)
}
