// Writes the charts as SVG documents, and gathers them
// in an HTML page.
package svgwriter

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/benoitkugler/censuspie/svgdraw"
	"github.com/benoitkugler/censuspie/svgpath"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultFrames is the number of steps of the arc animations.
const DefaultFrames = 24

// Options controls the SVG output.
type Options struct {
	Animate  bool         // animate the arcs from their previous extent
	Frames   int          // default to DefaultFrames
	Language language.Tag // used to format the counts, default to English
}

// errWriter remembers the first write error,
// since svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

func attr(name, value string) string { return fmt.Sprintf("%s=%q", name, value) }

// ChartID returns the id of the chart element of `sc`.
func ChartID(sc *svgdraw.Scene) string { return "chart-" + sc.Category.String() }

// WriteChart writes the scene as a standalone SVG document.
// Labels are hidden with display:none unless the scene shows the percentages.
func WriteChart(w io.Writer, sc *svgdraw.Scene, opts Options) error {
	if opts.Frames <= 0 {
		opts.Frames = DefaultFrames
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	printer := message.NewPrinter(opts.Language)

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(int(sc.Width), int(sc.Height))
	canvas.Title(sc.Title)
	canvas.Group(attr("id", ChartID(sc)), attr("class", "chart"))

	for _, sh := range sc.Shapes {
		switch sh.Class {
		case svgdraw.ClassArc:
			writeArc(ew, sc, sh, opts, printer)
		default:
			canvas.Path(sh.Path.ToSVGPath(), pathAttrs(sh)...)
		}
	}
	for _, text := range sc.Texts {
		canvas.Text(0, 0, text.Content, textAttrs(text)...)
	}

	canvas.Gend()
	canvas.End()
	return ew.err
}

func pathAttrs(sh svgdraw.Shape) []string {
	out := []string{attr("class", sh.Class)}
	if sh.Style.FillerColor != nil {
		out = append(out, attr("fill", svgdraw.Hex(sh.Style.FillerColor)))
	} else {
		out = append(out, attr("fill", "none"))
	}
	if sh.Style.LinerColor != nil {
		out = append(out, attr("stroke", svgdraw.Hex(sh.Style.LinerColor)),
			attr("stroke-width", fmt.Sprintf("%g", sh.Style.LineWidth)))
	}
	return out
}

// writeArc writes a <path> with an optional <animate> child
// and a tooltip, which svgo Path does not support.
func writeArc(w io.Writer, sc *svgdraw.Scene, sh svgdraw.Shape, opts Options, printer *message.Printer) {
	fmt.Fprintf(w, "<path d=%q %s>\n", sh.Path.ToSVGPath(), strings.Join(pathAttrs(sh), " "))
	if opts.Animate && sh.Tween != nil && sh.Tween.From != sh.Tween.To && sh.Sector != nil {
		frames := sh.Tween.Keyframes(opts.Frames)
		values := make([]string, len(frames))
		for i, frame := range frames {
			values[i] = sh.Sector.Path(frame).ToSVGPath()
		}
		fmt.Fprintf(w, "<animate attributeName=\"d\" dur=\"%gs\" fill=\"freeze\" calcMode=\"linear\" values=%q/>\n",
			svgdraw.TransitionDuration.Seconds(), strings.Join(values, ";"))
	}
	if sh.Index >= 0 && sh.Index < len(sc.Segments) {
		seg := sc.Segments[sh.Index]
		label := seg.Label
		if label == "" {
			label = string(seg.Code)
		}
		fmt.Fprint(w, "<title>")
		writeEscaped(w, printer.Sprintf("%s: %d businesses (%.1f%%)", label, seg.Count, seg.Percentage*100))
		fmt.Fprint(w, "</title>\n")
	}
	fmt.Fprint(w, "</path>\n")
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func writeEscaped(w io.Writer, s string) { io.WriteString(w, escaper.Replace(s)) }

func textAttrs(text svgdraw.Text) []string {
	style := "text-anchor:" + text.Anchor.String()
	if text.Class == svgdraw.ClassLabel {
		style += ";pointer-events:none"
	}
	if text.Hidden {
		style += ";display:none"
	}
	return []string{
		attr("class", text.Class),
		attr("transform", svgpath.Identity.Translate(text.X, text.Y).TransformAttr()),
		attr("dy", "0.35em"),
		attr("fill", svgdraw.Hex(text.Color)),
		attr("font-size", fmt.Sprintf("%g", text.Size)),
		style,
	}
}
