package svgwriter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/benoitkugler/censuspie/svgdraw"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// PageChart is one chart of a page.
type PageChart struct {
	Scene *svgdraw.Scene // nil when the category itself is unknown
	Tag   string         // identifies the chart when Scene is nil
	Err   error          // the chart could not be computed, Scene only has a title
}

type pageChartView struct {
	ID  string
	SVG template.HTML
	Err string
}

type pageView struct {
	Title           string
	Source          string
	ShowPercentages bool
	Charts          []pageChartView
}

// Page is an HTML document showing all the charts,
// with a button toggling the percentage labels.
type Page struct {
	Title           string
	Source          string // description of the dataset
	ShowPercentages bool   // initial state of the labels
	Charts          []PageChart
}

// inlineSVG strips the XML prolog of a standalone document
func inlineSVG(doc []byte) []byte {
	if i := bytes.Index(doc, []byte("<svg")); i >= 0 {
		return doc[i:]
	}
	return doc
}

// WritePage writes the charts inline in an HTML page.
func WritePage(w io.Writer, page Page, opts Options) error {
	view := pageView{
		Title:           page.Title,
		Source:          page.Source,
		ShowPercentages: page.ShowPercentages,
		Charts:          make([]pageChartView, len(page.Charts)),
	}
	var buf bytes.Buffer
	for i, chart := range page.Charts {
		view.Charts[i].ID = chart.Tag
		if chart.Scene != nil {
			buf.Reset()
			if err := WriteChart(&buf, chart.Scene, opts); err != nil {
				return fmt.Errorf("writing chart %s: %w", chart.Scene.Category, err)
			}
			view.Charts[i].ID = chart.Scene.Category.String()
			view.Charts[i].SVG = template.HTML(inlineSVG(buf.Bytes()))
		}
		if chart.Err != nil {
			view.Charts[i].Err = chart.Err.Error()
		}
	}
	return templates.ExecuteTemplate(w, "page.html", view)
}
