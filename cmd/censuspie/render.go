package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/config"
	"github.com/benoitkugler/censuspie/pipeline"
	"github.com/benoitkugler/censuspie/sheet"
	"github.com/benoitkugler/censuspie/svgdraw"
	"github.com/benoitkugler/censuspie/svgpdf"
	"github.com/benoitkugler/censuspie/svgraster"
	"github.com/benoitkugler/censuspie/svgwriter"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// names of the files written in the output directory,
// besides the per chart SVG and PNG images
const (
	pageFile  = "index.html"
	pdfFile   = "charts.pdf"
	sheetFile = "segments.xlsx"
	jsonFile  = "segments.json"
)

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the charts of the dataset into the output directory",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	def := config.Default()
	fs := cmd.Flags()
	addSourceFlags(fs)
	fs.String("out", def.OutDir, "output directory")
	fs.StringSlice("format", def.Formats, fmt.Sprintf("output formats, among %v", config.Formats))
	fs.String("title", def.Title, "title of the HTML page and the PDF document")
	fs.Bool("show-percentages", def.ShowPercentages, "show the percentage labels")
	fs.Bool("animate", def.Animate, "animate the arcs of the SVG charts")
	fs.Float64("radius", def.Radius, "radius of the charts, in pixels")
	fs.Float64("font-size", def.FontSize, "font size of the charts, in pixels")
	fs.Float64("scale", def.Scale, "scale of the PNG images")
	cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.Formats, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return category.Tags(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cfg)
	defer cancel()

	src := cfg.Source()
	results, err := pipeline.Render(ctx, pipeline.NewLoader(src), pipeline.NewRunner(cfg.Concurrency), cfg.Categories)
	if err != nil {
		return err
	}
	if err := render(ctx, cfg, src.String(), results); err != nil {
		return err
	}
	if failed := pipeline.Failed(results); len(failed) != 0 {
		return chartsError(failed)
	}
	return nil
}

// chartsError summarizes the failed charts
func chartsError(failed []pipeline.Result) error {
	errs := make([]error, len(failed))
	for i, res := range failed {
		errs[i] = fmt.Errorf("chart %s: %w", res.Tag, res.Err)
	}
	return fmt.Errorf("%d chart(s) failed: %w", len(failed), errors.Join(errs...))
}

// chart is a drawn result, scene is nil for unknown tags
type chart struct {
	result pipeline.Result
	scene  *svgdraw.Scene
}

// buildScenes draws the results. A failed category is drawn with its
// title only; unknown tags have nothing to draw.
func buildScenes(ctx context.Context, cfg config.Config, results []pipeline.Result) ([]chart, error) {
	log := klog.FromContext(ctx)
	opts, err := cfg.ChartOptions()
	if err != nil {
		return nil, err
	}
	if cfg.Animate {
		opts.Transitions = svgdraw.NewTransitions()
	}
	out := make([]chart, len(results))
	for i, res := range results {
		out[i].result = res
		var confErr *category.ConfigurationError
		if errors.As(res.Err, &confErr) {
			log.Info("nothing to draw for unknown category", "tag", confErr.Tag)
			continue
		}
		sc := svgdraw.Build(res.Category, res.Segments, opts)
		out[i].scene = &sc
	}
	return out, nil
}

// drawn returns the charts with a scene
func drawn(charts []chart) []chart {
	var out []chart
	for _, c := range charts {
		if c.scene != nil {
			out = append(out, c)
		}
	}
	return out
}

// render writes every requested format into the output directory.
func render(ctx context.Context, cfg config.Config, source string, results []pipeline.Result) error {
	log := klog.FromContext(ctx)
	all, err := buildScenes(ctx, cfg, results)
	if err != nil {
		return err
	}
	charts := drawn(all)
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	svgOpts := svgwriter.Options{Animate: cfg.Animate, Language: cfg.LanguageTag()}

	for _, c := range charts {
		tag := c.result.Category.String()
		if cfg.HasFormat(config.FormatSVG) {
			if err := writeFile(ctx, cfg.OutDir, tag+".svg", func(w io.Writer) error {
				return svgwriter.WriteChart(w, c.scene, svgOpts)
			}); err != nil {
				return err
			}
		}
		if cfg.HasFormat(config.FormatPNG) {
			if err := writeFile(ctx, cfg.OutDir, tag+".png", func(w io.Writer) error {
				return svgraster.WritePNG(w, c.scene, cfg.Scale)
			}); err != nil {
				return err
			}
		}
	}

	if cfg.HasFormat(config.FormatHTML) {
		page := svgwriter.Page{Title: cfg.Title, Source: source, ShowPercentages: cfg.ShowPercentages}
		for _, c := range all {
			page.Charts = append(page.Charts, svgwriter.PageChart{Scene: c.scene, Tag: c.result.Tag, Err: c.result.Err})
		}
		if err := writeFile(ctx, cfg.OutDir, pageFile, func(w io.Writer) error {
			return svgwriter.WritePage(w, page, svgOpts)
		}); err != nil {
			return err
		}
	}
	if cfg.HasFormat(config.FormatPDF) {
		if len(charts) == 0 {
			log.Info("no chart to write, skipping the PDF document")
		} else if err := writeFile(ctx, cfg.OutDir, pdfFile, func(w io.Writer) error {
			scenes := make([]*svgdraw.Scene, len(charts))
			for i, c := range charts {
				scenes[i] = c.scene
			}
			return svgpdf.WriteCharts(w, scenes, svgpdf.Options{Title: cfg.Title})
		}); err != nil {
			return err
		}
	}
	if cfg.HasFormat(config.FormatXLSX) {
		if err := writeFile(ctx, cfg.OutDir, sheetFile, func(w io.Writer) error {
			sheets := make([]sheet.Chart, len(charts))
			for i, c := range charts {
				sheets[i] = sheet.Chart{Category: c.result.Category, Total: c.result.Total, Segments: c.result.Segments, Err: c.result.Err}
			}
			return sheet.Write(w, sheets)
		}); err != nil {
			return err
		}
	}
	if cfg.HasFormat(config.FormatJSON) {
		if err := writeFile(ctx, cfg.OutDir, jsonFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}); err != nil {
			return err
		}
	}
	return nil
}

// writeFile creates `name` in `dir` and fills it with `write`.
func writeFile(ctx context.Context, dir, name string, write func(w io.Writer) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	klog.FromContext(ctx).V(1).Info("file written", "path", path)
	return nil
}
