package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/benoitkugler/censuspie/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

func newSegmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "Print the segments of the charts",
		Args:  cobra.NoArgs,
		RunE:  runSegments,
	}
	addSourceFlags(cmd.Flags())
	cmd.Flags().StringP("output", "o", outputTable, "output format: json or table")
	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{outputJSON, outputTable}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runSegments(cmd *cobra.Command, _ []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output != outputJSON && output != outputTable {
		return fmt.Errorf("unsupported output %q (expected %s or %s)", output, outputJSON, outputTable)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cfg)
	defer cancel()

	results, err := pipeline.Render(ctx, pipeline.NewLoader(cfg.Source()), pipeline.NewRunner(cfg.Concurrency), cfg.Categories)
	if err != nil {
		return err
	}
	if output == outputJSON {
		err = writeJSON(cmd.OutOrStdout(), results)
	} else {
		err = writeTable(cmd.OutOrStdout(), results, cfg.LanguageTag())
	}
	if err != nil {
		return err
	}
	if failed := pipeline.Failed(results); len(failed) != 0 {
		return chartsError(failed)
	}
	return nil
}

type segmentJSON struct {
	Code       string  `json:"code"`
	Label      string  `json:"label"`
	Count      uint64  `json:"count"`
	Percentage float64 `json:"percentage"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	PadAngle   float64 `json:"padAngle"`
}

type chartJSON struct {
	Category string        `json:"category"`
	Title    string        `json:"title,omitempty"`
	Total    uint64        `json:"total"`
	Segments []segmentJSON `json:"segments"`
	Error    string        `json:"error,omitempty"`
}

func toJSON(res pipeline.Result) chartJSON {
	out := chartJSON{Category: res.Tag, Total: res.Total, Segments: make([]segmentJSON, len(res.Segments))}
	if res.Err != nil {
		out.Error = res.Err.Error()
	} else {
		out.Title = res.Category.Title()
	}
	for i, seg := range res.Segments {
		out.Segments[i] = segmentJSON{
			Code:       string(seg.Code),
			Label:      seg.Label,
			Count:      seg.Count,
			Percentage: seg.Percentage,
			StartAngle: seg.StartAngle,
			EndAngle:   seg.EndAngle,
			PadAngle:   seg.PadAngle,
		}
	}
	return out
}

// writeJSON writes the segments of every result, failed ones included.
func writeJSON(w io.Writer, results []pipeline.Result) error {
	charts := make([]chartJSON, len(results))
	for i, res := range results {
		charts[i] = toJSON(res)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(charts)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func writeTable(w io.Writer, results []pipeline.Result, lang language.Tag) error {
	printer := message.NewPrinter(lang)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCODE\tLABEL\tCOUNT\tPERCENTAGE\tSTART\tEND")
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(tw, "%s\t-\terror: %s\t\t\t\t\n", res.Tag, res.Err)
			continue
		}
		if len(res.Segments) == 0 {
			fmt.Fprintf(tw, "%s\t-\tno data\t%s\t\t\t\n", res.Tag, printer.Sprintf("%d", res.Total))
			continue
		}
		for _, seg := range res.Segments {
			printer.Fprintf(tw, "%s\t%s\t%s\t%d\t%.1f%%\t%.1f°\t%.1f°\n", res.Tag, seg.Code, seg.Label,
				seg.Count, seg.Percentage*100, degrees(seg.StartAngle), degrees(seg.EndAngle))
		}
	}
	return tw.Flush()
}
