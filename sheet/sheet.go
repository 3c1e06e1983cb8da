// Exports the segments of the charts as an XLSX workbook,
// with one summary sheet and one sheet per category.
package sheet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/census"
	"github.com/benoitkugler/censuspie/pie"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the name of the first sheet.
const SummarySheet = "Summary"

var (
	summaryHeader = []interface{}{"Category", "Title", "Total", "Segments", "Error"}
	chartHeader   = []interface{}{"Code", "Label", "Count", "Percentage", "Start angle", "End angle"}
)

// Chart is the content of one category sheet.
type Chart struct {
	Category category.Category
	Total    uint64
	Segments []pie.Segment
	Err      error
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row) // col and row are always >= 1
	return name
}

// Write saves the workbook of `charts` into `w`.
func Write(w io.Writer, charts []Chart) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", cell(len(summaryHeader), 1), bold); err != nil {
		return err
	}
	for i, chart := range charts {
		errMsg := ""
		if chart.Err != nil {
			errMsg = chart.Err.Error()
		}
		row := []interface{}{chart.Category.String(), chart.Category.Title(), chart.Total, len(chart.Segments), errMsg}
		if err := f.SetSheetRow(SummarySheet, cell(1, i+2), &row); err != nil {
			return err
		}
		if err := writeChart(f, chart, percent, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", chart.Category, err)
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 18); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeChart(f *excelize.File, chart Chart, percent, bold int) error {
	sheet := chart.Category.String()
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &chartHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cell(len(chartHeader), 1), bold); err != nil {
		return err
	}
	for i, seg := range chart.Segments {
		row := []interface{}{string(seg.Code), seg.Label, seg.Count, seg.Percentage, seg.StartAngle, seg.EndAngle}
		if err := f.SetSheetRow(sheet, cell(1, i+2), &row); err != nil {
			return err
		}
	}
	if n := len(chart.Segments); n > 0 {
		if err := f.SetCellStyle(sheet, cell(4, 2), cell(4, n+1), percent); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "B", "B", 20)
}

// ReadCounts reads back the counts of each category sheet
// of a workbook written by Write.
func ReadCounts(r io.Reader) (map[category.Category]map[census.YearsCode]uint64, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make(map[category.Category]map[census.YearsCode]uint64)
	for _, name := range f.GetSheetList() {
		if name == SummarySheet {
			continue
		}
		cat, err := category.Parse(name)
		if err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, err
		}
		counts := make(map[census.YearsCode]uint64)
		for i, row := range rows {
			if i == 0 || len(row) < 3 { // header
				continue
			}
			count, err := strconv.ParseUint(row[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("sheet %s, row %d: %w", name, i+1, err)
			}
			counts[census.YearsCode(row[0])] = count
		}
		out[cat] = counts
	}
	return out, nil
}
