package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ltc-mds-engine/internal/domain"
	"github.com/ltc-mds-engine/internal/service"
)

// Workbook sheet names.
const (
	SheetEvaluations = "Evaluations"
	SheetCareAreas   = "Care Areas"
	SheetSummary     = "Summary"
)

// EvaluationHeader is the header row of the evaluations sheet.
var EvaluationHeader = []string{
	"Source",
	"Assessment ID",
	"Resident ID",
	"Status",
	"Missing Sections",
	"BIMS",
	"Cognitive Status",
	"PHQ",
	"Mood Severity",
	"ADL",
	"Rehab",
	"Nursing Tier",
	"Behavior",
	"Code",
	"Case-Mix Index",
	"Daily Rate",
	"Length of Stay",
	"Revenue",
	"Triggered Care Areas",
	"Error",
}

// CareAreaHeader is the header row of the care-areas sheet, one row per
// triggered care area per assessment.
var CareAreaHeader = []string{
	"Assessment ID",
	"Care Area",
	"Evidence",
}

// WriteWorkbook saves the batch result as an xlsx workbook at path.
func WriteWorkbook(path string, result *service.BatchResult) error {
	data, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook renders the batch result as xlsx bytes.
func BuildWorkbook(result *service.BatchResult) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetEvaluations)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSheet(f, SheetEvaluations, EvaluationHeader, evaluationRows(result), headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetCareAreas); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeSheet(f, SheetCareAreas, CareAreaHeader, careAreaRows(result), headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	summary := [][]any{
		{"Run ID", result.RunID},
		{"Assessments", len(result.Items)},
		{"Classified", result.Classified},
		{"Unavailable", result.Unavailable},
		{"Failed", result.Failed},
	}
	if err := writeSheet(f, SheetSummary, []string{"Measure", "Value"}, summary, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, columnWidth(header)); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			if value == nil || value == "" {
				continue
			}
			if err := setCellValue(f, sheet, c+1, r+2, value); err != nil {
				return fmt.Errorf("failed to set cell value at row %d, col %d: %w", r+2, c+1, err)
			}
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setCellValue(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func columnWidth(header string) float64 {
	return float64(max(len(header)+4, 12))
}

func evaluationRows(result *service.BatchResult) [][]any {
	rows := make([][]any, 0, len(result.Items))
	for _, item := range result.Items {
		row := make([]any, len(EvaluationHeader))
		row[0] = item.Source
		row[1] = item.AssessmentID

		switch ev := item.Evaluation; {
		case item.Err != nil:
			row[3] = "error"
			row[19] = item.Error
		case !ev.Available:
			fillScores(row, ev)
			row[3] = "incomplete"
			row[4] = joinSections(ev.MissingSections)
			row[18] = countTriggered(item.Triggers)
		default:
			fillScores(row, ev)
			c := ev.Classification
			row[3] = "classified"
			row[10] = c.Rehab.String()
			row[11] = int(c.NursingTier)
			row[12] = c.Behavior.String()
			row[13] = c.Code
			row[14] = c.CaseMixIndex.InexactFloat64()
			if r := ev.Revenue; r != nil {
				row[15] = r.DailyRate.InexactFloat64()
				row[16] = r.LengthOfStay.InexactFloat64()
				row[17] = r.MonthlyRevenue.InexactFloat64()
			}
			row[18] = countTriggered(item.Triggers)
		}
		rows = append(rows, row)
	}
	return rows
}

func fillScores(row []any, ev *domain.Evaluation) {
	row[2] = ev.ResidentID
	row[5] = ev.Scores.Cognitive.Score
	row[6] = ev.Scores.Cognitive.Status.String()
	row[7] = ev.Scores.Mood.Score
	row[8] = ev.Scores.Mood.Severity.String()
	row[9] = ev.Scores.ADL.Score
}

func careAreaRows(result *service.BatchResult) [][]any {
	var rows [][]any
	for _, item := range result.Items {
		for _, tr := range item.Triggers {
			if !tr.Triggered {
				continue
			}
			rows = append(rows, []any{item.AssessmentID, tr.Description, joinItems(tr.Items)})
		}
	}
	return rows
}
