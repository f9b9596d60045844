// Package report renders evaluations for people: terminal tables for the CLI
// and spreadsheet workbooks for batch runs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ltc-mds-engine/internal/domain"
	"github.com/ltc-mds-engine/internal/rates"
	"github.com/ltc-mds-engine/internal/service"
)

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Footer = text.FormatDefault
	if title != "" {
		tw.SetTitle(title)
	}
	return tw
}

// WriteEvaluation renders the scores, classification and revenue of one assessment.
func WriteEvaluation(w io.Writer, ev *domain.Evaluation) {
	tw := newTable(w, "Assessment "+ev.AssessmentID)
	tw.AppendHeader(table.Row{"Measure", "Value", "Detail"})

	s := ev.Scores
	tw.AppendRow(table.Row{"Cognitive", s.Cognitive.Score, fmt.Sprintf("%s (%s)", s.Cognitive.Status, s.Cognitive.Method)})
	tw.AppendRow(table.Row{"Mood", s.Mood.Score, fmt.Sprintf("%s (%s)", s.Mood.Severity, s.Mood.Method)})
	tw.AppendRow(table.Row{"ADL", s.ADL.Score, s.ADL.Independence})

	if !ev.Available {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{"Classification", "unavailable", "complete sections " + joinSections(ev.MissingSections)})
		tw.Render()
		return
	}

	c := ev.Classification
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Rehabilitation", c.Rehab, fmt.Sprintf("signal %d", c.RehabSignal)})
	tw.AppendRow(table.Row{"Nursing tier", int(c.NursingTier), nursingFlags(c)})
	tw.AppendRow(table.Row{"Behavior", c.Behavior, fmt.Sprintf("tally %d", c.BehaviorTally)})
	tw.AppendRow(table.Row{"Code", c.Code, "indicator " + c.Indicator})
	tw.AppendRow(table.Row{"Case-mix index", c.CaseMixIndex.String(), ""})
	if len(c.Fallbacks) > 0 {
		tw.AppendRow(table.Row{"Defaulted items", len(c.Fallbacks), joinFields(c.Fallbacks)})
	}
	if len(c.UnassessedSections) > 0 {
		tw.AppendRow(table.Row{"Flag sections", "not assessed", joinSections(c.UnassessedSections)})
	}

	if r := ev.Revenue; r != nil {
		tw.AppendSeparator()
		tw.AppendRow(table.Row{"Base per diem", r.BasePerDiem.StringFixed(2), ""})
		for _, adj := range r.Adjustments {
			tw.AppendRow(table.Row{"Adjustment", adj.Amount.String(), fmt.Sprintf("%s (%s)", adj.Name, adj.Kind)})
		}
		tw.AppendRow(table.Row{"Daily rate", r.DailyRate.StringFixed(2), ""})
		tw.AppendRow(table.Row{"Revenue", r.MonthlyRevenue.StringFixed(2), fmt.Sprintf("%s days", r.LengthOfStay)})
	}
	tw.Render()

	if len(c.Qualifying) > 0 {
		qw := newTable(w, "Qualifying conditions")
		qw.AppendHeader(table.Row{"Flag", "Condition", "Fields"})
		for _, q := range c.Qualifying {
			qw.AppendRow(table.Row{q.Flag, q.Condition, joinFields(q.Fields)})
		}
		qw.Render()
	}
}

// WriteTriggers renders the care-area results; triggeredOnly hides the rest.
func WriteTriggers(w io.Writer, triggers []domain.CareAreaTrigger, triggeredOnly bool) {
	tw := newTable(w, "Care areas")
	tw.AppendHeader(table.Row{"Care area", "Triggered", "Evidence", "Missing"})
	count := 0
	for _, tr := range triggers {
		if tr.Triggered {
			count++
		}
		if triggeredOnly && !tr.Triggered {
			continue
		}
		tw.AppendRow(table.Row{tr.Description, yesNo(tr.Triggered), joinItems(tr.Items), joinFields(tr.MissingFields)})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d of %d", count, len(triggers)), "", ""})
	tw.Render()
}

// WriteBatch renders one row per batch input.
func WriteBatch(w io.Writer, result *service.BatchResult) {
	tw := newTable(w, "Batch "+result.RunID)
	tw.AppendHeader(table.Row{"Source", "Assessment", "Code", "CMI", "Daily rate", "Revenue", "Care areas", "Status"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, item := range result.Items {
		tw.AppendRow(batchRow(item))
	}
	tw.AppendFooter(table.Row{
		"", "", "", "", "", "", "",
		fmt.Sprintf("%d classified, %d unavailable, %d failed", result.Classified, result.Unavailable, result.Failed),
	})
	tw.Render()
}

func batchRow(item service.BatchItemResult) table.Row {
	if item.Err != nil {
		return table.Row{item.Source, item.AssessmentID, "", "", "", "", "", "error: " + item.Error}
	}

	ev := item.Evaluation
	triggered := countTriggered(item.Triggers)
	if !ev.Available {
		return table.Row{item.Source, item.AssessmentID, "", "", "", "", triggered, "incomplete: " + joinSections(ev.MissingSections)}
	}

	row := table.Row{item.Source, item.AssessmentID, ev.Classification.Code, ev.Classification.CaseMixIndex.String(), "", "", triggered, "classified"}
	if ev.Revenue != nil {
		row[4] = ev.Revenue.DailyRate.StringFixed(2)
		row[5] = ev.Revenue.MonthlyRevenue.StringFixed(2)
	}
	return row
}

// WriteCareAreas renders the trigger catalog.
func WriteCareAreas(w io.Writer, rules []service.CareAreaRule) {
	tw := newTable(w, "Care-area catalog")
	tw.AppendHeader(table.Row{"#", "Care area", "Key", "Inspects", "Requires"})
	for i, rule := range rules {
		tw.AppendRow(table.Row{i + 1, rule.Description, rule.Area, joinFields(rule.Fields), joinFields(rule.Requires)})
	}
	tw.Render()
}

// WriteRates renders the rate table: case-mix groups and add-on adjustments.
func WriteRates(w io.Writer, t *rates.Table) {
	indicators := t.Indicators()

	tw := newTable(w, fmt.Sprintf("Rate table %s (base %s)", t.Version(), t.BasePerDiem().StringFixed(2)))
	tw.AppendHeader(table.Row{"Group", "Case-mix index", "Daily rate"})
	for _, group := range t.Groups() {
		if len(indicators) == 0 {
			break
		}
		cmi, err := t.CaseMixIndex(group + indicators[0])
		if err != nil {
			continue
		}
		daily := t.BasePerDiem().Mul(cmi).Round(2)
		tw.AppendRow(table.Row{group, cmi.String(), daily.StringFixed(2)})
	}
	tw.AppendFooter(table.Row{"Indicators", strings.Join(indicators, ", "), ""})
	tw.Render()

	adjustments := t.Adjustments()
	if len(adjustments) == 0 {
		return
	}
	aw := newTable(w, "Adjustments")
	aw.AppendHeader(table.Row{"Name", "When", "Kind", "Amount"})
	for _, adj := range adjustments {
		aw.AppendRow(table.Row{adj.Name, fmt.Sprintf("%s = %s", adj.Field, adj.When), adj.Kind, adj.Amount.String()})
	}
	aw.Render()
}

func nursingFlags(c *domain.ClassificationResult) string {
	var set []string
	for _, f := range domain.NursingFlags() {
		if c.Flag(f) {
			set = append(set, f.String())
		}
	}
	if len(set) == 0 {
		return "none"
	}
	return strings.Join(set, ", ")
}

func countTriggered(triggers []domain.CareAreaTrigger) int {
	n := 0
	for _, tr := range triggers {
		if tr.Triggered {
			n++
		}
	}
	return n
}

func joinSections(sections []domain.SectionID) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func joinFields(fields []domain.FieldID) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}

func joinItems(items []domain.TriggerItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s=%s", it.Field, it.Value)
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
