// Package report renders a project's estimates as markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"cost-estimator/internal/estimates"
	"cost-estimator/internal/resources"
)

// Input is everything a report shows.
type Input struct {
	ProjectID   int64
	ProjectName string
	ProjectSize string
	Industry    string
	Budget      string
	Timeline    *int
	CreatedAt   time.Time
	Estimates   estimates.Estimates
	Resources   resources.Allocation
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown builds the report document.
func Markdown(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Project Estimate Results: %s\n\n", cell(in.ProjectName))
	b.WriteString("| Field | Value |\n|---|---|\n")
	row(&b, "Project ID", strconv.FormatInt(in.ProjectID, 10))
	row(&b, "Size", in.ProjectSize)
	row(&b, "Industry", in.Industry)
	row(&b, "Budget", in.Budget)
	if in.Timeline != nil {
		row(&b, "Timeline", strconv.Itoa(*in.Timeline))
	}
	if !in.CreatedAt.IsZero() {
		row(&b, "Created", in.CreatedAt.UTC().Format(time.RFC3339))
	}

	b.WriteString("\n## Tasks & Subtasks\n\n")
	b.WriteString("| Task | Subtask | Hours | Comments |\n|---|---|---:|---|\n")
	for _, t := range in.Estimates.Tasks {
		for _, st := range t.Subtasks {
			row(&b, t.Task, st.Subtask, strconv.Itoa(st.Hours), st.Comments)
		}
	}

	s := in.Estimates.Summary
	b.WriteString("\n## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	row(&b, "Total Tasks", strconv.Itoa(s.NumTasks))
	row(&b, "Total Subtasks", strconv.Itoa(s.NumSubtasks))
	row(&b, "Total Hours", strconv.Itoa(s.TotalHours))

	b.WriteString("\n## Resource Allocation\n\n")
	if !in.Resources.Valid() {
		fmt.Fprintf(&b, "%s\n", cell(in.Resources.Error))
		return b.String()
	}
	b.WriteString("| Role | Engagement Type | Allocation | Units |\n|---|---|---:|---:|\n")
	for _, r := range in.Resources.Roles {
		row(&b, r.Role, r.EngagementType, strconv.Itoa(r.AllocationPercentage)+"%", strconv.Itoa(r.Units))
	}
	return b.String()
}

// HTML renders the markdown report. Raw HTML inside model output is not
// passed through.
func HTML(in Input) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(in)), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

func row(b *strings.Builder, cells ...string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(cell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func cell(s string) string {
	return cellEscaper.Replace(strings.TrimSpace(s))
}
