package quality

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joescharf/prbot/internal/models"
	"github.com/joescharf/prbot/internal/sonar"
)

const (
	// CommentMarker identifies quality report comments posted by prbot.
	CommentMarker = "<!-- prbot:quality -->"

	// NoResults is the body used when the server returned no component.
	NoResults = "No SonarQube analysis results found."

	placeholder = "-"
)

// metricLabels lists the report table rows in order.
var metricLabels = []struct {
	Key   string
	Label string
}{
	{models.MetricBugs, "Bugs"},
	{models.MetricVulnerabilities, "Vulnerabilities"},
	{models.MetricSecurityHotspots, "Security Hotspots"},
	{models.MetricTechnicalDebt, "Debt"},
	{models.MetricCodeSmells, "Code Smells"},
	{models.MetricCoverage, "Coverage"},
	{models.MetricDuplication, "Duplications"},
}

// issueGroups lists the issue sections in order.
var issueGroups = []struct {
	Type  models.IssueType
	Label string
}{
	{models.IssueTypeBug, "Bugs"},
	{models.IssueTypeCodeSmell, "Code Smells"},
	{models.IssueTypeVulnerability, "Vulnerabilities"},
	{models.IssueTypeSecurityHotspot, "Security Hotspots"},
}

// MetricRow is one rendered line of the metric table.
type MetricRow struct {
	Label string
	Value string
}

// IssueGroup holds the issues of a single type.
type IssueGroup struct {
	Type   models.IssueType
	Label  string
	Issues []models.Issue
}

// Input is everything the report is built from.
type Input struct {
	ServerURL  string
	ProjectKey string
	Component  *models.Component
	Gate       *models.QualityGate // nil when the gate could not be fetched
	Issues     []models.Issue
	IssuesErr  error
	RunID      string
}

// FormatMetricValue applies the unit suffix for key. Missing values stay "-".
func FormatMetricValue(key, value string) string {
	if value == "" || value == placeholder {
		return placeholder
	}
	switch key {
	case models.MetricTechnicalDebt:
		return value + "min"
	case models.MetricCoverage, models.MetricDuplication:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value + "%"
		}
		return fmt.Sprintf("%.1f%%", f)
	default:
		return value
	}
}

// MetricRows returns the fixed metric table, looking each value up in values.
func MetricRows(values map[string]string) []MetricRow {
	rows := make([]MetricRow, 0, len(metricLabels))
	for _, m := range metricLabels {
		v, ok := values[m.Key]
		if !ok {
			v = placeholder
		}
		rows = append(rows, MetricRow{Label: m.Label, Value: FormatMetricValue(m.Key, v)})
	}
	return rows
}

// FailureLines renders one line per failing gate condition.
func FailureLines(gate *models.QualityGate) []string {
	if gate == nil || !gate.Failed() {
		return nil
	}
	var lines []string
	for _, c := range gate.Conditions {
		if c.Status != models.GateStatusError {
			continue
		}
		symbol := ComparatorSymbol(c.Comparator)
		threshold := c.Threshold()
		lines = append(lines, fmt.Sprintf("- **%s**: %s %s %s (Expected: %s %s)",
			c.MetricKey, c.Actual(), symbol, threshold, ExpectedOperator(symbol), threshold))
	}
	return lines
}

// GroupIssues buckets issues by type in report order, dropping empty groups.
func GroupIssues(issues []models.Issue) []IssueGroup {
	var groups []IssueGroup
	for _, g := range issueGroups {
		var matched []models.Issue
		for _, is := range issues {
			if is.Type == g.Type {
				matched = append(matched, is)
			}
		}
		if len(matched) > 0 {
			groups = append(groups, IssueGroup{Type: g.Type, Label: g.Label, Issues: matched})
		}
	}
	return groups
}

// GateStatus returns the gate status, or UNKNOWN when it is missing.
func GateStatus(gate *models.QualityGate) string {
	if gate == nil || gate.Status == "" {
		return models.GateStatusUnknown
	}
	return gate.Status
}

// Build renders the Markdown report.
func Build(in Input) string {
	if in.Component == nil {
		var b strings.Builder
		b.WriteString(NoResults)
		b.WriteString("\n")
		writeMarker(&b, in.RunID)
		return b.String()
	}

	dashboard := sonar.DashboardURL(in.ServerURL, in.ProjectKey)

	var b strings.Builder
	fmt.Fprintf(&b, "## SonarQube Analysis for [%s](%s)\n\n", in.Component.Name, dashboard)

	if failures := FailureLines(in.Gate); len(failures) > 0 {
		b.WriteString("**Reasons for Failure:**\n")
		for _, line := range failures {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---|\n")
	for _, row := range MetricRows(in.Component.Values()) {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Label, row.Value)
	}

	b.WriteString("\n\n### File-Level Issues\n\n")
	if in.IssuesErr != nil {
		fmt.Fprintf(&b, "Error retrieving file-level issues: %v\n\n", in.IssuesErr)
	} else {
		for _, g := range GroupIssues(in.Issues) {
			fmt.Fprintf(&b, "**%s:**\n", g.Label)
			for _, is := range g.Issues {
				fmt.Fprintf(&b, "- %s in *%s* (%s)\n", is.Message, is.Component, issueLine(is))
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\n[View detailed analysis in SonarQube](%s)\n", dashboard)
	writeMarker(&b, in.RunID)
	return b.String()
}

func writeMarker(b *strings.Builder, runID string) {
	b.WriteString(CommentMarker)
	b.WriteString("\n")
	if runID != "" {
		fmt.Fprintf(b, "<!-- prbot:run %s -->\n", runID)
	}
}

func issueLine(is models.Issue) string {
	if is.Line <= 0 {
		return placeholder
	}
	return strconv.Itoa(is.Line)
}
