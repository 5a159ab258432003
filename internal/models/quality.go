package models

// Metric keys requested from the quality server, in report order.
const (
	MetricBugs             = "bugs"
	MetricVulnerabilities  = "vulnerabilities"
	MetricSecurityHotspots = "security_hotspots"
	MetricTechnicalDebt    = "sqale_index"
	MetricCodeSmells       = "code_smells"
	MetricCoverage         = "coverage"
	MetricDuplication      = "duplicated_lines_density"
)

// Gate statuses reported by the quality server.
const (
	GateStatusOK      = "OK"
	GateStatusError   = "ERROR"
	GateStatusUnknown = "UNKNOWN"
)

// IssueType classifies a static-analysis issue.
type IssueType string

const (
	IssueTypeBug             IssueType = "BUG"
	IssueTypeCodeSmell       IssueType = "CODE_SMELL"
	IssueTypeVulnerability   IssueType = "VULNERABILITY"
	IssueTypeSecurityHotspot IssueType = "SECURITY_HOTSPOT"
)

// PeriodValue holds a value measured over the new-code period.
type PeriodValue struct {
	Value string `json:"value"`
}

// Measure is a single metric value for a component.
type Measure struct {
	Metric string       `json:"metric"`
	Value  string       `json:"value,omitempty"`
	Period *PeriodValue `json:"period,omitempty"`
}

// Resolved returns the overall value, falling back to the new-code period
// value, then to "-".
func (m Measure) Resolved() string {
	if m.Value != "" {
		return m.Value
	}
	if m.Period != nil && m.Period.Value != "" {
		return m.Period.Value
	}
	return "-"
}

// Component is the project analysed by the quality server.
type Component struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Measures []Measure `json:"measures"`
}

// MeasuresResponse is the body of /api/measures/component.
type MeasuresResponse struct {
	Component *Component `json:"component"`
}

// Values returns the measures keyed by metric.
func (c *Component) Values() map[string]string {
	values := make(map[string]string, len(c.Measures))
	for _, m := range c.Measures {
		values[m.Metric] = m.Resolved()
	}
	return values
}

// Condition is one threshold rule of a quality gate.
type Condition struct {
	Status         string       `json:"status"`
	MetricKey      string       `json:"metricKey"`
	Comparator     string       `json:"comparator"`
	ErrorThreshold string       `json:"errorThreshold,omitempty"`
	ActualValue    string       `json:"actualValue,omitempty"`
	Period         *PeriodValue `json:"period,omitempty"`
}

// Actual returns the measured value, falling back to the period value, then "-".
func (c Condition) Actual() string {
	if c.ActualValue != "" {
		return c.ActualValue
	}
	if c.Period != nil && c.Period.Value != "" {
		return c.Period.Value
	}
	return "-"
}

// Threshold returns the error threshold or "-".
func (c Condition) Threshold() string {
	if c.ErrorThreshold == "" {
		return "-"
	}
	return c.ErrorThreshold
}

// QualityGate is the verdict for a project.
type QualityGate struct {
	Status     string      `json:"status"`
	Conditions []Condition `json:"conditions"`
}

// Failed reports whether the gate is in a failing state.
func (g QualityGate) Failed() bool {
	return g.Status == GateStatusError
}

// QualityGateResponse is the body of /api/qualitygates/project_status.
type QualityGateResponse struct {
	ProjectStatus QualityGate `json:"projectStatus"`
}

// Issue is a static-analysis finding.
type Issue struct {
	Key       string    `json:"key"`
	Type      IssueType `json:"type"`
	Severity  string    `json:"severity,omitempty"`
	Message   string    `json:"message"`
	Component string    `json:"component"`
	Line      int       `json:"line,omitempty"`
}

// IssuesResponse is the body of /api/issues/search.
type IssuesResponse struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}
