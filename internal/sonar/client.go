package sonar

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/joescharf/prbot/internal/models"
	"github.com/joescharf/prbot/internal/transport"
)

var logger = log.WithField("package", "sonar")

// IssuePageSize is the number of issues requested in a single search.
const IssuePageSize = 500

// MetricKeys are the measures requested for the report.
var MetricKeys = []string{
	models.MetricBugs,
	models.MetricVulnerabilities,
	models.MetricSecurityHotspots,
	models.MetricCodeSmells,
	models.MetricTechnicalDebt,
	models.MetricCoverage,
	models.MetricDuplication,
}

// Client reads analysis results from a SonarQube server.
type Client struct {
	baseURL    string
	auth       string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL authenticated with token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		auth:       "Basic " + EncodeToken(token),
		httpClient: &http.Client{},
	}
}

// EncodeToken returns the basic-auth credential for a user token: the token
// is the username and the password is empty.
func EncodeToken(token string) string {
	return base64.StdEncoding.EncodeToString([]byte(token + ":"))
}

// DashboardURL links to the project's dashboard.
func DashboardURL(baseURL, projectKey string) string {
	return fmt.Sprintf("%s/dashboard?id=%s", strings.TrimSuffix(baseURL, "/"), projectKey)
}

// Measures returns the component and its measures for MetricKeys.
func (c *Client) Measures(ctx context.Context, projectKey string) (*models.MeasuresResponse, error) {
	q := url.Values{}
	q.Set("component", projectKey)
	q.Set("metricKeys", strings.Join(MetricKeys, ","))

	var resp models.MeasuresResponse
	if err := c.get(ctx, "fetch measures", "/api/measures/component", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QualityGate returns the quality gate status of the project.
func (c *Client) QualityGate(ctx context.Context, projectKey string) (*models.QualityGate, error) {
	q := url.Values{}
	q.Set("projectKey", projectKey)

	var resp models.QualityGateResponse
	if err := c.get(ctx, "fetch quality gate", "/api/qualitygates/project_status", q, &resp); err != nil {
		return nil, err
	}
	return &resp.ProjectStatus, nil
}

// SearchIssues returns up to IssuePageSize issues of the project.
func (c *Client) SearchIssues(ctx context.Context, projectKey string) ([]models.Issue, error) {
	q := url.Values{}
	q.Set("componentKeys", projectKey)
	q.Set("ps", fmt.Sprint(IssuePageSize))

	var resp models.IssuesResponse
	if err := c.get(ctx, "search issues", "/api/issues/search", q, &resp); err != nil {
		return nil, err
	}
	if resp.Total > len(resp.Issues) {
		logger.Debugf("issue search truncated: %d of %d", len(resp.Issues), resp.Total)
	}
	return resp.Issues, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	u := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.auth)

	logger.WithField("url", u).Debug(op)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if err := transport.CheckResponse(op, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
