package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/prbot/internal/models"
	"github.com/joescharf/prbot/internal/quality"
	"github.com/joescharf/prbot/internal/sonar"
)

const (
	measuresJSON = `{"component":{"key":"acme-api","name":"Acme API","measures":[
		{"metric":"bugs","value":"2"},
		{"metric":"coverage","value":"87.345"},
		{"metric":"sqale_index","value":"120"},
		{"metric":"code_smells","period":{"value":"4"}}
	]}}`
	gateJSON = `{"projectStatus":{"status":"ERROR","conditions":[
		{"status":"ERROR","metricKey":"new_coverage","comparator":"LT","errorThreshold":"80","actualValue":"45.0"},
		{"status":"OK","metricKey":"new_bugs","comparator":"GT","errorThreshold":"0","actualValue":"0"},
		{"status":"ERROR","metricKey":"new_duplicated_lines_density","comparator":"GT","errorThreshold":"3","actualValue":"7.5"}
	]}}`
	issuesJSON = `{"total":3,"issues":[
		{"key":"1","type":"BUG","message":"Null dereference","component":"acme-api:main.go","line":12},
		{"key":"2","type":"BUG","message":"Unchecked error","component":"acme-api:db.go"},
		{"key":"3","type":"CODE_SMELL","message":"Long function","component":"acme-api:handler.go","line":40}
	]}`
)

// sonarServer serves canned responses; a status other than 200 replaces the body.
func sonarServer(t *testing.T, measures, gate, issues int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handle := func(path string, status int, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Basic "+sonar.EncodeToken("squ_test"), r.Header.Get("Authorization"))
			if status != http.StatusOK {
				w.WriteHeader(status)
				fmt.Fprint(w, `{"errors":[{"msg":"denied"}]}`)
				return
			}
			fmt.Fprint(w, body)
		})
	}
	handle("/api/measures/component", measures, measuresJSON)
	handle("/api/qualitygates/project_status", gate, gateJSON)
	handle("/api/issues/search", issues, issuesJSON)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setQualityEnv(t *testing.T, serverURL string) {
	t.Helper()
	setPREnv(t)
	t.Setenv("SONARQUBE_URL", serverURL)
	t.Setenv("SONARQUBE_TOKEN", "squ_test")
	t.Setenv("SONARQUBE_PROJECT_KEY", "acme-api")
}

func TestQualityRun_MissingConfig(t *testing.T) {
	testEnv(t)
	t.Setenv("SONARQUBE_URL", "https://sonar.example.com")
	gh := &fakeGitHub{}
	withFakes(t, gh, &fakeCompleter{})

	err := qualityRun(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SONARQUBE_TOKEN, SONARQUBE_PROJECT_KEY, GITHUB_TOKEN, GITHUB_REPOSITORY, PR_NUMBER")
	assert.NotContains(t, err.Error(), "SONARQUBE_URL")
	assert.Empty(t, gh.created)
}

func TestQualityRun_PostsReport(t *testing.T) {
	_, out := testEnv(t)
	srv := sonarServer(t, http.StatusOK, http.StatusOK, http.StatusOK)
	setQualityEnv(t, srv.URL)
	gh := &fakeGitHub{}
	withFakes(t, gh, &fakeCompleter{})

	require.NoError(t, qualityRun(context.Background()))

	require.Len(t, gh.created, 1)
	body := gh.created[0]
	assert.Contains(t, body, "## SonarQube Analysis for [Acme API]("+srv.URL+"/dashboard?id=acme-api)")
	assert.Contains(t, body, "- **new_coverage**: 45.0 < 80 (Expected: >= 80)")
	assert.Contains(t, body, "- **new_duplicated_lines_density**: 7.5 > 3 (Expected: <= 3)")
	assert.NotContains(t, body, "new_bugs")
	assert.Contains(t, body, "| Bugs | 2 |")
	assert.Contains(t, body, "| Code Smells | 4 |")
	assert.Contains(t, body, "| Coverage | 87.3% |")
	assert.Contains(t, body, "| Debt | 120min |")
	assert.Contains(t, body, "| Vulnerabilities | - |")
	assert.Contains(t, body, "**Bugs:**\n- Null dereference in *acme-api:main.go* (12)\n- Unchecked error in *acme-api:db.go* (-)\n")
	assert.Contains(t, body, "**Code Smells:**\n- Long function in *acme-api:handler.go* (40)\n")
	assert.NotContains(t, body, "**Vulnerabilities:**")
	assert.Contains(t, body, quality.CommentMarker)
	assert.Contains(t, out.String(), "Quality gate: ERROR")
	assert.Contains(t, out.String(), "Comment posted successfully")
}

func TestQualityRun_MeasuresFailureAborts(t *testing.T) {
	_, out := testEnv(t)
	srv := sonarServer(t, http.StatusUnauthorized, http.StatusOK, http.StatusOK)
	setQualityEnv(t, srv.URL)
	gh := &fakeGitHub{}
	withFakes(t, gh, &fakeCompleter{})

	require.NoError(t, qualityRun(context.Background()))
	assert.Empty(t, gh.created)
	assert.Contains(t, out.String(), "status 401")
	assert.Contains(t, out.String(), "Could not retrieve SonarQube analysis results.")
}

func TestQualityRun_GateFailureDegrades(t *testing.T) {
	_, out := testEnv(t)
	srv := sonarServer(t, http.StatusOK, http.StatusInternalServerError, http.StatusOK)
	setQualityEnv(t, srv.URL)
	gh := &fakeGitHub{}
	withFakes(t, gh, &fakeCompleter{})

	require.NoError(t, qualityRun(context.Background()))
	require.Len(t, gh.created, 1)
	assert.NotContains(t, gh.created[0], "Reasons for Failure")
	assert.Contains(t, gh.created[0], "| Bugs | 2 |")
	assert.Contains(t, out.String(), "Quality gate: UNKNOWN")
}

func TestQualityRun_IssuesFailureInline(t *testing.T) {
	testEnv(t)
	srv := sonarServer(t, http.StatusOK, http.StatusOK, http.StatusForbidden)
	setQualityEnv(t, srv.URL)
	gh := &fakeGitHub{}
	withFakes(t, gh, &fakeCompleter{})

	require.NoError(t, qualityRun(context.Background()))
	require.Len(t, gh.created, 1)
	assert.Contains(t, gh.created[0], "Error retrieving file-level issues: search issues: status 403")
	assert.Contains(t, gh.created[0], "[View detailed analysis in SonarQube]")
}

func TestQualityRun_NoComponent(t *testing.T) {
	testEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	t.Cleanup(srv.Close)
	setQualityEnv(t, srv.URL)
	gh := &fakeGitHub{}
	withFakes(t, gh, &fakeCompleter{})

	require.NoError(t, qualityRun(context.Background()))
	require.Len(t, gh.created, 1)
	assert.True(t, strings.HasPrefix(gh.created[0], quality.NoResults))
	assert.Contains(t, gh.created[0], quality.CommentMarker)
}

func TestQualityRun_VerbosePrintsTable(t *testing.T) {
	_, out := testEnv(t)
	srv := sonarServer(t, http.StatusOK, http.StatusOK, http.StatusOK)
	setQualityEnv(t, srv.URL)
	dryRun = true
	ui.DryRun = true
	gh := &fakeGitHub{}
	withFakes(t, gh, &fakeCompleter{})

	require.NoError(t, qualityRun(context.Background()))
	assert.Empty(t, gh.created)
	assert.Contains(t, out.String(), "Debt")
	assert.Contains(t, out.String(), "120min")
	assert.Contains(t, out.String(), "Would post comment on acme/api#7")
}

func TestQualityRun_UpdatesNoResultsComment(t *testing.T) {
	_, out := testEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	t.Cleanup(srv.Close)
	setQualityEnv(t, srv.URL)
	updateComment = true

	gh := &fakeGitHub{existing: &models.Comment{ID: 5, Body: quality.NoResults + "\n" + quality.CommentMarker + "\n"}}
	withFakes(t, gh, &fakeCompleter{})

	require.NoError(t, qualityRun(context.Background()))
	assert.Empty(t, gh.created)
	require.Contains(t, gh.updated, int64(5))
	assert.Contains(t, out.String(), "Comment updated successfully")
}
