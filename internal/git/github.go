package git

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	log "github.com/sirupsen/logrus"

	"github.com/joescharf/prbot/internal/models"
	"github.com/joescharf/prbot/internal/transport"
)

var logger = log.WithField("package", "git")

const filesPerPage = 100

// GitHubClient is the subset of the GitHub REST API used by prbot.
type GitHubClient interface {
	PullRequestFiles(ctx context.Context, repo string, number int) ([]models.ChangedFile, error)
	CreateComment(ctx context.Context, repo string, number int, body string) (*models.Comment, error)
	FindComment(ctx context.Context, repo string, number int, marker string) (*models.Comment, error)
	UpdateComment(ctx context.Context, repo string, commentID int64, body string) (*models.Comment, error)
}

// RealGitHubClient implements GitHubClient using go-github.
type RealGitHubClient struct {
	client *github.Client
}

var _ GitHubClient = (*RealGitHubClient)(nil)

// NewGitHubClient returns a client authenticated with token. An empty baseURL
// targets api.github.com.
func NewGitHubClient(token, baseURL string) (*RealGitHubClient, error) {
	client := github.NewClient(nil).WithAuthToken(token)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse github api url: %w", err)
		}
		client.BaseURL = u
	}
	return &RealGitHubClient{client: client}, nil
}

// PullRequestFiles lists the files changed by a pull request, following pagination.
func (c *RealGitHubClient) PullRequestFiles(ctx context.Context, repo string, number int) ([]models.ChangedFile, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &github.ListOptions{PerPage: filesPerPage}
	var files []models.ChangedFile
	for {
		page, resp, err := c.client.PullRequests.ListFiles(ctx, owner, name, number, opts)
		if err != nil {
			return nil, wrapError("fetch pull request files", resp, err)
		}
		for _, f := range page {
			files = append(files, models.ChangedFile{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Patch:     f.GetPatch(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.WithField("repo", repo).WithField("pr", number).Debugf("fetched %d changed files", len(files))
	return files, nil
}

// CreateComment posts a new comment on a pull request. Anything but 201 Created
// is reported as a *transport.Error.
func (c *RealGitHubClient) CreateComment(ctx context.Context, repo string, number int, body string) (*models.Comment, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	created, resp, err := c.client.Issues.CreateComment(ctx, owner, name, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, wrapError("post comment", resp, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, &transport.Error{
			Op:         "post comment",
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("expected 201 Created, got %s (comment id %d)", resp.Status, created.GetID()),
		}
	}

	logger.WithField("id", created.GetID()).Debug("created comment")
	return toComment(created), nil
}

// FindComment returns the first comment on the pull request containing marker,
// or nil when there is none.
func (c *RealGitHubClient) FindComment(ctx context.Context, repo string, number int, marker string) (*models.Comment, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: filesPerPage},
	}
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, name, number, opts)
		if err != nil {
			return nil, wrapError("list comments", resp, err)
		}
		for _, ic := range comments {
			if strings.Contains(ic.GetBody(), marker) {
				return toComment(ic), nil
			}
		}
		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

// UpdateComment replaces the body of an existing comment.
func (c *RealGitHubClient) UpdateComment(ctx context.Context, repo string, commentID int64, body string) (*models.Comment, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	edited, resp, err := c.client.Issues.EditComment(ctx, owner, name, commentID, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, wrapError("update comment", resp, err)
	}
	return toComment(edited), nil
}

func toComment(ic *github.IssueComment) *models.Comment {
	return &models.Comment{
		ID:      ic.GetID(),
		Body:    ic.GetBody(),
		HTMLURL: ic.GetHTMLURL(),
	}
}

// wrapError turns a go-github failure with an HTTP response into a *transport.Error.
func wrapError(op string, resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil || (resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return fmt.Errorf("%s: %w", op, err)
	}
	te := &transport.Error{Op: op, StatusCode: resp.StatusCode, Body: err.Error()}
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Message != "" {
		te.Body = er.Message
	}
	return te
}
