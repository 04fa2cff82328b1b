package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/foxseedlab/pipelinebot/internal/gitlab"
	gitlabapi "gitlab.com/gitlab-org/api/client-go"
)

const (
	jobsPerPage  = 100
	notesPerPage = 100
)

type Authenticator struct {
	baseURL    string
	httpClient *http.Client
}

func NewAuthenticator(baseURL string) gitlab.Authenticator {
	return &Authenticator{baseURL: baseURL}
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (gitlab.API, *gitlab.User, error) {
	c, err := a.newClient(token)
	if err != nil {
		return nil, nil, err
	}
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c, user, nil
}

func (a *Authenticator) newClient(token string) (*Client, error) {
	opts := []gitlabapi.ClientOptionFunc{gitlabapi.WithBaseURL(a.baseURL)}
	if a.httpClient != nil {
		opts = append(opts, gitlabapi.WithHTTPClient(a.httpClient))
	}
	api, err := gitlabapi.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return &Client{api: api}, nil
}

type Client struct {
	api *gitlabapi.Client
}

func (c *Client) CurrentUser(ctx context.Context) (*gitlab.User, error) {
	u, _, err := c.api.Users.CurrentUser(gitlabapi.WithContext(ctx))
	if err != nil {
		return nil, translateError("get current user", err)
	}
	return &gitlab.User{ID: int64(u.ID), Username: u.Username, Name: u.Name}, nil
}

func (c *Client) ListPipelines(ctx context.Context, projectID int64, limit int) ([]gitlab.Pipeline, error) {
	opt := &gitlabapi.ListProjectPipelinesOptions{
		ListOptions: gitlabapi.ListOptions{PerPage: limit, Page: 1},
	}
	pipelines, _, err := c.api.Pipelines.ListProjectPipelines(int(projectID), opt, gitlabapi.WithContext(ctx))
	if err != nil {
		return nil, translateError("list pipelines", err)
	}
	out := make([]gitlab.Pipeline, 0, len(pipelines))
	for _, p := range pipelines {
		if p == nil {
			continue
		}
		out = append(out, gitlab.Pipeline{
			ID:        int64(p.ID),
			Status:    p.Status,
			Ref:       p.Ref,
			SHA:       p.SHA,
			WebURL:    p.WebURL,
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

func (c *Client) GetPipeline(ctx context.Context, projectID, pipelineID int64) (*gitlab.Pipeline, error) {
	p, _, err := c.api.Pipelines.GetPipeline(int(projectID), int(pipelineID), gitlabapi.WithContext(ctx))
	if err != nil {
		return nil, translateError("get pipeline", err)
	}
	return &gitlab.Pipeline{
		ID:        int64(p.ID),
		Status:    p.Status,
		Ref:       p.Ref,
		SHA:       p.SHA,
		WebURL:    p.WebURL,
		CreatedAt: p.CreatedAt,
		Duration:  int(p.Duration),
	}, nil
}

func (c *Client) ListPipelineJobs(ctx context.Context, projectID, pipelineID int64) ([]gitlab.Job, error) {
	opt := &gitlabapi.ListJobsOptions{
		ListOptions: gitlabapi.ListOptions{PerPage: jobsPerPage, Page: 1},
	}
	var out []gitlab.Job
	for {
		jobs, resp, err := c.api.Jobs.ListPipelineJobs(int(projectID), int(pipelineID), opt, gitlabapi.WithContext(ctx))
		if err != nil {
			return nil, translateError("list pipeline jobs", err)
		}
		for _, j := range jobs {
			if j == nil {
				continue
			}
			out = append(out, gitlab.Job{ID: int64(j.ID), Name: j.Name, Stage: j.Stage, Status: j.Status})
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opt.Page = resp.NextPage
	}
}

func (c *Client) ListMergeRequests(ctx context.Context, projectID int64, limit int) ([]gitlab.MergeRequest, error) {
	opt := &gitlabapi.ListProjectMergeRequestsOptions{
		ListOptions: gitlabapi.ListOptions{PerPage: limit, Page: 1},
		State:       gitlabapi.Ptr("all"),
		OrderBy:     gitlabapi.Ptr("created_at"),
		Sort:        gitlabapi.Ptr("desc"),
	}
	mrs, _, err := c.api.MergeRequests.ListProjectMergeRequests(int(projectID), opt, gitlabapi.WithContext(ctx))
	if err != nil {
		return nil, translateError("list merge requests", err)
	}
	out := make([]gitlab.MergeRequest, 0, len(mrs))
	for _, mr := range mrs {
		if mr == nil {
			continue
		}
		out = append(out, gitlab.MergeRequest{
			IID:          int64(mr.IID),
			Title:        mr.Title,
			State:        mr.State,
			SourceBranch: mr.SourceBranch,
			TargetBranch: mr.TargetBranch,
			Author:       toUser(mr.Author),
			WebURL:       mr.WebURL,
			CreatedAt:    mr.CreatedAt,
		})
	}
	return out, nil
}

func (c *Client) GetMergeRequest(ctx context.Context, projectID, iid int64) (*gitlab.MergeRequest, error) {
	mr, _, err := c.api.MergeRequests.GetMergeRequest(int(projectID), int(iid), nil, gitlabapi.WithContext(ctx))
	if err != nil {
		return nil, translateError("get merge request", err)
	}
	reviewers := make([]gitlab.User, 0, len(mr.Reviewers))
	for _, r := range mr.Reviewers {
		if r == nil {
			continue
		}
		reviewers = append(reviewers, toUser(r))
	}
	labels := make([]string, 0, len(mr.Labels))
	labels = append(labels, mr.Labels...)
	return &gitlab.MergeRequest{
		IID:          int64(mr.IID),
		Title:        mr.Title,
		State:        mr.State,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		Author:       toUser(mr.Author),
		Reviewers:    reviewers,
		Labels:       labels,
		WebURL:       mr.WebURL,
		CreatedAt:    mr.CreatedAt,
	}, nil
}

func (c *Client) ListMergeRequestNotes(ctx context.Context, projectID, iid int64) ([]gitlab.Note, error) {
	opt := &gitlabapi.ListMergeRequestNotesOptions{
		ListOptions: gitlabapi.ListOptions{PerPage: notesPerPage, Page: 1},
	}
	var out []gitlab.Note
	for {
		notes, resp, err := c.api.Notes.ListMergeRequestNotes(int(projectID), int(iid), opt, gitlabapi.WithContext(ctx))
		if err != nil {
			return nil, translateError("list merge request notes", err)
		}
		for _, n := range notes {
			if n == nil {
				continue
			}
			out = append(out, gitlab.Note{
				ID:     int64(n.ID),
				Body:   n.Body,
				System: n.System,
				Author: gitlab.User{
					ID:       int64(n.Author.ID),
					Username: n.Author.Username,
					Name:     n.Author.Name,
				},
			})
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opt.Page = resp.NextPage
	}
}

func toUser(u *gitlabapi.BasicUser) gitlab.User {
	if u == nil {
		return gitlab.User{}
	}
	return gitlab.User{ID: int64(u.ID), Username: u.Username, Name: u.Name}
}

// translateError maps SDK failures onto gitlab.APIError. The SDK reports every
// 404 as the bare gitlabapi.ErrNotFound sentinel rather than an ErrorResponse.
func translateError(op string, err error) error {
	if errors.Is(err, gitlabapi.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, &gitlab.APIError{
			StatusCode: http.StatusNotFound,
			Message:    err.Error(),
		})
	}
	var errResp *gitlabapi.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return fmt.Errorf("%s: %w", op, &gitlab.APIError{
			StatusCode: errResp.Response.StatusCode,
			Message:    errResp.Message,
		})
	}
	return fmt.Errorf("%s: %w", op, err)
}
