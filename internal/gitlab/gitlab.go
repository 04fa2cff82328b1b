package gitlab

import (
	"context"
	"time"
)

type User struct {
	ID       int64
	Username string
	Name     string
}

type Pipeline struct {
	ID        int64
	Status    string
	Ref       string
	SHA       string
	WebURL    string
	CreatedAt *time.Time
	// Duration is in seconds; only set on pipeline detail responses.
	Duration int
}

type Job struct {
	ID     int64
	Name   string
	Stage  string
	Status string
}

type MergeRequest struct {
	IID          int64
	Title        string
	State        string
	SourceBranch string
	TargetBranch string
	Author       User
	Reviewers    []User
	Labels       []string
	WebURL       string
	CreatedAt    *time.Time
}

type Note struct {
	ID     int64
	Body   string
	System bool
	Author User
}

// API is the read-only subset of the GitLab REST API the bot needs.
type API interface {
	CurrentUser(ctx context.Context) (*User, error)
	ListPipelines(ctx context.Context, projectID int64, limit int) ([]Pipeline, error)
	GetPipeline(ctx context.Context, projectID, pipelineID int64) (*Pipeline, error)
	ListPipelineJobs(ctx context.Context, projectID, pipelineID int64) ([]Job, error)
	ListMergeRequests(ctx context.Context, projectID int64, limit int) ([]MergeRequest, error)
	GetMergeRequest(ctx context.Context, projectID, iid int64) (*MergeRequest, error)
	ListMergeRequestNotes(ctx context.Context, projectID, iid int64) ([]Note, error)
}

type Authenticator interface {
	// Authenticate verifies the token against the server and returns a client
	// bound to it together with the token owner.
	Authenticate(ctx context.Context, token string) (API, *User, error)
}
