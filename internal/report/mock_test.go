package report

import (
	"context"

	"github.com/foxseedlab/pipelinebot/internal/gitlab"
	"github.com/foxseedlab/pipelinebot/internal/session"
)

type mockAPI struct {
	pipelines    []gitlab.Pipeline
	pipeline     *gitlab.Pipeline
	jobs         []gitlab.Job
	mergeReqs    []gitlab.MergeRequest
	mergeReq     *gitlab.MergeRequest
	notes        []gitlab.Note
	listErr      error
	requestedIID int64
}

func (m *mockAPI) CurrentUser(_ context.Context) (*gitlab.User, error) {
	return &gitlab.User{ID: 1, Username: "bot"}, nil
}

func (m *mockAPI) ListPipelines(_ context.Context, _ int64, _ int) ([]gitlab.Pipeline, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.pipelines, nil
}

func (m *mockAPI) GetPipeline(_ context.Context, _, pipelineID int64) (*gitlab.Pipeline, error) {
	if m.pipeline != nil {
		return m.pipeline, nil
	}
	return &gitlab.Pipeline{ID: pipelineID}, nil
}

func (m *mockAPI) ListPipelineJobs(_ context.Context, _, _ int64) ([]gitlab.Job, error) {
	return m.jobs, nil
}

func (m *mockAPI) ListMergeRequests(_ context.Context, _ int64, _ int) ([]gitlab.MergeRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.mergeReqs, nil
}

func (m *mockAPI) GetMergeRequest(_ context.Context, _, iid int64) (*gitlab.MergeRequest, error) {
	m.requestedIID = iid
	return m.mergeReq, nil
}

func (m *mockAPI) ListMergeRequestNotes(_ context.Context, _, _ int64) ([]gitlab.Note, error) {
	return m.notes, nil
}

type mockSessions map[int64]*session.Session

func (m mockSessions) Lookup(chatID int64) (*session.Session, bool) {
	s, ok := m[chatID]
	return s, ok
}

func sessionsWith(chatID int64, api gitlab.API) mockSessions {
	return mockSessions{chatID: {ChatID: chatID, API: api}}
}
