package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/pipelinebot/internal/gitlab"
)

const shortSHALength = 8

type PipelineReporter struct {
	sessions SessionLookup
}

func NewPipelineReporter(sessions SessionLookup) *PipelineReporter {
	return &PipelineReporter{sessions: sessions}
}

// Report summarizes the newest pipeline of the project. It returns (nil, nil)
// when the project has no pipelines.
func (r *PipelineReporter) Report(ctx context.Context, chatID, projectID int64) (*PipelineSummary, error) {
	api, err := lookupAPI(r.sessions, chatID)
	if err != nil {
		slog.Error("gitlab client not initialized", "chat_id", chatID)
		return nil, err
	}

	pipelines, err := api.ListPipelines(ctx, projectID, 1)
	if err != nil {
		return nil, r.logFailure(chatID, projectID, err)
	}
	if len(pipelines) == 0 {
		return nil, nil
	}
	latest := pipelines[0]

	detail, err := api.GetPipeline(ctx, projectID, latest.ID)
	if err != nil {
		return nil, r.logFailure(chatID, projectID, err)
	}
	jobs, err := api.ListPipelineJobs(ctx, projectID, latest.ID)
	if err != nil {
		return nil, r.logFailure(chatID, projectID, err)
	}

	return &PipelineSummary{
		ID:        latest.ID,
		Status:    latest.Status,
		Ref:       latest.Ref,
		CreatedAt: latest.CreatedAt,
		Duration:  detail.Duration,
		ShortSHA:  shortSHA(latest.SHA),
		WebURL:    latest.WebURL,
		Stages:    summarizeStages(jobs),
	}, nil
}

func (r *PipelineReporter) logFailure(chatID, projectID int64, err error) error {
	if gitlab.IsNotFound(err) {
		slog.Error("gitlab project not found", "chat_id", chatID, "project_id", projectID)
	} else {
		slog.Error("failed to fetch pipeline", "chat_id", chatID, "project_id", projectID, "error", err)
	}
	return fmt.Errorf("pipeline report for project %d: %w", projectID, err)
}

// summarizeStages walks jobs from last to first so stages appear in the order
// their jobs were created.
func summarizeStages(jobs []gitlab.Job) []StageSummary {
	index := make(map[string]int)
	var stages []StageSummary
	for i := len(jobs) - 1; i >= 0; i-- {
		job := jobs[i]
		pos, ok := index[job.Stage]
		if !ok {
			pos = len(stages)
			index[job.Stage] = pos
			stages = append(stages, StageSummary{Name: job.Stage})
		}
		st := &stages[pos]
		st.Total++
		switch job.Status {
		case "success":
			st.Success++
		case "failed":
			st.Failed++
		case "running":
			st.Running++
		case "pending":
			st.Pending++
		default:
			st.Other++
		}
	}
	return stages
}

func shortSHA(sha string) string {
	if len(sha) <= shortSHALength {
		return sha
	}
	return sha[:shortSHALength]
}
