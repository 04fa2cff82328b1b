package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/pipelinebot/internal/gitlab"
)

const (
	mergeRequestFetchLimit = 50
	minMergeRequests       = 2
)

type MergeRequestReporter struct {
	sessions SessionLookup
}

func NewMergeRequestReporter(sessions SessionLookup) *MergeRequestReporter {
	return &MergeRequestReporter{sessions: sessions}
}

// Report describes the newest merge request of the project together with its
// reviewer comments. At least two merge requests must exist.
//
// NOTE: /mr is advertised as "second-to-last MR" but has always shown the
// newest one; product has not decided which is intended.
func (r *MergeRequestReporter) Report(ctx context.Context, chatID, projectID int64) (*MergeRequestReport, error) {
	api, err := lookupAPI(r.sessions, chatID)
	if err != nil {
		slog.Error("gitlab client not initialized", "chat_id", chatID)
		return nil, err
	}

	mrs, err := api.ListMergeRequests(ctx, projectID, mergeRequestFetchLimit)
	if err != nil {
		return nil, r.logFailure(chatID, projectID, err)
	}
	if len(mrs) < minMergeRequests {
		return nil, ErrNotEnoughMergeRequests
	}

	mr, err := api.GetMergeRequest(ctx, projectID, mrs[0].IID)
	if err != nil {
		return nil, r.logFailure(chatID, projectID, err)
	}
	notes, err := api.ListMergeRequestNotes(ctx, projectID, mr.IID)
	if err != nil {
		return nil, r.logFailure(chatID, projectID, err)
	}

	rep := &MergeRequestReport{
		IID:          mr.IID,
		Title:        mr.Title,
		Author:       mr.Author.Username,
		State:        mr.State,
		SourceBranch: mr.SourceBranch,
		TargetBranch: mr.TargetBranch,
		Labels:       mr.Labels,
		WebURL:       mr.WebURL,
		HasNotes:     len(notes) > 0,
		Comments:     groupReviewerComments(mr.Author.ID, notes),
	}
	for _, reviewer := range mr.Reviewers {
		rep.Reviewers = append(rep.Reviewers, reviewer.Username)
	}
	return rep, nil
}

func (r *MergeRequestReporter) logFailure(chatID, projectID int64, err error) error {
	if gitlab.IsNotFound(err) {
		slog.Error("gitlab project not found", "chat_id", chatID, "project_id", projectID)
	} else {
		slog.Error("failed to fetch merge request", "chat_id", chatID, "project_id", projectID, "error", err)
	}
	return fmt.Errorf("merge request report for project %d: %w", projectID, err)
}

// groupReviewerComments drops system notes and the author's own notes and
// groups the rest by reviewer in first-seen order.
func groupReviewerComments(authorID int64, notes []gitlab.Note) []ReviewerComments {
	ex := newExcerpter()
	index := make(map[string]int)
	var groups []ReviewerComments
	for _, note := range notes {
		if note.System || note.Author.ID == authorID {
			continue
		}
		key := reviewerKey(note.Author)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, ReviewerComments{Reviewer: key})
		}
		groups[pos].Lines = append(groups[pos].Lines, ex.lines(note.Body)...)
	}
	return groups
}

func reviewerKey(u gitlab.User) string {
	return u.Name + " - " + u.Username
}
