package report

import (
	"errors"
	"time"

	"github.com/foxseedlab/pipelinebot/internal/gitlab"
	"github.com/foxseedlab/pipelinebot/internal/session"
)

var (
	ErrSessionNotInitialized  = errors.New("gitlab client not initialized for chat")
	ErrNotEnoughMergeRequests = errors.New("not enough merge requests")
)

// SessionLookup is satisfied by *session.Registry.
type SessionLookup interface {
	Lookup(chatID int64) (*session.Session, bool)
}

type StageSummary struct {
	Name    string
	Total   int
	Success int
	Failed  int
	Running int
	Pending int
	// Other counts every status outside the four above (canceled, skipped,
	// manual, created) so the counts always add up to Total.
	Other int
}

type PipelineSummary struct {
	ID        int64
	Status    string
	Ref       string
	CreatedAt *time.Time
	Duration  int
	ShortSHA  string
	WebURL    string
	Stages    []StageSummary
}

type ReviewerComments struct {
	Reviewer string
	Lines    []string
}

type MergeRequestReport struct {
	IID          int64
	Title        string
	Author       string
	State        string
	SourceBranch string
	TargetBranch string
	Reviewers    []string
	Labels       []string
	WebURL       string
	// HasNotes is false when the merge request has no notes at all, including
	// system notes.
	HasNotes bool
	Comments []ReviewerComments
}

func lookupAPI(sessions SessionLookup, chatID int64) (gitlab.API, error) {
	s, ok := sessions.Lookup(chatID)
	if !ok || s == nil || s.API == nil {
		return nil, ErrSessionNotInitialized
	}
	return s.API, nil
}
