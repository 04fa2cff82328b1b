package markdown

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/foxseedlab/pipelinebot/internal/report"
)

const notAvailable = "N/A"

func RenderPipeline(s report.PipelineSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚀 *Pipeline #%s*\n\n", Escape(strconv.FormatInt(s.ID, 10)))
	fmt.Fprintf(&b, "*Status:* %s\n", Escape(s.Status))
	fmt.Fprintf(&b, "*Branch:* `%s`\n", Escape(s.Ref))
	fmt.Fprintf(&b, "*Created:* %s\n", Escape(formatTime(s.CreatedAt)))
	fmt.Fprintf(&b, "*Duration:* %d sec\n", s.Duration)
	fmt.Fprintf(&b, "*SHA:* `%s`\n\n", Escape(s.ShortSHA))

	if len(s.Stages) > 0 {
		b.WriteString("*Stages:*\n")
		for _, st := range s.Stages {
			fmt.Fprintf(&b, "*%s*\n", strings.ToUpper(Escape(st.Name)))
			fmt.Fprintf(&b, "  ✅ Success: %d\n", st.Success)
			fmt.Fprintf(&b, "  ❌ Failed: %d\n", st.Failed)
			fmt.Fprintf(&b, "  🔄 Running: %d\n", st.Running)
			fmt.Fprintf(&b, "  ⏳ Pending: %d\n", st.Pending)
			if st.Other > 0 {
				fmt.Fprintf(&b, "  ⚪ Other: %d\n", st.Other)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "🔗 [Open pipeline](%s)", linkTarget(s.WebURL))
	return b.String()
}

func RenderMergeRequest(r report.MergeRequestReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *MR %s*\n\n", Escape(strconv.FormatInt(r.IID, 10)))
	fmt.Fprintf(&b, "*Title:* %s\n", Escape(r.Title))
	fmt.Fprintf(&b, "*Author:* %s\n", Escape(r.Author))
	fmt.Fprintf(&b, "*Status:* %s %s\n", StateIcon(r.State), Escape(strings.ToUpper(r.State)))
	fmt.Fprintf(&b, "*Branch:* `%s` → `%s`\n", Escape(r.SourceBranch), Escape(r.TargetBranch))
	if len(r.Reviewers) > 0 {
		fmt.Fprintf(&b, "*Reviewers:* %s\n", joinEscaped(r.Reviewers))
	}
	if len(r.Labels) > 0 {
		fmt.Fprintf(&b, "*Labels:* %s\n", joinEscaped(r.Labels))
	}

	switch {
	case !r.HasNotes:
		b.WriteString("\n💬 *Reviewer comments:*\n  No comments\n")
	case len(r.Comments) == 0:
		b.WriteString("\n💬 *Reviewer comments:*\n  No comments from reviewers\n")
	default:
		b.WriteString("\n💬 *Comments:*")
		for _, group := range r.Comments {
			fmt.Fprintf(&b, "\n👤 *%s*:\n", Escape(group.Reviewer))
			for _, line := range group.Lines {
				fmt.Fprintf(&b, "  %s\n", Escape(line))
			}
		}
	}

	fmt.Fprintf(&b, "\n🔗 [Open MR](%s)", linkTarget(r.WebURL))
	return b.String()
}

func StateIcon(state string) string {
	switch state {
	case "opened":
		return "🟢"
	case "merged":
		return "🟣"
	case "closed":
		return "🔴"
	default:
		return "⚪"
	}
}

func joinEscaped(items []string) string {
	escaped := make([]string, 0, len(items))
	for _, item := range items {
		escaped = append(escaped, Escape(item))
	}
	return strings.Join(escaped, ", ")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return notAvailable
	}
	return t.UTC().Format(time.RFC3339)
}

func linkTarget(url string) string {
	if url == "" {
		return "#"
	}
	return url
}
