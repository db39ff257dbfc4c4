package prompt

import (
	"fmt"
	"strings"
	"time"

	"incorporator/internal/domain"
	"incorporator/internal/flow"
)

// RenderSummary draws the review box: numbered sections followed by the name
// check status.
func RenderSummary(s flow.Summary, check flow.NameCheckView) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Review: " + s.LegalName))
	b.WriteString("\n")
	for i, sec := range s.Sections {
		fmt.Fprintf(&b, "\n%s\n", labelStyle.Render(fmt.Sprintf("%d. %s", i+1, sec.Title)))
		for _, l := range sec.Lines {
			fmt.Fprintf(&b, "   %s\n", l)
		}
	}
	b.WriteString("\n")
	b.WriteString(RenderCheck(check))
	return reviewBox.Render(b.String())
}

// RenderCheck describes the name check in one line.
func RenderCheck(v flow.NameCheckView) string {
	switch v.Status {
	case domain.TaskAvailable:
		return successStyle.Render(fmt.Sprintf("Name check: %s is available", v.Name))
	case domain.TaskUnavailable:
		msg := fmt.Sprintf("Name check: %s is not available", v.Name)
		if len(v.Suggestions) > 0 {
			msg += "; try " + strings.Join(v.Suggestions, ", ")
		}
		return errorStyle.Render(msg)
	case domain.TaskFailed:
		return warningStyle.Render(fmt.Sprintf("Name check: could not verify %s (%s); refresh to retry", v.Name, v.Error))
	case domain.TaskPending:
		return mutedStyle.Render(fmt.Sprintf("Name check: checking %s... %s", v.Name, v.Elapsed.Round(time.Second)))
	default:
		return mutedStyle.Render("Name check: not started")
	}
}
