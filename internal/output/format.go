// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/controller"
	"taskdeck/internal/query"
	"taskdeck/internal/service"
)

// timeLayout is the display format for deadlines and timestamps.
const timeLayout = "2006-01-02 15:04"

// FormatTask writes one task line.
// Format: "{N:>4}  [ ] {MARK} {TITLE}{DEADLINE}\n" where MARK is "!" for
// overdue, "*" for due-soon and a space otherwise.
func FormatTask(w io.Writer, num int, v controller.TaskView) {
	box := "[ ]"
	if v.Completed {
		box = "[x]"
	}

	mark := " "
	switch v.State {
	case query.Overdue:
		mark = "!"
	case query.UpcomingSoon:
		mark = "*"
	}

	line := fmt.Sprintf("%4d  %s %s %s", num, box, mark, normalizeTitle(v.Title))
	if v.Deadline != nil {
		line += fmt.Sprintf("  (due %s)", v.Deadline.Format(timeLayout))
	}
	fmt.Fprintln(w, line)
}

// FormatTaskDetail writes the expanded view of a task: title line,
// description, and timestamps.
func FormatTaskDetail(w io.Writer, num int, v controller.TaskView) {
	FormatTask(w, num, v)
	if v.Description != "" {
		fmt.Fprintf(w, "      %s\n", normalizeTitle(v.Description))
	}
	fmt.Fprintf(w, "      created %s", v.CreatedAt.Format(timeLayout))
	if !v.UpdatedAt.Equal(v.CreatedAt) {
		fmt.Fprintf(w, ", updated %s", v.UpdatedAt.Format(timeLayout))
	}
	fmt.Fprintln(w)
}

// FormatStats writes the aggregate counts, one per line.
func FormatStats(w io.Writer, st service.TaskStats) {
	fmt.Fprintf(w, "total        %d\n", st.Total)
	fmt.Fprintf(w, "completed    %d\n", st.Completed)
	fmt.Fprintf(w, "incomplete   %d\n", st.Incomplete)
	fmt.Fprintf(w, "overdue      %d\n", st.Overdue)
	fmt.Fprintf(w, "due today    %d\n", st.DueToday)
	fmt.Fprintf(w, "next 24h     %d\n", st.Upcoming24h)
	fmt.Fprintf(w, "no deadline  %d\n", st.NoDeadline)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
