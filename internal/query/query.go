package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskdeck/internal/service"
)

// Filter narrows the visible task set. Filters are mutually exclusive and
// applied before search.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterIncomplete Filter = "incomplete"
	FilterComplete   Filter = "complete"
	FilterOverdue    Filter = "overdue"
	FilterUpcoming   Filter = "upcoming"
	FilterNoDeadline Filter = "no-deadline"
)

// Filters lists the valid filter values in display order.
var Filters = []Filter{
	FilterAll, FilterIncomplete, FilterComplete,
	FilterOverdue, FilterUpcoming, FilterNoDeadline,
}

// ParseFilter validates a raw filter value. An empty string means all.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if Filter(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}

// Sort selects the ordering of the visible task set.
type Sort string

const (
	SortCreatedDesc  Sort = "created_desc"
	SortCreatedAsc   Sort = "created_asc"
	SortTitleAsc     Sort = "title_asc"
	SortTitleDesc    Sort = "title_desc"
	SortStatus       Sort = "status"
	SortDeadlineAsc  Sort = "deadline_asc"
	SortDeadlineDesc Sort = "deadline_desc"
)

// Sorts lists the valid sort values in display order.
var Sorts = []Sort{
	SortCreatedDesc, SortCreatedAsc, SortTitleAsc, SortTitleDesc,
	SortStatus, SortDeadlineAsc, SortDeadlineDesc,
}

// ParseSort validates a raw sort value. An empty string means created_desc.
func ParseSort(s string) (Sort, error) {
	if s == "" {
		return SortCreatedDesc, nil
	}
	for _, v := range Sorts {
		if Sort(s) == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid sort: %s", s)
}

// Selection is the (filter, sort, search) triple governing which tasks are
// shown and in what order. The zero value is not valid; use DefaultSelection.
type Selection struct {
	Filter Filter
	Sort   Sort
	Search string
}

// DefaultSelection shows everything, newest first.
func DefaultSelection() Selection {
	return Selection{Filter: FilterAll, Sort: SortCreatedDesc}
}

// Select applies the selection to tasks and returns a new ordered slice.
// The input is never mutated. Enumerated values are assumed valid; invalid
// ones must be rejected at the boundary via ParseFilter/ParseSort.
func Select(tasks []service.Task, sel Selection, now time.Time) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	needle := strings.ToLower(strings.TrimSpace(sel.Search))
	for _, t := range tasks {
		if !matchFilter(t, sel.Filter, now) {
			continue
		}
		if needle != "" && !matchSearch(t, needle) {
			continue
		}
		out = append(out, t)
	}
	sortTasks(out, sel.Sort)
	return out
}

func matchFilter(t service.Task, f Filter, now time.Time) bool {
	switch f {
	case FilterIncomplete:
		return !t.Completed
	case FilterComplete:
		return t.Completed
	case FilterOverdue:
		return Classify(t.Deadline, t.Completed, now) == Overdue
	case FilterUpcoming:
		return Classify(t.Deadline, t.Completed, now) == UpcomingSoon
	case FilterNoDeadline:
		return t.Deadline == nil
	default:
		return true
	}
}

func matchSearch(t service.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func sortTasks(tasks []service.Task, s Sort) {
	sort.Slice(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j], s)
	})
}

// less is a total order: every comparator falls through to created_at
// ascending and then ID so equal keys still order deterministically.
func less(a, b service.Task, s Sort) bool {
	switch s {
	case SortCreatedAsc:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case SortCreatedDesc:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case SortTitleAsc, SortTitleDesc:
		ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if ta != tb {
			if s == SortTitleAsc {
				return ta < tb
			}
			return ta > tb
		}
	case SortStatus:
		// Incomplete before complete; newest first within each group.
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case SortDeadlineAsc, SortDeadlineDesc:
		// Tasks without a deadline sort after all tasks with one,
		// regardless of direction.
		switch {
		case a.Deadline == nil && b.Deadline != nil:
			return false
		case a.Deadline != nil && b.Deadline == nil:
			return true
		case a.Deadline != nil && b.Deadline != nil:
			if !a.Deadline.Equal(*b.Deadline) {
				if s == SortDeadlineAsc {
					return a.Deadline.Before(*b.Deadline)
				}
				return a.Deadline.After(*b.Deadline)
			}
		}
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
