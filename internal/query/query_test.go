package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/service"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func task(id, title string, created time.Time, deadline *time.Time, completed bool) service.Task {
	return service.Task{
		ID:        id,
		Title:     title,
		CreatedAt: created,
		UpdatedAt: created,
		Deadline:  deadline,
		Completed: completed,
	}
}

func ids(tasks []service.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sampleTasks() []service.Task {
	t1 := now.Add(-3 * time.Hour)
	t2 := now.Add(-2 * time.Hour)
	t3 := now.Add(-1 * time.Hour)
	return []service.Task{
		task("a", "Buy milk", t1, tp(now.Add(-time.Hour)), false),                     // overdue
		task("b", "Bread", t2, tp(now.Add(2*time.Hour)), false),                       // upcoming
		task("c", "Call mom", t3, nil, false),                                         // no deadline
		task("d", "File taxes", t1.Add(time.Minute), tp(now.Add(-2*time.Hour)), true), // completed, past deadline
		task("e", "Plan trip", t2.Add(time.Minute), tp(now.Add(72*time.Hour)), false), // scheduled
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	for _, valid := range Filters {
		_, err := ParseFilter(string(valid))
		assert.NoError(t, err)
	}

	_, err = ParseFilter("bogus")
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	s, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortCreatedDesc, s)

	for _, valid := range Sorts {
		_, err := ParseSort(string(valid))
		assert.NoError(t, err)
	}

	_, err = ParseSort("bogus")
	assert.Error(t, err)
}

func TestSelect_FilterOverdue(t *testing.T) {
	got := Select(sampleTasks(), Selection{Filter: FilterOverdue, Sort: SortCreatedAsc}, now)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestSelect_FilterUpcoming(t *testing.T) {
	got := Select(sampleTasks(), Selection{Filter: FilterUpcoming, Sort: SortCreatedAsc}, now)
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestSelect_FilterNoDeadline(t *testing.T) {
	got := Select(sampleTasks(), Selection{Filter: FilterNoDeadline, Sort: SortCreatedAsc}, now)
	assert.Equal(t, []string{"c"}, ids(got))
}

func TestSelect_FilterCompleteIncomplete(t *testing.T) {
	got := Select(sampleTasks(), Selection{Filter: FilterComplete, Sort: SortCreatedAsc}, now)
	assert.Equal(t, []string{"d"}, ids(got))

	got = Select(sampleTasks(), Selection{Filter: FilterIncomplete, Sort: SortCreatedAsc}, now)
	assert.Equal(t, []string{"a", "b", "e", "c"}, ids(got))
}

func TestSelect_SearchTrimmedCaseInsensitive(t *testing.T) {
	got := Select(sampleTasks(), Selection{Filter: FilterAll, Sort: SortCreatedAsc, Search: "  Milk  "}, now)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestSelect_SearchMatchesDescription(t *testing.T) {
	tasks := sampleTasks()
	tasks[2].Description = "about the milk delivery"
	got := Select(tasks, Selection{Filter: FilterAll, Sort: SortCreatedAsc, Search: "milk"}, now)
	assert.Equal(t, []string{"a", "c"}, ids(got))
}

func TestSelect_BlankSearchMatchesAll(t *testing.T) {
	got := Select(sampleTasks(), Selection{Filter: FilterAll, Sort: SortCreatedAsc, Search: "   "}, now)
	assert.Len(t, got, 5)
}

func TestSelect_CreatedOrder(t *testing.T) {
	t1 := now.Add(-3 * time.Hour)
	t2 := now.Add(-2 * time.Hour)
	t3 := now.Add(-1 * time.Hour)
	tasks := []service.Task{
		task("x", "one", t2, nil, false),
		task("y", "two", t3, nil, false),
		task("z", "three", t1, nil, false),
	}

	asc := Select(tasks, Selection{Filter: FilterAll, Sort: SortCreatedAsc}, now)
	assert.Equal(t, []string{"z", "x", "y"}, ids(asc))

	desc := Select(tasks, Selection{Filter: FilterAll, Sort: SortCreatedDesc}, now)
	assert.Equal(t, []string{"y", "x", "z"}, ids(desc))
}

func TestSelect_TitleOrderCaseInsensitive(t *testing.T) {
	t1 := now.Add(-time.Hour)
	tasks := []service.Task{
		task("a", "banana", t1, nil, false),
		task("b", "Apple", t1.Add(time.Minute), nil, false),
		task("c", "cherry", t1.Add(2*time.Minute), nil, false),
	}

	asc := Select(tasks, Selection{Filter: FilterAll, Sort: SortTitleAsc}, now)
	assert.Equal(t, []string{"b", "a", "c"}, ids(asc))

	desc := Select(tasks, Selection{Filter: FilterAll, Sort: SortTitleDesc}, now)
	assert.Equal(t, []string{"c", "a", "b"}, ids(desc))
}

func TestSelect_StatusOrder(t *testing.T) {
	got := Select(sampleTasks(), Selection{Filter: FilterAll, Sort: SortStatus}, now)

	// All incomplete tasks precede all complete ones.
	seenComplete := false
	for _, task := range got {
		if task.Completed {
			seenComplete = true
		} else {
			assert.False(t, seenComplete, "incomplete task after a complete one")
		}
	}

	// Within the incomplete group, newest first.
	assert.Equal(t, []string{"c", "e", "b", "a", "d"}, ids(got))
}

func TestSelect_DeadlineOrderNoDeadlineLast(t *testing.T) {
	asc := Select(sampleTasks(), Selection{Filter: FilterAll, Sort: SortDeadlineAsc}, now)
	assert.Equal(t, []string{"d", "a", "b", "e", "c"}, ids(asc))

	desc := Select(sampleTasks(), Selection{Filter: FilterAll, Sort: SortDeadlineDesc}, now)
	// Reversing direction reverses only the deadline-bearing prefix.
	assert.Equal(t, []string{"e", "b", "a", "d", "c"}, ids(desc))
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	orig := ids(tasks)
	_ = Select(tasks, Selection{Filter: FilterAll, Sort: SortTitleDesc}, now)
	assert.Equal(t, orig, ids(tasks))
}

func TestSelect_TieBreakDeterministic(t *testing.T) {
	t1 := now.Add(-time.Hour)
	tasks := []service.Task{
		task("b", "same", t1, nil, false),
		task("a", "same", t1, nil, false),
		task("c", "same", t1, nil, false),
	}
	got := Select(tasks, Selection{Filter: FilterAll, Sort: SortTitleAsc}, now)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}
