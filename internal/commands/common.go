package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"taskdeck/internal/controller"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/query"
	"taskdeck/internal/service"
)

// deadlineLayouts are the accepted --due formats, tried in order. Values
// are interpreted in local time and converted to an absolute timestamp.
var deadlineLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339,
}

// parseDeadline converts a --due value to an absolute timestamp.
func parseDeadline(s string) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline: %s (use YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")", s)
}

// selectionFlags holds the common --filter/--sort/--search flags shared by
// the commands that operate on the visible task list.
type selectionFlags struct {
	filter string
	sort   string
	search string
}

func (s *selectionFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.filter, "filter", "", "")
	fs.StringVar(&s.sort, "sort", "", "")
	fs.StringVar(&s.search, "search", "", "")
}

// selection validates the raw flag values at the boundary.
func (s *selectionFlags) selection() (query.Selection, error) {
	f, err := query.ParseFilter(s.filter)
	if err != nil {
		return query.Selection{}, err
	}
	so, err := query.ParseSort(s.sort)
	if err != nil {
		return query.Selection{}, err
	}
	return query.Selection{Filter: f, Sort: so, Search: s.search}, nil
}

// resolveTask maps a 1-based task number in the current selection's view
// onto the task itself. The caller must have refreshed the controller.
func resolveTask(ctrl *controller.Tasks, num int) (controller.TaskView, error) {
	tasks := ctrl.Snapshot().Tasks
	if num < 1 || num > len(tasks) {
		return controller.TaskView{}, service.NewError(service.CodeValidation,
			fmt.Sprintf("task number out of range: %d", num))
	}
	return tasks[num-1], nil
}

// fail prints the user-visible message for err and returns the matching
// exit code.
func fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %s\n", controller.Message(err))
	var se *service.Error
	if errors.As(err, &se) {
		switch se.Code {
		case service.CodeAuth, service.CodeNotAuthenticated:
			return exitcode.AuthError
		case service.CodeValidation, service.CodeNotFound:
			return exitcode.UserError
		default:
			return exitcode.BackendError
		}
	}
	return exitcode.BackendError
}
