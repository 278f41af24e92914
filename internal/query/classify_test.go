package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var classifyNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func tp(t time.Time) *time.Time { return &t }

func TestClassify_NoDeadline(t *testing.T) {
	assert.Equal(t, NoDeadline, Classify(nil, false, classifyNow))
	assert.Equal(t, NoDeadline, Classify(nil, true, classifyNow))
}

func TestClassify_Overdue(t *testing.T) {
	past := tp(classifyNow.Add(-time.Hour))
	assert.Equal(t, Overdue, Classify(past, false, classifyNow))
}

func TestClassify_CompletedNeverOverdue(t *testing.T) {
	past := tp(classifyNow.Add(-1000 * time.Hour))
	assert.Equal(t, Scheduled, Classify(past, true, classifyNow))
}

func TestClassify_UpcomingSoon(t *testing.T) {
	soon := tp(classifyNow.Add(time.Hour))
	assert.Equal(t, UpcomingSoon, Classify(soon, false, classifyNow))

	// Exactly at the horizon still counts as upcoming.
	edge := tp(classifyNow.Add(UpcomingHorizon))
	assert.Equal(t, UpcomingSoon, Classify(edge, false, classifyNow))
}

func TestClassify_Scheduled(t *testing.T) {
	far := tp(classifyNow.Add(UpcomingHorizon + time.Minute))
	assert.Equal(t, Scheduled, Classify(far, false, classifyNow))

	// Completed task within the horizon is scheduled, not upcoming.
	soon := tp(classifyNow.Add(time.Hour))
	assert.Equal(t, Scheduled, Classify(soon, true, classifyNow))
}

func TestClassify_NowAdvances(t *testing.T) {
	deadline := tp(classifyNow.Add(time.Hour))
	assert.Equal(t, UpcomingSoon, Classify(deadline, false, classifyNow))
	// Re-evaluating two hours later flips the same task to overdue.
	assert.Equal(t, Overdue, Classify(deadline, false, classifyNow.Add(2*time.Hour)))
}

func TestDeadlineState_String(t *testing.T) {
	assert.Equal(t, "no-deadline", NoDeadline.String())
	assert.Equal(t, "overdue", Overdue.String())
	assert.Equal(t, "upcoming", UpcomingSoon.String())
	assert.Equal(t, "scheduled", Scheduled.String())
}
