package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDue(t *testing.T) {
	today := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	never := PeriodicTask{PeriodDays: 10}
	assert.Equal(t, today.AddDate(0, 0, 10), never.NextDue(today))

	last := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	completed := PeriodicTask{PeriodDays: 10, LastCompletedAt: &last}
	assert.Equal(t, last.AddDate(0, 0, 10), completed.NextDue(today))

	broken := PeriodicTask{}
	assert.Equal(t, today, broken.NextDue(today))
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityRank(PriorityHigh), PriorityRank(PriorityMedium))
	assert.Less(t, PriorityRank(PriorityMedium), PriorityRank(PriorityLow))
	assert.Less(t, PriorityRank(PriorityLow), PriorityRank("bogus"))
}

func TestIsClosed(t *testing.T) {
	assert.True(t, IsClosed(TaskStatusDone))
	assert.True(t, IsClosed(TaskStatusCancelled))
	assert.False(t, IsClosed(TaskStatusOpen))
	assert.False(t, IsClosed(TaskStatusOnHold))
}
