package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:     {StatusReviewing, StatusRejected, StatusWithdrawn},
		StatusReviewing:   {StatusInterviewed, StatusAccepted, StatusRejected, StatusWithdrawn},
		StatusInterviewed: {StatusAccepted, StatusRejected, StatusWithdrawn},
	}
	all := []Status{StatusPending, StatusReviewing, StatusInterviewed, StatusAccepted, StatusRejected, StatusWithdrawn}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminal(StatusAccepted))
	assert.True(t, IsTerminal(StatusRejected))
	assert.True(t, IsTerminal(StatusWithdrawn))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusReviewing))
	assert.False(t, IsTerminal(StatusInterviewed))
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(StatusPending))
	assert.False(t, IsKnown(Status("archived")))
	assert.False(t, IsKnown(Status("")))
}
