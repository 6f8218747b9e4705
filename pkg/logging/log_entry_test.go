package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogEntryFields(t *testing.T) {
	entry := LogEntry{
		Time:       1,
		Severity:   INFO,
		Message:    "cycle complete",
		Cycle:      7,
		TotalEvals: 4200,
		NewBest:    true,
		Generation: 3,
		Fields:     map[string]interface{}{"pop_size": 312},
	}

	assert.Equal(t, 7, entry.Cycle)
	assert.Equal(t, 4200, entry.TotalEvals)
	assert.True(t, entry.NewBest)
	assert.Equal(t, 3, entry.Generation)
	assert.Equal(t, 312, entry.Fields["pop_size"])
}
