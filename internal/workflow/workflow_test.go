package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cajero/internal/workflow"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		tab       workflow.Tab
		openCount int
		want      bool
	}{
		{tab: workflow.TabOpen, openCount: 0, want: true},
		{tab: workflow.TabMovements, openCount: 0, want: false},
		{tab: workflow.TabClose, openCount: 0, want: false},
		{tab: workflow.TabMovements, openCount: 1, want: true},
		{tab: workflow.TabClose, openCount: 3, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, workflow.Enabled(tt.tab, tt.openCount))
		})
	}
}

func TestWorkflow_Transitions(t *testing.T) {
	w := workflow.New()
	assert.Equal(t, workflow.TabOpen, w.Tab())

	assert.False(t, w.Select(workflow.TabMovements, 0))
	assert.False(t, w.Select(workflow.TabClose, 0))
	assert.False(t, w.Next(0))
	assert.Equal(t, workflow.TabOpen, w.Tab())

	w.OpenSucceeded()
	assert.Equal(t, workflow.TabMovements, w.Tab())

	assert.True(t, w.Select(workflow.TabClose, 1))

	// Closing the last register does not move the user off the tab.
	assert.Equal(t, workflow.TabClose, w.Tab())
	assert.False(t, workflow.Enabled(w.Tab(), 0))

	assert.True(t, w.Next(0))
	assert.Equal(t, workflow.TabOpen, w.Tab())
}

func TestWorkflow_NextPrevWrap(t *testing.T) {
	w := workflow.New()

	assert.True(t, w.Next(2))
	assert.Equal(t, workflow.TabMovements, w.Tab())

	assert.True(t, w.Next(2))
	assert.Equal(t, workflow.TabClose, w.Tab())

	assert.True(t, w.Next(2))
	assert.Equal(t, workflow.TabOpen, w.Tab())

	assert.True(t, w.Prev(2))
	assert.Equal(t, workflow.TabClose, w.Tab())
}

func TestWorkflow_Submitting(t *testing.T) {
	w := workflow.New()

	assert.True(t, w.Begin())
	assert.False(t, w.Begin(), "a second submit while one is pending is refused")
	assert.True(t, w.Submitting())
	assert.False(t, w.Select(workflow.TabMovements, 1), "tabs are locked while submitting")

	w.End()
	assert.False(t, w.Submitting())
	assert.True(t, w.Begin())
}
