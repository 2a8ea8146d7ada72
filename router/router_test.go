package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_dropsGarbage(t *testing.T) {
	r := New()
	d := r.Route("um", "", Metrics{})
	assert.Equal(t, OutcomeDrop, d.Outcome)
}

func TestRouter_fastPathTime(t *testing.T) {
	r := New()
	d := r.Route("what time is it in Tokyo?", "America/Chicago", Metrics{})
	require.Equal(t, OutcomeFastPath, d.Outcome)
	assert.Contains(t, d.Reply, "Tokyo")
}

func TestRouter_workflowKeyword(t *testing.T) {
	r := New()
	d := r.Route("compare the top 3 tech companies by market cap", "", Metrics{})
	require.Equal(t, OutcomeWorkflow, d.Outcome)
	assert.Equal(t, "research_compare", d.WorkflowID)
}

func TestRouter_fallsThroughToChat(t *testing.T) {
	r := New()
	d := r.Route("what's your favorite color", "", Metrics{})
	assert.Equal(t, OutcomeChat, d.Outcome)
}
