package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecore/events"
	"voicecore/llm"
)

// fakeGenerator scripts one reply per Generate call, in order.
type fakeGenerator struct {
	replies []string
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	f.prompts = append(f.prompts, req.Messages[0].Text)
	r := f.replies[f.calls]
	f.calls++
	return r, nil
}

// fakeDispatcher records every dispatched query and returns a canned result.
type fakeDispatcher struct {
	queries []string
	result  string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (string, bool) {
	f.queries = append(f.queries, args["query"].(string))
	return f.result, false
}

// fakeHistory records the single AppendTurn call the runner makes.
type fakeHistory struct {
	userText, assistantText string
	calls                   int
}

func (f *fakeHistory) AppendTurn(userText, assistantText string) {
	f.userText = userText
	f.assistantText = assistantText
	f.calls++
}

func fixedNow() time.Time { return time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC) }

func TestRunner_researchCompare_stepEventsAndFourDispatches(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		"top 5 S&P 500 companies by market cap 2026",                  // initial_lookup
		`["Apple AAPL market cap 2026", "NVIDIA NVDA market cap 2026", "Microsoft MSFT market cap 2026"]`, // decompose
		"Apple leads, followed by NVIDIA and Microsoft.", // synthesize
	}}
	tools := &fakeDispatcher{result: "1. Apple - $3.5T\n2. NVIDIA - $3.3T\n3. Microsoft - $3.1T"}
	history := &fakeHistory{}

	var states []string
	sink := &captureSink{}

	runner := New(gen, tools, history, WithEventSink(sink), WithClock(fixedNow), WithSleeper(func(time.Duration) {}))

	workflowID := runner.Route("compare the top 3 tech companies by market cap this year")
	require.Equal(t, "research_compare", workflowID)

	reply := runner.Execute(context.Background(), workflowID, "compare the top 3 tech companies by market cap this year")

	assert.Equal(t, "Apple leads, followed by NVIDIA and Microsoft.", reply)
	// initial_lookup search + 3 per-entity searches in the loop = 4 dispatches
	require.Len(t, tools.queries, 4)
	assert.Equal(t, 1, history.calls)
	assert.Equal(t, reply, history.assistantText)

	for _, ev := range sink.events {
		if ev.StepState != "" {
			states = append(states, ev.StepName+":"+ev.StepState)
		}
	}
	assert.Contains(t, states, "Establishing ranking:active")
	assert.Contains(t, states, "Synthesizing:visited")

	require.NotEmpty(t, sink.events)
	start := sink.events[0]
	require.Equal(t, events.KindWorkflowStart, start.Kind)
	assert.Equal(t, "research_compare", start.WorkflowID)
	assert.NotEmpty(t, start.WorkflowSteps)
	assert.Equal(t, start.RunID, sink.events[len(sink.events)-1].RunID)

	var loopUpdates []events.Event
	for _, ev := range sink.events {
		if ev.StepState == "loop_update" {
			loopUpdates = append(loopUpdates, ev)
		}
	}
	require.NotEmpty(t, loopUpdates)
	assert.Equal(t, -1, loopUpdates[0].ActiveIndex)
	assert.Len(t, loopUpdates[0].Children, 3)
	assert.Equal(t, 0, loopUpdates[1].ActiveIndex)
}

func TestRunner_factCheck_twoDispatches(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		`{"claim": "the earth is round", "support_query": "earth shape evidence 2026", "counter_query": "flat earth claims debunked 2026"}`,
		"True: overwhelming evidence supports a roughly spherical Earth.",
	}}
	tools := &fakeDispatcher{result: "NASA imagery confirms spherical shape."}
	history := &fakeHistory{}

	runner := New(gen, tools, history, WithClock(fixedNow))

	workflowID := runner.Route("is it true that the earth is round")
	require.Equal(t, "fact_check", workflowID)

	reply := runner.Execute(context.Background(), workflowID, "is it true that the earth is round")

	assert.Equal(t, "True: overwhelming evidence supports a roughly spherical Earth.", reply)
	require.Len(t, tools.queries, 2)
	assert.Equal(t, "earth shape evidence 2026", tools.queries[0])
	assert.Equal(t, "flat earth claims debunked 2026", tools.queries[1])
	assert.Equal(t, 1, history.calls)
}

func TestRunner_shortQuerySkipsRouting(t *testing.T) {
	runner := New(&fakeGenerator{}, &fakeDispatcher{}, &fakeHistory{})
	assert.Equal(t, "", runner.Route("compare"))
}

func TestRunner_stepFailureAbortsWithApology(t *testing.T) {
	gen := &erroringGenerator{}
	tools := &fakeDispatcher{result: "irrelevant"}
	history := &fakeHistory{}

	runner := New(gen, tools, history, WithClock(fixedNow))
	reply := runner.Execute(context.Background(), "fact_check", "is it true the sky is green")

	assert.Contains(t, reply, "I ran into an issue during research")
	assert.Equal(t, 1, history.calls)
}

type erroringGenerator struct{}

func (erroringGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	return "", assertError{"boom"}
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }

// captureSink is a hand-written stub events.Sink that records every
// emitted event for assertions.
type captureSink struct {
	events []events.Event
}

func (c *captureSink) Emit(ctx context.Context, ev events.Event) {
	c.events = append(c.events, ev)
}
