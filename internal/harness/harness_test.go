package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deskicons/internal/feed"
)

func boolPtr(b bool) *bool { return &b }

func catalog() []AppFeed {
	return []AppFeed{{
		App: "erp",
		Icons: []feed.Definition{
			{ModuleName: "Sales"},
			{ModuleName: "HR", Hidden: boolPtr(true)},
			{ModuleName: "Stock", ForceShow: boolPtr(true)},
		},
	}}
}

func TestRun_TraceAndSequence(t *testing.T) {
	scenario := &Scenario{
		Name:    "trace",
		Catalog: catalog(),
		Setup:   []ActionStep{{Action: "sync"}},
		Flow: []FlowStep{
			{Invoke: "get_icons", Args: map[string]any{"user": "alice"}},
		},
		Assertions: []Assertion{{Type: AssertTraceCount, Action: "get_icons", Count: 1}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	require.Len(t, result.Trace, 4)
	for i, event := range result.Trace {
		assert.Equal(t, int64(i+1), event.Seq)
	}
	assert.Equal(t, "invocation", result.Trace[0].Type)
	assert.Equal(t, "sync", result.Trace[0].Action)
	assert.Equal(t, map[string]any{}, result.Trace[0].Args)
	assert.Equal(t, "completion", result.Trace[3].Type)
	assert.Equal(t, CaseOK, result.Trace[3].OutputCase)
	assert.Equal(t, []any{"Sales", "Stock"}, result.Trace[3].Result["visible"])
	assert.Equal(t, []any{"HR"}, result.Trace[3].Result["hidden"])
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:    "mismatch",
		Catalog: catalog(),
		Setup:   []ActionStep{{Action: "sync"}},
		Flow: []FlowStep{
			{
				Invoke: "set_hidden",
				Args:   map[string]any{"user": "alice", "module": "Payroll", "hidden": true},
			},
			{
				Invoke: "get_icons",
				Args:   map[string]any{"user": "alice"},
				Expect: &ExpectClause{Case: CaseOK, Result: map[string]any{"visible": []any{"Sales"}}},
			},
		},
		Assertions: []Assertion{{Type: AssertTraceCount, Action: "set_hidden", Count: 1}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected case ok, got not_found")
	assert.Contains(t, result.Errors[1], `result "visible"`)
}

func TestRun_ErrorCases(t *testing.T) {
	scenario := &Scenario{
		Name:    "cases",
		Catalog: catalog(),
		Setup:   []ActionStep{{Action: "sync"}},
		Flow: []FlowStep{
			{
				Invoke: "remove_custom_icon",
				Args:   map[string]any{"user": "alice", "module": "Sales"},
				Expect: &ExpectClause{Case: CaseNotFound},
			},
			{
				Invoke: "set_order",
				Args:   map[string]any{"modules": []any{"Sales"}},
				Expect: &ExpectClause{Case: CaseError},
			},
			{
				Invoke: "set_hidden",
				Args:   map[string]any{"user": "alice", "module": "Sales", "hidden": "yes"},
				Expect: &ExpectClause{Case: CaseError},
			},
		},
		Assertions: []Assertion{{Type: AssertDesktop, User: "alice", Visible: []string{"Sales", "Stock"}, Hidden: []string{"HR"}}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_SetupFailureAborts(t *testing.T) {
	scenario := &Scenario{
		Name:       "bad_setup",
		Catalog:    catalog(),
		Setup:      []ActionStep{{Action: "block", Args: map[string]any{"user": "alice"}}},
		Flow:       []FlowStep{{Invoke: "sync"}},
		Assertions: []Assertion{{Type: AssertTraceCount, Action: "sync", Count: 1}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup step 0 (block)")
}

func TestRun_CustomIconLifecycle(t *testing.T) {
	scenario := &Scenario{
		Name:    "custom",
		Catalog: catalog(),
		Setup:   []ActionStep{{Action: "sync"}},
		Flow: []FlowStep{
			{
				Invoke: "add_custom_icon",
				Args:   map[string]any{"user": "alice", "label": "Notes", "link": "List/Note"},
				Expect: &ExpectClause{Case: CaseOK, Result: map[string]any{"status": "added", "idx": 3}},
			},
			{
				Invoke: "set_hidden",
				Args:   map[string]any{"user": "alice", "module": "Notes", "hidden": true},
			},
			{
				Invoke: "add_custom_icon",
				Args:   map[string]any{"user": "alice", "label": "Notes", "link": "List/Note"},
				Expect: &ExpectClause{Case: CaseOK, Result: map[string]any{"status": "restored"}},
			},
		},
		Assertions: []Assertion{
			{Type: AssertDesktop, User: "alice", Visible: []string{"Sales", "Stock", "Notes"}, Hidden: []string{"HR"}},
			{Type: AssertFinalState, Table: "desktop_icons", Where: map[string]any{"owner": "alice"}, Expect: map[string]any{"custom": true, "hidden": false}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}
