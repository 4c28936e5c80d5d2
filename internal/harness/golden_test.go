package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_DesktopLifecycle(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "desktop_lifecycle.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRender(t *testing.T) {
	result := NewResult()
	result.AddInvocationTrace("set_order", map[string]any{"user": "alice", "modules": []any{"HR", "Sales"}}, 1)
	result.AddCompletionTrace(CaseOK, nil, 2)
	result.AddInvocationTrace("add_custom_icon", map[string]any{"user": "alice", "label": "A&B", "link": "List/A"}, 3)
	result.AddCompletionTrace(CaseOK, map[string]any{"status": "added", "idx": 4}, 4)

	out, err := Render("render", result)
	require.NoError(t, err)
	assert.Equal(t, `scenario: render
1 invoke set_order {"modules":["HR","Sales"],"user":"alice"}
2 ok
3 invoke add_custom_icon {"label":"A&B","link":"List/A","user":"alice"}
4 ok {"idx":4,"status":"added"}
`, string(out))
}

func TestRender_UnknownEventType(t *testing.T) {
	result := &Result{Trace: []TraceEvent{{Type: "note", Seq: 1}}}
	_, err := Render("bad", result)
	require.Error(t, err)
}

func TestRender_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "desktop_lifecycle.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Render(scenario.Name, first)
	require.NoError(t, err)
	b, err := Render(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
