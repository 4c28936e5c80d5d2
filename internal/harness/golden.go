package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Render formats a scenario trace as stable text for golden comparison.
// Args and results are written as compact JSON with sorted map keys.
//
//	scenario: hide_sales
//	1 invoke set_hidden {"hidden":true,"module":"Sales","user":"alice"}
//	2 ok
func Render(scenarioName string, result *Result) ([]byte, error) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", scenarioName)

	for _, event := range result.Trace {
		switch event.Type {
		case "invocation":
			args, err := compactJSON(event.Args)
			if err != nil {
				return nil, fmt.Errorf("seq %d: marshal args: %w", event.Seq, err)
			}
			fmt.Fprintf(&buf, "%d invoke %s %s\n", event.Seq, event.Action, args)
		case "completion":
			if len(event.Result) == 0 {
				fmt.Fprintf(&buf, "%d %s\n", event.Seq, event.OutputCase)
				continue
			}
			res, err := compactJSON(event.Result)
			if err != nil {
				return nil, fmt.Errorf("seq %d: marshal result: %w", event.Seq, err)
			}
			fmt.Fprintf(&buf, "%d %s %s\n", event.Seq, event.OutputCase, res)
		default:
			return nil, fmt.Errorf("seq %d: unknown event type %q", event.Seq, event.Type)
		}
	}
	return []byte(buf.String()), nil
}

// compactJSON marshals v on one line without HTML escaping.
func compactJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// RunWithGolden executes a scenario and compares the rendered trace
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	out, err := Render(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, out)
	return nil
}
