package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/roach88/deskicons/internal/cache"
	"github.com/roach88/deskicons/internal/desktop"
	"github.com/roach88/deskicons/internal/feed"
	"github.com/roach88/deskicons/internal/icon"
	"github.com/roach88/deskicons/internal/store"
)

// Harness is the scenario execution engine.
type Harness struct {
	store   *store.Store
	service *desktop.Service
	seq     int64
	logger  *slog.Logger
}

// Run executes a scenario and returns the result. Each scenario runs in a
// fresh in-memory database.
//
// An error is returned only when the scenario cannot be executed, e.g. a
// setup step fails. Failed expectations and assertions are reported in the
// result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with service logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:", store.WithIDGenerator(icon.NewSequenceGenerator("icon")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ttl := cache.NewTTLStore(0)
	defer ttl.Close()

	feeds := feed.Static{}
	apps := make([]string, 0, len(scenario.Catalog))
	for _, app := range scenario.Catalog {
		feeds[app.App] = app.Icons
		apps = append(apps, app.App)
	}

	svc := desktop.New(st, st, feeds, cache.New(ttl, logger),
		desktop.WithLogger(logger),
		desktop.WithApps(apps...),
		desktop.WithSwatchPicker(func() icon.Swatch { return icon.Palette[0] }),
	)

	h := &Harness{store: st, service: svc, logger: logger}
	ctx := context.Background()
	result := NewResult()

	if err := h.executeSetup(ctx, scenario.Setup, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	h.executeFlow(ctx, scenario.Flow, result)

	actx := &AssertionContext{Store: st, Service: svc, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}
	return result, nil
}

func (h *Harness) next() int64 {
	h.seq++
	return h.seq
}

// executeSetup runs all setup steps. Any failure aborts the scenario.
func (h *Harness) executeSetup(ctx context.Context, setup []ActionStep, result *Result) error {
	for i, step := range setup {
		outputCase, out, err := h.invoke(ctx, step.Action, step.Args, result)
		if err != nil {
			return fmt.Errorf("setup step %d (%s): %w", i, step.Action, err)
		}
		h.logger.Debug("setup step completed", "step", i, "action", step.Action, "output_case", outputCase, "result", out)
	}
	return nil
}

// executeFlow runs all flow steps and checks each completion against the
// step's expect clause.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) {
	for i, step := range flow {
		outputCase, out, err := h.invoke(ctx, step.Invoke, step.Args, result)

		expect := step.Expect
		if expect == nil {
			expect = &ExpectClause{Case: CaseOK}
		}
		if outputCase != expect.Case {
			msg := fmt.Sprintf("flow[%d] %s: expected case %s, got %s", i, step.Invoke, expect.Case, outputCase)
			if err != nil {
				msg += fmt.Sprintf(" (%v)", err)
			}
			result.AddError(msg)
			continue
		}
		for key, want := range expect.Result {
			got, ok := out[key]
			if !ok || !valuesEqual(got, want) {
				result.AddError(fmt.Sprintf("flow[%d] %s: result %q = %v, expected %v", i, step.Invoke, key, got, want))
			}
		}

		h.logger.Debug("flow step completed", "step", i, "action", step.Invoke, "output_case", outputCase)
	}
}

// invoke runs one action and records it in the trace. The returned error
// is nil exactly when the case is ok.
func (h *Harness) invoke(ctx context.Context, action string, args map[string]any, result *Result) (string, map[string]any, error) {
	if args == nil {
		args = map[string]any{}
	}
	result.AddInvocationTrace(action, args, h.next())

	fn, ok := actions[action]
	if !ok {
		err := fmt.Errorf("unknown action %q", action)
		result.AddCompletionTrace(CaseError, nil, h.next())
		return CaseError, nil, err
	}

	out, err := fn(ctx, h.service, actionArgs(args))
	outputCase := caseOf(err)
	if err != nil {
		out = nil
	}
	result.AddCompletionTrace(outputCase, out, h.next())
	return outputCase, out, err
}

func caseOf(err error) string {
	switch {
	case err == nil:
		return CaseOK
	case icon.IsNotFound(err):
		return CaseNotFound
	case icon.IsConflict(err):
		return CaseConflict
	case icon.IsAlreadyExists(err):
		return CaseAlreadyExists
	case icon.IsNameTaken(err):
		return CaseNameTaken
	default:
		return CaseError
	}
}

// valuesEqual compares a produced value with a YAML-decoded expectation.
func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}
	return reflect.DeepEqual(actual, expected)
}
