package harness

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/roach88/deskicons/internal/desktop"
	"github.com/roach88/deskicons/internal/merge"
	"github.com/roach88/deskicons/internal/store"
)

// stateTables are the tables a final_state assertion may read.
var stateTables = mapset.NewSet("desktop_icons", "blocked_modules")

// AssertionError describes a failed assertion with the trace that led to it.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&b, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&b, "  Actual: %s\n", e.Actual)
	if len(e.Trace) > 0 {
		b.WriteString("\nFull trace:\n")
		for i, ev := range e.Trace {
			if ev.Type == "invocation" {
				fmt.Fprintf(&b, "  [%d] %s %v\n", i+1, ev.Action, ev.Args)
			}
		}
	}
	return b.String()
}

// invocations returns the invocation events of trace with their 1-based
// trace position.
func invocations(trace []TraceEvent) iter.Seq2[int, TraceEvent] {
	return func(yield func(int, TraceEvent) bool) {
		for i, ev := range trace {
			if ev.Type == "invocation" && !yield(i+1, ev) {
				return
			}
		}
	}
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range invocations(trace) {
		if ev.Action == a.Action && matchArgs(ev.Args, a.Args) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("action %s with args %v", a.Action, a.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first call of each listed action comes
// after the first call of the one before it. Other calls may sit between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	first := make(map[string]int, len(a.Actions))
	for pos, ev := range invocations(trace) {
		if _, seen := first[ev.Action]; !seen {
			first[ev.Action] = pos
		}
	}

	for i, action := range a.Actions {
		pos, ok := first[action]
		if !ok {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all actions present: %v", a.Actions),
				Actual:   fmt.Sprintf("missing action: %s", action),
				Trace:    trace,
			}
		}
		if i == 0 {
			continue
		}
		prev := a.Actions[i-1]
		if first[prev] >= pos {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", a.Actions),
				Actual:   fmt.Sprintf("%s (pos %d) should be before %s (pos %d)", prev, first[prev], action, pos),
				Trace:    trace,
			}
		}
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range invocations(trace) {
		if ev.Action == a.Action {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Action),
		Actual:   fmt.Sprintf("%d occurrences", count),
		Trace:    trace,
	}
}

// assertFinalState reads the single row of a store table selected by Where
// and compares the columns named in Expect.
func assertFinalState(ctx context.Context, st *store.Store, a Assertion) error {
	if a.Table == "" {
		return fmt.Errorf("final_state assertion requires table name")
	}
	if !stateTables.Contains(a.Table) {
		return fmt.Errorf("invalid table name %q: must be one of %v", a.Table, stateTables.ToSlice())
	}

	row, err := selectRow(ctx, st, a.Table, a.Where)
	if err != nil {
		return err
	}

	for _, key := range slices.Sorted(maps.Keys(a.Expect)) {
		want := a.Expect[key]
		got, ok := row[key]
		if !ok {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", key, slices.Sorted(maps.Keys(row))),
			}
		}
		if !stateValuesEqual(want, got) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, want, want),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, got, got),
			}
		}
	}
	return nil
}

// selectRow returns the one row of table matching where as column -> value.
func selectRow(ctx context.Context, st *store.Store, table string, where map[string]any) (map[string]any, error) {
	cond, args, err := buildWhereClause(where)
	if err != nil {
		return nil, err
	}
	query := "SELECT * FROM " + table
	if cond != "" {
		query += " WHERE " + cond
	}

	rows, err := st.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query table %s", table),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("read %s: %w", table, err)
		}
		return nil, &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", table, formatWhereClause(where)),
			Actual:   "row not found",
		}
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if rows.Next() {
		return nil, &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", table, formatWhereClause(where)),
			Actual:   "multiple rows matched (assertion is ambiguous)",
		}
	}

	row := make(map[string]any, len(columns))
	for i, col := range columns {
		row[col] = values[i]
	}
	return row, nil
}

// assertDesktop checks that the user's merged view shows exactly the
// expected visible icons, in order, and hides exactly the expected ones.
func assertDesktop(ctx context.Context, svc *desktop.Service, a Assertion) error {
	icons, err := svc.GetIcons(ctx, a.User)
	if err != nil {
		return &AssertionError{
			Type:     AssertDesktop,
			Expected: fmt.Sprintf("desktop of %s", a.User),
			Actual:   fmt.Sprintf("error: %v", err),
		}
	}

	visible := moduleNames(merge.Visible(icons))
	var hidden []string
	for _, ic := range icons {
		if ic.Hidden {
			hidden = append(hidden, ic.ModuleName)
		}
	}

	if !slices.Equal(visible, a.Visible) {
		return &AssertionError{
			Type:     AssertDesktop,
			Expected: fmt.Sprintf("%s sees %v", a.User, a.Visible),
			Actual:   fmt.Sprintf("%v", visible),
		}
	}
	if !slices.Equal(hidden, a.Hidden) {
		return &AssertionError{
			Type:     AssertDesktop,
			Expected: fmt.Sprintf("%s hides %v", a.User, a.Hidden),
			Actual:   fmt.Sprintf("%v", hidden),
		}
	}
	return nil
}

// buildWhereClause turns where into "col = ?" conditions joined by AND,
// in column order. Column names are checked since they cannot be bound.
func buildWhereClause(where map[string]any) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := slices.Sorted(maps.Keys(where))
	conds := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		if !isColumnName(key) {
			return "", nil, fmt.Errorf("invalid column name %q in where clause", key)
		}
		conds = append(conds, key+" = ?")
		args = append(args, toSQLValue(where[key]))
	}
	return strings.Join(conds, " AND "), args, nil
}

// isColumnName accepts lower-case snake_case names.
func isColumnName(s string) bool {
	if s == "" || s[0] == '_' {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}

// toSQLValue maps a YAML scalar onto the column encoding; bools are 0/1.
func toSQLValue(v any) any {
	switch val := v.(type) {
	case string, int, int64:
		return val
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatWhereClause(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}
	parts := make([]string, 0, len(where))
	for _, k := range slices.Sorted(maps.Keys(where)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// stateValuesEqual compares a YAML value with a scanned SQLite value, which
// comes back as int64 for both integer and boolean columns.
func stateValuesEqual(want, got any) bool {
	if want == nil || got == nil {
		return want == nil && got == nil
	}

	n, isInt := got.(int64)
	switch w := want.(type) {
	case string:
		s, ok := got.(string)
		return ok && s == w
	case int:
		return isInt && n == int64(w)
	case int64:
		return isInt && n == w
	case bool:
		if b, ok := got.(bool); ok {
			return b == w
		}
		return isInt && (n != 0) == w
	}
	return valuesEqual(got, want)
}

// matchArgs reports whether actual holds every key of expected with an
// equal value. Extra keys in actual are ignored.
func matchArgs(actual, expected map[string]any) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// AssertionContext gives assertions access to the scenario's store and
// service.
type AssertionContext struct {
	Store   *store.Store
	Service *desktop.Service
	Ctx     context.Context
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, i, a, actx); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluate(result *Result, i int, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertFinalState:
		if actx == nil || actx.Store == nil {
			return fmt.Errorf("assertion[%d]: final_state requires database context", i)
		}
		return assertFinalState(actx.Ctx, actx.Store, a)
	case AssertDesktop:
		if actx == nil || actx.Service == nil {
			return fmt.Errorf("assertion[%d]: desktop requires a service", i)
		}
		return assertDesktop(actx.Ctx, actx.Service, a)
	}
	return fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
}
