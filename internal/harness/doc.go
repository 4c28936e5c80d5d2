// Package harness runs desktop scenarios end to end against a fresh
// in-memory store.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	catalog:
//	  - app: erp
//	    icons:
//	      - module_name: Sales
//	        color: "#1abc9c"
//	setup:
//	  - action: sync
//	    args: {}
//	flow:
//	  - invoke: set_hidden
//	    args: { module: Sales, user: alice, hidden: true }
//	    expect:
//	      case: ok
//	assertions:
//	  - type: desktop
//	    user: alice
//	    visible: [HR]
//	    hidden: [Sales]
//
// # Actions
//
// Each action calls one desktop.Service operation: sync, get_icons, boot,
// set_hidden, set_hidden_list, set_order, add_custom_icon,
// remove_custom_icon, block and unblock. A completion reports one of the
// cases ok, not_found, conflict, already_exists, name_taken or error.
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace with matching args
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: one row of a table has the expected column values
//   - desktop: a user's merged view has exactly the given icons
//
// # Deterministic Output
//
// Record IDs come from a sequence, custom icons always draw the first
// palette swatch and every trace event carries a logical sequence number,
// so the rendered trace is stable enough for golden files.
package harness
