// Package harness runs restoration scenarios against the rewrite pipeline.
//
// # Scenario Format
//
// Scenarios are YAML files naming an input module and the properties the
// rewritten module must have:
//
//	name: single_switch
//	description: "Three string keys become three native cases"
//	input: ../modules/classify.yaml
//	options:
//	  lookup_method: TryResolve
//	assertions:
//	  - type: restored
//	    count: 1
//	  - type: switch_on
//	    function: Classify
//	    key: s
//	    values: ['"a"', '"b"', '"c"']
//	  - type: idempotent
//
// The input path is resolved relative to the scenario file.
//
// # Assertion Types
//
//   - restored: exactly count switches were rebuilt
//   - aborted: exactly count scaffolds were found but left alone
//   - switch_on: function holds a switch on key with these printed case values
//   - unchanged: function is structurally identical to its input
//   - variable_absent: variable is neither declared nor referenced in function
//   - no_goto: nothing in function jumps to label
//   - idempotent: a second pipeline run changes nothing
//   - verified: the rewritten module passes structural verification
//
// # Deterministic Runs
//
// Every scenario runs with a fixed run id against an in-memory journal, so
// the recorded rewrites and the printed output are reproducible and can be
// compared against golden files under testdata/golden.
package harness
