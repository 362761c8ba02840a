// Package harness runs conformance scenarios against the verifier.
//
// A scenario pins the verdict the verifier must reach for each case of a
// fixture tree. It is the regression suite for the verifier itself: a
// deliberately broken output must keep failing with the same violation
// kind, and a conformant one must keep passing.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: demo
//	description: "Reference cases from the demo pipeline"
//	fixtures: ../fixtures
//	out_root: ../out/demo
//	tool: proof-first-normalizer   # optional
//	compare_goldens: true          # optional
//	cases:
//	  - case: case01_ok
//	    expect: pass
//	  - case: case02_bad_date
//	    expect: skip
//	    recorded_error: "row 3: invalid date"
//	  - case: case03_tampered
//	    expect: fail
//	    kind: DIGEST_MISMATCH
//	    field: sha256_normalized
//
// Relative paths are resolved against the scenario file's directory.
// Unknown keys are rejected.
//
// # Expectations
//
// Every listed case is verified and compared with its expectation:
//
//   - expect: pass | fail | skip (required)
//   - kind, artifact, field: optional, only with expect: fail
//   - recorded_error: optional, only with expect: skip
//
// # Golden Snapshots
//
// The verdicts of a run can be frozen as a snapshot (see Snapshot) and
// compared with goldie in tests or by the CLI's test command.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("scenarios/demo.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
