// Package harness provides conformance testing for the beta99 packer.
//
// The harness loads scenario files, builds their register rows and
// playback events into a bundle, and validates the bundle against the
// scenario's declared expectations or a golden debug dump.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	max_ops: 2              # optional, defaults to the packer default
//	ssf:
//	  - hashid: 100
//	    clock: 0
//	    set: { freq1: 1000, gate1: 1 }
//	log:
//	  - { clock: 0, hashid: 100, voice: 1 }
//	expect:
//	  ssfs:
//	    - hashid: 100
//	      duration: 0
//	      ops:
//	        - { delta: 0, op: SET_FREQ, data: [232, 3] }
//	        - { delta: 0, op: SET_CTRL, data: [1] }
//	  triggers:
//	    - { delta: 0, ssf_index: 0, voice: 1 }
//
// A failing scenario instead declares the expected build error:
//
//	expect:
//	  error: "has no SSF rows"
//
// Ops are matched positionally with opcodes by mnemonic, so scenario
// files stay readable while pinning the exact emitted stream.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/single_fragment.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bundle, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, err := range harness.Verify(scenario, bundle) {
//	    log.Println(err)
//	}
package harness
