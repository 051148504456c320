// Package harness runs date search scenarios against every record source.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: first_half_2023
//	description: "ge and le compose to a closed window"
//	now: "2024-05-20T00:00:00Z"
//	patients:
//	  - name: { id: 0190..., family: Smith, given: [Ann] }
//	    gender: female
//	    birthDate: "2023-04-15T08:30:00Z"
//	terms: [ge2023, le2023-06]
//	expect:
//	  families: [Smith]
//
// A scenario that must fail names the error instead:
//
//	expect:
//	  error: { code: INVALID_PREFIX, index: 1, term: zz2024 }
//
// # Backend Agreement
//
// Every scenario is evaluated twice, once against an in-memory slice source
// and once against an in-memory SQLite store. The two must return the same
// records in the same order; a disagreement fails the scenario regardless of
// its expectations.
//
// # Deterministic Testing
//
// The evaluation instant comes from the scenario's now field through a fixed
// clock, so approximate searches are reproducible and golden snapshots are
// stable.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/first_half_2023.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
