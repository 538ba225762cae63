// Package harness runs Vera conformance scenarios.
//
// A scenario is a YAML file naming a Vera program (inline or by path), the
// pass options (implicit constants, variables expansion, step budget) and
// what the run must produce: a final bag, a step count, the sequence of
// fired rules, or an error kind. With round_trip set, the program is also
// compiled to Go, executed in an embedded interpreter, and its final values
// must match the firing interpreter's.
//
// Scenarios in a directory are independent and run concurrently; each one
// builds its own program and interpreter.
package harness
