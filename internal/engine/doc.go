// Package engine implements the Vera firing interpreter.
//
// An Interpreter owns one Accumulator (the bag of facts) and a read-only
// ir.Program. Execution has two phases:
//
//  1. PopulateFacts folds every fact's result into the accumulator. It must
//     be called exactly once per run; calling it again counts facts twice.
//  2. Step fires the first applicable rule in declaration order. Eval calls
//     Step until no rule applies or the step budget runs out.
//
// A rule is applicable when its condition is non-empty and every symbol of
// the condition has a nonzero count. Only presence is tested: condition
// multiplicities neither gate nor scale a firing. A firing computes
//
//	executions = min(acc[s] for s in condition)
//
// subtracts executions from each condition symbol and adds executions*c
// to each result symbol with multiplicity c. Counts therefore never go
// negative.
//
// Evaluation is single-threaded and deterministic: the same program always
// produces the same sequence of firings.
package engine
