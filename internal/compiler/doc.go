// Package compiler lowers a Vera program into imperative source code.
//
// Compilation has three stages:
//
//  1. Lower builds a target-agnostic Unit: one variable per symbol, seeded
//     with the populated accumulator, and one guarded branch per non-fact
//     rule in declaration order.
//  2. A Target checks every identifier against its reserved words.
//  3. The Target renders the Unit as source text.
//
// Variable names come from Sanitize. Generated programs are read and
// written by other code through these names, so the mapping is fixed:
// changing it breaks existing consumers.
package compiler
