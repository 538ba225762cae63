// Package ir provides the in-memory data model shared by every Vera front end.
//
// A Vera program is a symbol table plus an ordered list of rules. Each rule
// pairs two sparse multisets of symbol ids: the left-hand side (condition)
// and the right-hand side (result). A rule with an empty left-hand side is a
// fact. Rule order is firing priority.
//
// This package contains the model only. All other internal packages import
// ir; ir imports nothing internal.
//
// Key constraints:
//   - Symbol ids are 0-based, dense, and stable for the program's lifetime
//   - Multisets never store zero counts
//   - Table sizes are bounded by Limits; overflowing returns *CapacityError,
//     never silent truncation
package ir
