// Package parser turns Vera source text into an ir.Program.
//
// The first byte of the source is the delimiter (spacer glyph,
// conventionally '|'). Grammar, with D the delimiter:
//
//	program     := ws* (clause ws*)*
//	clause      := fact | rule
//	fact        := D D symbol_list
//	rule        := D symbol_list D symbol_list?
//	symbol_list := symbol (',' symbol)*
//	symbol      := text [':' integer]     ; suffix only with implicit constants
//
// Every byte <= 0x20 is whitespace. Parsing is all-or-nothing: the first
// error aborts and no partially built program is returned.
package parser
