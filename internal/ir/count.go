package ir

import "math"

// MaxCount is the ceiling of every accumulator count. Arithmetic that would
// pass it saturates instead of wrapping.
const MaxCount = math.MaxInt

// MaxLiteralCount bounds a ":N" count written in source.
const MaxLiteralCount = math.MaxInt32

// AddCount returns a+b clamped to MaxCount. Both operands must be
// non-negative. The second result reports whether the sum was clamped.
func AddCount(a, b int) (int, bool) {
	if a > MaxCount-b {
		return MaxCount, true
	}
	return a + b, false
}

// MulCount returns a*b clamped to MaxCount. Both operands must be
// non-negative. The second result reports whether the product was clamped.
func MulCount(a, b int) (int, bool) {
	if b != 0 && a > MaxCount/b {
		return MaxCount, true
	}
	return a * b, false
}
