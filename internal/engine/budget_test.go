package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepBudget(t *testing.T) {
	b := NewStepBudget(2)

	assert.False(t, b.Exhausted())
	assert.Equal(t, 2, b.Remaining())
	b.Record()
	b.Record()
	assert.True(t, b.Exhausted())
	assert.Equal(t, 0, b.Remaining())
	assert.Equal(t, 2, b.Used())
	assert.Equal(t, 2, b.Limit())
}

func TestStepBudgetUnbounded(t *testing.T) {
	for _, limit := range []int{Unbounded, -5} {
		b := NewStepBudget(limit)
		for i := 0; i < 1000; i++ {
			b.Record()
		}
		assert.False(t, b.Exhausted())
		assert.Equal(t, -1, b.Remaining())
		assert.Equal(t, Unbounded, b.Limit())
	}
}

func TestStepBudgetZero(t *testing.T) {
	b := NewStepBudget(0)
	assert.True(t, b.Exhausted())
	assert.Equal(t, 0, b.Remaining())
	assert.Equal(t, 0, b.Limit())
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}
