package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncrementPass(t *testing.T) {
	assert.Equal(t, 4, Increment(3))
	assert.Equal(t, 1, Increment(0))
	assert.Equal(t, 0, Increment(-1))
}

// You shall not pass!
//
// An int never equals a string, so this case always fails. It demonstrates the
// failure-reporting path of the runner and must be kept failing.
func TestIncrementFail(t *testing.T) {
	assert.Equal(t, "4", Increment(3))
}
