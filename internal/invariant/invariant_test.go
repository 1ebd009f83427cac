package invariant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	assert.NotPanics(t, func() { Check(true, "never") })

	defer func() {
		r := recover()
		require.NotNil(t, r)
		v, ok := r.(*Violation)
		require.True(t, ok)
		assert.Equal(t, "position 3 out of range", v.Message)
	}()
	Check(false, "position %d out of range", 3)
}

func TestNoError(t *testing.T) {
	assert.NotPanics(t, func() { NoError(nil, "parse") })
	assert.PanicsWithError(t, "internal invariant violated: parse: boom", func() {
		NoError(errors.New("boom"), "parse")
	})
}
