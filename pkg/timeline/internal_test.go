package timeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raidtimeline/timeline-go/internal/invariant"
)

func TestInternalError(t *testing.T) {
	v := &invariant.Violation{Message: "group missing"}

	err := internalError(v, 12)
	var internal *InternalError
	require.True(t, errors.As(err, &internal))
	assert.Equal(t, 12, internal.LineNumber)
	assert.Equal(t, "group missing", internal.Message)
	assert.Contains(t, err.Error(), "line 12")

	var got *invariant.Violation
	require.True(t, errors.As(err, &got))
	assert.Same(t, v, got)

	assert.Contains(t, internalError(v, 0).Error(), "internal error: group missing")
}

func TestInternalError_RepanicsOtherValues(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_ = internalError("boom", 1)
	})
}
