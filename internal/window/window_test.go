package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flo-at/minmon/internal/window"
)

func TestNewRejectsZeroSize(t *testing.T) {
	_, err := window.New[int](0)
	require.Error(t, err)
}

func TestPushAndValuesRollOver(t *testing.T) {
	buf, err := window.New[int](3)
	require.NoError(t, err)

	buf.Push(1)
	assert.Equal(t, []int{1}, buf.Values())
	buf.Push(2)
	buf.Push(3)
	assert.Equal(t, []int{1, 2, 3}, buf.Values())
	buf.Push(4) // evicts 1
	assert.Equal(t, []int{2, 3, 4}, buf.Values())
}

func TestPushEmptySkipsValue(t *testing.T) {
	buf, err := window.New[int](3)
	require.NoError(t, err)

	buf.Push(1)
	buf.PushEmpty()
	buf.Push(3)
	assert.Equal(t, []int{1, 3}, buf.Values())
	assert.Equal(t, 3, buf.Len())
}
