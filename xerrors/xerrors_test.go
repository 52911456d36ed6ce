package xerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := New("base error")

	wrapped := Wrap(base, "context")
	require.Error(t, wrapped)
	assert.Equal(t, "context: base error", wrapped.Error())
	assert.True(t, Is(wrapped, base))

	assert.Nil(t, Wrap(nil, "context"))
}

func TestWrapf(t *testing.T) {
	base := New("base error")

	wrapped := Wrapf(base, "shard[%s]", "s1")
	require.Error(t, wrapped)
	assert.Equal(t, "shard[s1]: base error", wrapped.Error())
	assert.True(t, Is(wrapped, base))

	assert.Nil(t, Wrapf(nil, "shard[%s]", "s1"))
}

func TestCombine(t *testing.T) {
	e1 := New("first")
	e2 := New("second")

	assert.Nil(t, Combine())
	assert.Nil(t, Combine(nil, nil))
	assert.Equal(t, e1, Combine(nil, e1))

	combined := Combine(e1, nil, e2)
	require.Error(t, combined)

	var multi *MultiError
	require.True(t, As(combined, &multi))
	assert.Len(t, multi.Errors, 2)
	assert.True(t, Is(combined, e1))
	assert.True(t, Is(combined, e2))
	assert.Contains(t, combined.Error(), "first")
	assert.Contains(t, combined.Error(), "and 1 more errors")
}
