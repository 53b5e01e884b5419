package iovec

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewSourceDropsEmptySegments(t *testing.T) {
	s := NewSource([]byte("ab"), nil, []byte{}, []byte("c"))
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 3, s.Len())
}

func TestExtractFrontContiguous(t *testing.T) {
	s := NewSource([]byte("abcd"), []byte("ef"))

	b, ok := s.ExtractFrontContiguous(3)
	require.True(t, ok)
	assert.Equal(t, "abc", string(b))
	assert.Equal(t, 3, s.Len())

	// "d" is alone in the front segment, two bytes are not contiguous
	_, ok = s.ExtractFrontContiguous(2)
	assert.False(t, ok)
	assert.Equal(t, 3, s.Len(), "failed extraction must not consume")

	b, ok = s.ExtractFrontContiguous(1)
	require.True(t, ok)
	assert.Equal(t, "d", string(b))

	b, ok = s.ExtractFrontContiguous(2)
	require.True(t, ok)
	assert.Equal(t, "ef", string(b))
	assert.Equal(t, 0, s.Count())

	b, ok = s.ExtractFrontContiguous(0)
	assert.True(t, ok)
	assert.Empty(t, b)
}

func TestExtractedSlicesAreCapped(t *testing.T) {
	backing := []byte("abcdef")
	s := NewSource(backing)

	b, ok := s.ExtractFrontContiguous(2)
	require.True(t, ok)
	assert.Equal(t, 2, cap(b))

	// appending must not overwrite the remaining source bytes
	_ = append(b, 'X')
	assert.Equal(t, "abcdef", string(backing))
}

func TestExtractBack(t *testing.T) {
	s := NewSource([]byte("abc"), []byte("defg"))

	b, ok := s.ExtractBack(3)
	require.True(t, ok)
	assert.Equal(t, "efg", string(b))

	_, ok = s.ExtractBack(2)
	assert.False(t, ok, "only one byte left in the back segment")

	b, ok = s.ExtractBack(1)
	require.True(t, ok)
	assert.Equal(t, "d", string(b))
	assert.Equal(t, 1, s.Count())

	b, ok = s.ExtractBack(3)
	require.True(t, ok)
	assert.Equal(t, "abc", string(b))
	assert.Equal(t, 0, s.Len())

	_, ok = s.ExtractBack(1)
	assert.False(t, ok)
}

func TestExtractFrontSpansSegments(t *testing.T) {
	s := NewSource([]byte("ab"), []byte("cde"), []byte("f"))

	segs, n := s.ExtractFront(4)
	assert.Equal(t, 4, n)
	require.Len(t, segs, 2)
	assert.Equal(t, "ab", string(segs[0]))
	assert.Equal(t, "cd", string(segs[1]))

	segs, n = s.ExtractFront(10)
	assert.Equal(t, 2, n)
	require.Len(t, segs, 2)
	assert.Equal(t, "e", string(segs[0]))
	assert.Equal(t, "f", string(segs[1]))
	assert.Equal(t, 0, s.Len())
}

func TestFrontAndBackDoNotOverlap(t *testing.T) {
	s := NewSource([]byte("abcdef"))

	back, ok := s.ExtractBack(2)
	require.True(t, ok)

	_, ok = s.ExtractFrontContiguous(5)
	assert.False(t, ok)

	front, ok := s.ExtractFrontContiguous(4)
	require.True(t, ok)
	assert.Equal(t, "abcd", string(front))
	assert.Equal(t, "ef", string(back))
}
