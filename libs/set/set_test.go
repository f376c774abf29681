package set

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimedSetAdd(t *testing.T) {
	s := NewTimedSet()

	added, err := s.Add("req-1")
	require.NoError(t, err)
	assert.True(t, added, "first insertion should be new")

	added, err = s.Add("req-1")
	require.NoError(t, err)
	assert.False(t, added, "second insertion should report existing")

	count, err := s.Cardinality()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTimedSetRemove(t *testing.T) {
	s := NewTimedSet()

	_, err := s.Add("req-1")
	require.NoError(t, err)

	present, err := s.Remove("req-1")
	require.NoError(t, err)
	assert.True(t, present)

	present, err = s.Remove("req-1")
	require.NoError(t, err)
	assert.False(t, present)

	added, err := s.Add("req-1")
	require.NoError(t, err)
	assert.True(t, added, "removed element can be added again")
}

func TestTimedSetPrune(t *testing.T) {
	s := NewTimedSet()

	_, err := s.Add("req-1")
	require.NoError(t, err)
	_, err = s.Add("req-2")
	require.NoError(t, err)

	removed, err := s.Prune(time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, removed, "nothing was added before the epoch")

	removed, err = s.Prune(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	count, err := s.Cardinality()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
