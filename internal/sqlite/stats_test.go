package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	ctx := context.Background()
	s := seededObs(t)
	require.NoError(t, s.CreateIndex(ctx, "obs.name", false))

	total, ok, err := s.Size(ctx, "")
	require.NoError(t, err)
	if !ok {
		t.Skip("engine build has no page statistics")
	}
	assert.Positive(t, total)

	table, ok, err := s.Size(ctx, "obs")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Positive(t, table)

	index, ok, err := s.Size(ctx, IndexName("obs", "name"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Positive(t, index)

	assert.GreaterOrEqual(t, total, table+index)
}

func TestSize_UnknownObject(t *testing.T) {
	s := seededObs(t)
	size, ok, err := s.Size(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, size)
}
