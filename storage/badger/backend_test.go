package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())
}

func TestNewMemoryStores(t *testing.T) {
	docs, graph, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer func() {
		vectors.Close()
		graph.Close()
		docs.Close()
		backend.Close()
	}()

	ctx := context.Background()

	stats, err := graph.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalNodes)

	count, err := vectors.CountVectors(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	listed, err := docs.ListDocuments(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
