package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore()

	data, found, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestMemoryStoreSaveLoad(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.Save(context.Background(), []byte(`{"rooms":[]}`)))

	data, found, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"rooms":[]}`), data)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.Save(context.Background(), []byte("first")))
	require.NoError(t, s.Save(context.Background(), []byte("second")))

	data, found, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("second"), data)
}

func TestMemoryStoreCopiesData(t *testing.T) {
	s := NewMemoryStore()

	buf := []byte("original")
	require.NoError(t, s.Save(context.Background(), buf))
	buf[0] = 'X'

	data, _, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)

	data[0] = 'Y'
	again, _, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestMemoryStoreSaveEmptyBlob(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.Save(context.Background(), nil))

	_, found, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found, "an empty blob is still a saved blob")
}
