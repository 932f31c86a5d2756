package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_FIFO(t *testing.T) {
	q := NewInMemoryQueue(4)
	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))
	require.NoError(t, q.Enqueue(3))
	assert.Equal(t, 3, q.Size())

	item, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, item)

	items, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{2, 3}, items)
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueue_FullAndEmpty(t *testing.T) {
	q := NewInMemoryQueue(1)
	require.NoError(t, q.Enqueue("a"))
	assert.Error(t, q.Enqueue("b"))

	q.ClearQueue()
	_, err := q.Dequeue()
	assert.Error(t, err)

	items, err := q.ReadAllMessages()
	require.NoError(t, err)
	assert.Empty(t, items)
}
