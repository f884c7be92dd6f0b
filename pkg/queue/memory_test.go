package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueOrder(t *testing.T) {
	q := NewInMemoryQueue[int](4)
	for i := 1; i <= 4; i++ {
		require.True(t, q.Enqueue(i))
	}
	assert.False(t, q.Enqueue(5), "full queue rejects items")
	assert.Equal(t, 4, q.Size())

	item, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, 1, item)

	assert.Equal(t, []int{2, 3, 4}, q.ReadAllMessages())
	assert.Equal(t, 0, q.Size())

	_, ok = q.Dequeue()
	assert.False(t, ok)
}

func TestInMemoryQueueClear(t *testing.T) {
	q := NewInMemoryQueue[string](0)
	q.Enqueue("a")
	q.Enqueue("b")
	q.ClearQueue()
	assert.Equal(t, 0, q.Size())
	assert.Nil(t, q.ReadAllMessages())
}

func TestInMemoryQueueConcurrentProducers(t *testing.T) {
	q := NewInMemoryQueue[int](0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				q.Enqueue(i*10 + j)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, q.ReadAllMessages(), 80)
}
