package evictingqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleAdd(t *testing.T) {
	queue := New[string](3)

	assert.Equal(t, 0, queue.Len(), "The queue should start empty.")

	queue.Add("One")
	queue.Add("Two")
	queue.Add("Three")

	assert.Equal(t, 3, queue.Len())
	assert.Equal(t, []string{"One", "Two", "Three"}, queue.Slice())

	val, ok := queue.Get(0)
	assert.True(t, ok)
	assert.Equal(t, "One", val, "The first expected element was not in the queue at the expected position.")
}

func TestEvictingAdd(t *testing.T) {
	queue := New[string](3)

	queue.Add("One")
	queue.Add("Two")
	queue.Add("Three")
	queue.Add("Four")

	assert.Equal(t, 3, queue.Len())
	assert.Equal(t, []string{"Two", "Three", "Four"}, queue.Slice())
}

func TestGetOutOfRange(t *testing.T) {
	queue := New[int](2)
	queue.Add(7)

	_, ok := queue.Get(1)
	assert.False(t, ok)

	_, ok = queue.Get(-1)
	assert.False(t, ok)
}

func TestMinimumSize(t *testing.T) {
	queue := New[int](0)
	queue.Add(1)
	queue.Add(2)

	assert.Equal(t, 1, queue.Cap())
	assert.Equal(t, []int{2}, queue.Slice())
}

func TestConcurrentAdd(t *testing.T) {
	queue := New[int](10)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			queue.Add(i)
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 10, queue.Len())
}
