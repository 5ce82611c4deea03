package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCacheSetGetDelete(t *testing.T) {
	c := NewLRUCache[string](0)

	c.Set("a", "1")
	c.Set("b", "2")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	c.Set("a", "3")
	v, _ = c.Get("a")
	assert.Equal(t, "3", v)
	assert.Equal(t, 2, c.Size())

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCacheUnboundedKeepsEverything(t *testing.T) {
	c := NewLRUCache[int](0)
	for i := 0; i < 500; i++ {
		c.Set(fmt.Sprint(i), i)
	}
	assert.Equal(t, 500, c.Size())
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	assert.Equal(t, []string{"c", "a"}, c.Keys())
}

func TestLRUCacheClear(t *testing.T) {
	c := NewLRUCache[int](0)
	c.Set("a", 1)
	c.Set("b", 2)

	assert.Equal(t, 2, c.Clear())
	assert.Equal(t, 0, c.Size())
	assert.Empty(t, c.Keys())

	c.Set("c", 3)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int](16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprint(j % 20)
				c.Set(key, i)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), 16)
}
