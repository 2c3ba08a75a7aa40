package group

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New[string, int]()
	assert.NotNil(t, g)
	assert.Equal(t, 0, g.Len())
}

func TestCellSameForSameKey(t *testing.T) {
	g := New[string, int]()

	c1 := g.Cell("a")
	c2 := g.Cell("a")
	assert.Same(t, c1, c2)

	c3 := g.Cell("b")
	assert.NotSame(t, c1, c3)
	assert.Equal(t, 2, g.Len())
}

func TestGetOrInit(t *testing.T) {
	g := New[string, int]()

	calls := 0
	factory := func() int {
		calls++
		return 42
	}

	v, created := g.GetOrInit("key", factory)
	assert.True(t, created)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	v, created = g.GetOrInit("key", factory)
	assert.False(t, created)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestGetOrInitKeyIsolation(t *testing.T) {
	g := New[string, string]()

	v1, _ := g.GetOrInit("one", func() string { return "first" })
	v2, _ := g.GetOrInit("two", func() string { return "second" })

	assert.Equal(t, "first", v1)
	assert.Equal(t, "second", v2)
	assert.Equal(t, 2, g.Len())
}

func TestGet(t *testing.T) {
	g := New[string, int]()

	// Unknown key
	v, ok := g.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, v)

	// Installed but uninitialized cell
	g.Cell("empty")
	_, ok = g.Get("empty")
	assert.False(t, ok)

	g.GetOrInit("full", func() int { return 7 })
	v, ok = g.Get("full")
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestInitialized(t *testing.T) {
	g := New[string, int]()

	assert.False(t, g.Initialized("key"))
	g.Cell("key")
	assert.False(t, g.Initialized("key"))
	g.GetOrInit("key", func() int { return 1 })
	assert.True(t, g.Initialized("key"))
}

func TestKeys(t *testing.T) {
	g := New[string, int]()
	g.Cell("one")
	g.GetOrInit("two", func() int { return 2 })
	g.GetOrInit("three", func() int { return 3 })

	assert.ElementsMatch(t, []string{"one", "two", "three"}, g.Keys())
}

func TestRangeSkipsUninitialized(t *testing.T) {
	g := New[string, int]()
	g.Cell("empty")
	g.GetOrInit("one", func() int { return 1 })
	g.GetOrInit("two", func() int { return 2 })

	visited := make(map[string]int)
	g.Range(func(k string, v int) bool {
		visited[k] = v
		return true
	})

	assert.Equal(t, map[string]int{"one": 1, "two": 2}, visited)
}

func TestRangeEarlyStop(t *testing.T) {
	g := New[string, int]()
	g.GetOrInit("one", func() int { return 1 })
	g.GetOrInit("two", func() int { return 2 })

	count := 0
	g.Range(func(k string, v int) bool {
		count++
		return false
	})

	assert.Equal(t, 1, count)
}

func TestRangeAllowsMutation(t *testing.T) {
	g := New[string, int]()
	g.GetOrInit("one", func() int { return 1 })
	g.GetOrInit("two", func() int { return 2 })

	g.Range(func(k string, v int) bool {
		g.GetOrInit("new-"+k, func() int { return v * 10 })
		return true
	})

	assert.True(t, g.Initialized("new-one"))
	assert.True(t, g.Initialized("new-two"))
	assert.Equal(t, 4, g.Len())
}

func TestReset(t *testing.T) {
	g := New[string, int]()
	g.GetOrInit("key", func() int { return 1 })
	require.True(t, g.Initialized("key"))

	g.Reset("key")
	assert.False(t, g.Initialized("key"))

	// The cell survives a reset and can initialize again.
	v, created := g.GetOrInit("key", func() int { return 2 })
	assert.True(t, created)
	assert.Equal(t, 2, v)
}

func TestResetUnknownKey(t *testing.T) {
	g := New[string, int]()

	// Should not panic.
	g.Reset("missing")
}

func TestResetAll(t *testing.T) {
	g := New[string, int]()
	g.GetOrInit("one", func() int { return 1 })
	g.GetOrInit("two", func() int { return 2 })

	g.ResetAll()

	assert.Equal(t, 0, g.Len())
	assert.False(t, g.Initialized("one"))
}

func TestStructKeys(t *testing.T) {
	type key struct {
		Namespace string
		Name      string
	}

	g := New[key, int]()
	k1 := key{Namespace: "ns1", Name: "a"}
	k2 := key{Namespace: "ns2", Name: "a"}

	g.GetOrInit(k1, func() int { return 1 })
	g.GetOrInit(k2, func() int { return 2 })

	v, ok := g.Get(k1)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = g.Get(k2)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

// Concurrency tests

func TestConcurrentSameKey(t *testing.T) {
	g := New[string, int]()
	var wg sync.WaitGroup
	var initCalls atomic.Int32
	n := 100

	start := make(chan struct{})
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, _ := g.GetOrInit("key", func() int {
				initCalls.Add(1)
				return 42
			})
			assert.Equal(t, 42, v)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), initCalls.Load())
	assert.Equal(t, 1, g.Len())
}

func TestConcurrentDistinctKeys(t *testing.T) {
	g := New[int, int]()
	var wg sync.WaitGroup
	n := 100

	for i := range n {
		wg.Add(1)
		go func(key int) {
			defer wg.Done()
			v, _ := g.GetOrInit(key, func() int { return key * 2 })
			assert.Equal(t, key*2, v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, g.Len())
}

func TestConcurrentCellInstall(t *testing.T) {
	g := New[string, int]()
	var wg sync.WaitGroup
	n := 100

	cells := make([]any, n)
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			cells[idx] = g.Cell("shared")
		}(i)
	}
	close(start)
	wg.Wait()

	// Everyone got the same cell.
	for i := 1; i < n; i++ {
		require.Same(t, cells[0], cells[i])
	}
}

func TestConcurrentReadWrite(t *testing.T) {
	g := New[string, int]()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; ; j++ {
				select {
				case <-stop:
					return
				default:
					g.GetOrInit(fmt.Sprintf("w%d-%d", id, j), func() int { return j })
				}
			}
		}(i)
	}

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					g.Keys()
					g.Len()
				}
			}
		}()
	}

	close(stop)
	wg.Wait()
}

// Benchmarks

func BenchmarkGetExisting(b *testing.B) {
	g := New[int, int]()
	for i := range 1000 {
		g.GetOrInit(i, func() int { return i })
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Get(i % 1000)
	}
}

func BenchmarkGetOrInitSteadyState(b *testing.B) {
	g := New[int, int]()
	g.GetOrInit(0, func() int { return 42 })
	factory := func() int { return 42 }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.GetOrInit(0, factory)
	}
}
