package booking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeAllocatorFormat(t *testing.T) {
	a := NewCodeAllocator("CNX", 41)
	n, code := a.Next()
	assert.Equal(t, uint64(42), n)
	assert.Equal(t, "CNX-000042", code)

	// Empty prefix falls back to the default.
	b := NewCodeAllocator("", 0)
	_, code = b.Next()
	assert.Equal(t, "CNX-000001", code)
}

func TestCodeAllocatorUniqueUnderConcurrency(t *testing.T) {
	a := NewCodeAllocator("CNX", 0)

	const n = 200
	var wg sync.WaitGroup
	codes := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, code := a.Next()
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]struct{}, n)
	for c := range codes {
		_, dup := seen[c]
		require.False(t, dup, "duplicate booking code %s", c)
		seen[c] = struct{}{}
	}
	assert.Len(t, seen, n)
}
