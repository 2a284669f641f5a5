package booking

import (
	"fmt"
	"sync"
)

// CodeAllocator hands out the sequential human-readable booking codes
// (prefix + zero-padded ordinal, e.g. CNX-000042).  Codes must be unique
// across all shows, so allocation is the one globally serialized step in
// the booking path: a single mutex guards the counter.  The counter is
// seeded from the highest persisted ordinal at startup, which replaces
// the count-then-format pattern that races under concurrent checkouts.
type CodeAllocator struct {
	mu     sync.Mutex
	prefix string
	last   uint64
}

// NewCodeAllocator returns an allocator that will hand out lastUsed+1
// next.  The prefix defaults to "CNX" when empty.
func NewCodeAllocator(prefix string, lastUsed uint64) *CodeAllocator {
	if prefix == "" {
		prefix = "CNX"
	}
	return &CodeAllocator{prefix: prefix, last: lastUsed}
}

// Next allocates the next ordinal and returns it with its formatted code.
func (a *CodeAllocator) Next() (uint64, string) {
	a.mu.Lock()
	a.last++
	n := a.last
	a.mu.Unlock()
	return n, fmt.Sprintf("%s-%06d", a.prefix, n)
}
