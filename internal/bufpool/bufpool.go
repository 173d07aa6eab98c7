// Package bufpool recycles byte buffers across the payload encode and decode
// paths. Buffers live in size-class pools: Get draws from the smallest class
// that fits, and Put files a buffer under the largest class not exceeding
// its capacity, so buffers allocated elsewhere can be recycled too.
package bufpool

import "sync"

// Size classes for pooled buffers. Requests beyond the largest class fall
// through to plain allocation.
var sizes = [...]int{64, 256, 1 << 10, 4 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20}

var pools [len(sizes)]sync.Pool

// Get returns a buffer with length n. Its capacity may exceed n.
func Get(n int) []byte {
	for i, s := range sizes {
		if s >= n {
			if b, ok := pools[i].Get().([]byte); ok {
				return b[:n]
			}
			return make([]byte, n, s)
		}
	}
	return make([]byte, n)
}

// Put files b for reuse. Buffers smaller than the smallest size class are
// dropped. The contents are not cleared; callers must not touch b afterwards.
func Put(b []byte) {
	c := cap(b)
	for i := len(sizes) - 1; i >= 0; i-- {
		if c >= sizes[i] {
			pools[i].Put(b[:0])
			return
		}
	}
}
