package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	b := Get(100)
	assert.Len(t, b, 100)
	assert.GreaterOrEqual(t, cap(b), 100)
}

func TestGetZero(t *testing.T) {
	b := Get(0)
	assert.Len(t, b, 0)
	assert.GreaterOrEqual(t, cap(b), 1, "zero-length buffers still carry capacity for appends")
}

func TestGetOversized(t *testing.T) {
	n := sizes[len(sizes)-1] + 1
	b := Get(n)
	assert.Len(t, b, n)
}

func TestPutAcceptsForeignCapacities(t *testing.T) {
	// Odd-sized buffers land in the class below their capacity.
	Put(make([]byte, 100))
	b := Get(64)
	assert.Len(t, b, 64)
	assert.GreaterOrEqual(t, cap(b), 64)
}

func TestPutDropsTinyBuffers(t *testing.T) {
	Put(make([]byte, sizes[0]-1))
	b := Get(32)
	assert.Len(t, b, 32)
	assert.GreaterOrEqual(t, cap(b), 32)
}

func TestPutNil(t *testing.T) {
	Put(nil)
	b := Get(8)
	assert.Len(t, b, 8)
}
