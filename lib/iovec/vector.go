package iovec

import (
	"io"
	"net"
)

// Vector is a bounded list of output segments.
type Vector struct {
	segs  [][]byte
	limit int
	sum   int
}

// NewVector creates a vector that accepts at most capacity segments.
func NewVector(capacity int) *Vector {
	if capacity < 0 {
		capacity = 0
	}
	return &Vector{
		segs:  make([][]byte, 0, capacity),
		limit: capacity,
	}
}

// Capacity returns the total number of segment slots
func (v *Vector) Capacity() int {
	return v.limit
}

// FreeCount returns the number of segment slots still available
func (v *Vector) FreeCount() int {
	return v.limit - len(v.segs)
}

// PushBack appends seg as a new segment. It returns false without modifying
// the vector when no slot is free.
func (v *Vector) PushBack(seg []byte) bool {
	if len(v.segs) >= v.limit {
		return false
	}
	v.segs = append(v.segs, seg)
	v.sum += len(seg)
	return true
}

// Len returns the number of segments
func (v *Vector) Len() int {
	return len(v.segs)
}

// Sum returns the total number of bytes over all segments
func (v *Vector) Sum() int {
	return v.sum
}

// Segments returns the segment list. The returned slice must not be modified.
func (v *Vector) Segments() [][]byte {
	return v.segs
}

// Buffers returns the segments as net.Buffers. The outer slice is a copy, so
// writing the buffers (which consumes them) leaves the vector intact.
func (v *Vector) Buffers() net.Buffers {
	bufs := make(net.Buffers, len(v.segs))
	copy(bufs, v.segs)
	return bufs
}

// WriteTo writes all segments to w, using writev where the writer supports it.
func (v *Vector) WriteTo(w io.Writer) (int64, error) {
	bufs := v.Buffers()
	return bufs.WriteTo(w)
}

// Bytes gathers all segments into one newly allocated slice
func (v *Vector) Bytes() []byte {
	out := make([]byte, 0, v.sum)
	for _, seg := range v.segs {
		out = append(out, seg...)
	}
	return out
}

// Reset drops all segments but keeps the capacity
func (v *Vector) Reset() {
	clear(v.segs)
	v.segs = v.segs[:0]
	v.sum = 0
}
