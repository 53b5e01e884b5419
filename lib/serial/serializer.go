package serial

import (
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
)

// Serializer appends messages to an output vector
type Serializer struct {
	iov     *iovec.Vector
	full    bool
	dropped int
}

// NewSerializer creates a serializer writing into iov. The vector is owned by
// the caller and must outlive every use of its segments.
func NewSerializer(iov *iovec.Vector) *Serializer {
	return &Serializer{iov: iov}
}

// Serialize appends the fields of m to the vector: aligned fields first, then
// all other fields, then the body. If the vector runs out of slots the
// remaining segments are dropped and ErrVectorFull is returned; the segments
// appended so far stay in the vector.
//
// Empty fields are skipped before the slot check, so they never cause
// ErrVectorFull, not even on a vector that is already full. The body is not
// empty once a message declares a scalar or a view, so a full vector is still
// reported for such messages.
func (s *Serializer) Serialize(m Message) error {
	processPasses(m, NewArchive(s))
	s.push(encodeBody(m))
	return s.Err()
}

// Full reports whether any segment was dropped for lack of free slots
func (s *Serializer) Full() bool {
	return s.full
}

// Err returns ErrVectorFull (wrapped) if the vector overflowed, nil otherwise
func (s *Serializer) Err() error {
	if !s.full {
		return nil
	}
	return fmt.Errorf("%w: %d segment(s) dropped, capacity %d", ErrVectorFull, s.dropped, s.iov.Capacity())
}

// Vector returns the output vector
func (s *Serializer) Vector() *iovec.Vector {
	return s.iov
}

// Buffer implements Primitives
func (s *Serializer) Buffer(v *View) {
	s.push(v.data)
}

// Segments implements Primitives. The summed size is refreshed and every
// member is forwarded as its own segment.
func (s *Serializer) Segments(sv *SegmentArrayView) {
	sv.Sum()
	for _, seg := range sv.segs {
		s.push(seg)
	}
}

// push appends seg unless it is empty. Empty segments never need a slot.
func (s *Serializer) push(seg []byte) {
	if len(seg) == 0 {
		return
	}
	if !s.iov.PushBack(seg) {
		s.full = true
		s.dropped++
	}
}
