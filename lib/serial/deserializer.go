package serial

import (
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
)

// Deserializer reconstructs messages from an input source
type Deserializer struct {
	src *iovec.Source
	err error
}

// NewDeserializer creates a deserializer reading from src
func NewDeserializer(src *iovec.Source) *Deserializer {
	return &Deserializer{src: src}
}

// Deserialize fills m from the source. The body is taken from the back of the
// source, then the fields from the front in serialization order.
//
// It returns false if no body could be extracted; m is untouched in that
// case. A true result does not mean every field was filled: extraction
// continues past a shortage, so check Failed before trusting m.
//
// Failed and Err describe the most recent call only; each call starts
// without a failure.
func (d *Deserializer) Deserialize(m Message) bool {
	d.err = nil

	size := BodySize(m)
	body, ok := d.src.ExtractBack(size)
	if !ok {
		d.fail(fmt.Errorf("%w: body needs %d bytes at the back, %d available", ErrShortfall, size, d.src.Len()))
		return false
	}

	if err := decodeBody(m, body); err != nil {
		d.fail(err)
	}

	processPasses(m, NewArchive(d))
	m.ProcessFields(stringCheck{d: d})
	return true
}

// Deserialize is a typed form of (*Deserializer).Deserialize. It returns nil
// if the body could not be extracted.
func Deserialize[T any, P interface {
	*T
	Message
}](d *Deserializer) *T {
	var v T
	if !d.Deserialize(P(&v)) {
		return nil
	}
	return &v
}

// Failed reports whether any extraction of the last Deserialize call failed.
// Within a call the flag is sticky.
func (d *Deserializer) Failed() bool {
	return d.err != nil
}

// Err returns the first extraction failure, nil if there was none
func (d *Deserializer) Err() error {
	return d.err
}

// Buffer implements Primitives
func (d *Deserializer) Buffer(v *View) {
	if v.size == 0 {
		v.data = nil
		return
	}
	b, ok := d.src.ExtractFrontContiguous(v.size)
	if !ok {
		d.fail(fmt.Errorf("%w: field needs %d contiguous bytes", ErrShortfall, v.size))
		return
	}
	v.data = b
}

// Segments implements Primitives
func (d *Deserializer) Segments(sv *SegmentArrayView) {
	if sv.summed == 0 {
		sv.segs = nil
		return
	}
	segs, n := d.src.ExtractFront(sv.summed)
	if n != sv.summed {
		d.fail(fmt.Errorf("%w: segment array needs %d bytes, got %d", ErrShortfall, sv.summed, n))
		return
	}
	sv.segs = segs
}

func (d *Deserializer) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// stringCheck fails the deserializer for every filled string view that does
// not end in its terminator
type stringCheck struct {
	d *Deserializer
}

func (c stringCheck) Process(fields ...Field) {
	for _, f := range fields {
		b := f.bind()
		switch b.kind {
		case KindString:
			if n := len(b.view.data); n > 0 && b.view.data[n-1] != 0 {
				c.d.fail(fmt.Errorf("%w: string of %d bytes is not NUL terminated", ErrMalformedBody, n))
			}
		case KindMessage:
			b.msg.ProcessFields(c)
		}
	}
}
