package serial

import (
	"encoding/binary"
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
	"reflect"
)

// lengthSize is the space a view length takes in the body
const lengthSize = 8

// bodySizes caches BodySize per message type
var bodySizes = xsync.NewMapOf[reflect.Type, int]()

// BodySize returns the number of bytes the body of m occupies. The body holds
// every scalar of m and its nested messages, and one length per view and
// segment array, in declaration order.
func BodySize(m Message) int {
	t := reflect.TypeOf(m)
	size, _ := bodySizes.LoadOrCompute(t, func() int {
		var s bodySizer
		m.ProcessFields(&s)
		return s.size
	})
	return size
}

type bodySizer struct {
	size int
}

func (s *bodySizer) Process(fields ...Field) {
	for _, f := range fields {
		b := f.bind()
		switch b.kind {
		case KindScalar:
			s.size += len(b.raw)
		case KindMessage:
			b.msg.ProcessFields(s)
		default:
			s.size += lengthSize
		}
	}
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

type bodyWriter struct {
	buf []byte
}

// encodeBody returns a freshly allocated body for m. Segment arrays must have
// their summed sizes up to date.
func encodeBody(m Message) []byte {
	w := bodyWriter{buf: make([]byte, 0, BodySize(m))}
	m.ProcessFields(&w)
	return w.buf
}

func (w *bodyWriter) Process(fields ...Field) {
	for _, f := range fields {
		b := f.bind()
		switch b.kind {
		case KindScalar:
			w.buf = append(w.buf, b.raw...)
		case KindMessage:
			b.msg.ProcessFields(w)
		case KindSegments, KindAlignedSegments:
			w.buf = binary.NativeEndian.AppendUint64(w.buf, uint64(b.segs.summed))
		default:
			w.buf = binary.NativeEndian.AppendUint64(w.buf, uint64(len(b.view.data)))
		}
	}
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

type bodyReader struct {
	buf []byte
	err error
}

// decodeBody writes the scalars of body into m and declares the length of
// every view. Views are left without data until they are filled from the
// source. The first inconsistency found is returned.
func decodeBody(m Message, body []byte) error {
	r := bodyReader{buf: body}
	m.ProcessFields(&r)
	return r.err
}

func (r *bodyReader) Process(fields ...Field) {
	for _, f := range fields {
		b := f.bind()
		switch b.kind {
		case KindScalar:
			n := copy(b.raw, r.buf)
			r.buf = r.buf[n:]
		case KindMessage:
			b.msg.ProcessFields(r)
		case KindSegments, KindAlignedSegments:
			b.segs.segs = nil
			b.segs.summed = r.length()
		default:
			size := r.length()
			b.view.data = nil
			b.view.size = size
			r.check(b, size)
		}
	}
}

// length consumes one view length from the body
func (r *bodyReader) length() int {
	if len(r.buf) < lengthSize {
		r.fail(fmt.Errorf("%w: body truncated", ErrMalformedBody))
		r.buf = nil
		return 0
	}
	n := binary.NativeEndian.Uint64(r.buf)
	r.buf = r.buf[lengthSize:]
	if n > uint64(maxInt) {
		r.fail(fmt.Errorf("%w: length %d out of range", ErrMalformedBody, n))
		return 0
	}
	return int(n)
}

// check verifies a declared length against the element size of typed views
func (r *bodyReader) check(b binding, size int) {
	switch b.kind {
	case KindFixed:
		if size != 0 && size != b.elemSize {
			r.fail(fmt.Errorf("%w: fixed view of %d bytes declares %d", ErrMalformedBody, b.elemSize, size))
		}
	case KindArray:
		if b.elemSize > 0 && size%b.elemSize != 0 {
			r.fail(fmt.Errorf("%w: array of %d byte elements declares %d bytes", ErrMalformedBody, b.elemSize, size))
		}
	}
}

func (r *bodyReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

const maxInt = int(^uint(0) >> 1)
