package serial

import "github.com/ValentinKolb/zcrpc/lib/iovec"

// Footprint describes what serializing a message will append
type Footprint struct {
	// Segments is the number of segments, body included
	Segments int
	// Bytes is the total number of bytes, body included
	Bytes int
	// Body is the size of the body segment
	Body int
}

type measurer struct {
	fp Footprint
}

// Measure returns the footprint of m without serializing it. Sizing the
// output vector with Footprint.Segments guarantees it will not overflow.
func Measure(m Message) Footprint {
	var ms measurer
	m.ProcessFields(NewArchive(&ms))

	ms.fp.Body = BodySize(m)
	if ms.fp.Body > 0 {
		ms.fp.Segments++
		ms.fp.Bytes += ms.fp.Body
	}
	return ms.fp
}

func (ms *measurer) Buffer(v *View) {
	ms.add(v.data)
}

func (ms *measurer) Segments(sv *SegmentArrayView) {
	for _, seg := range sv.segs {
		ms.add(seg)
	}
}

func (ms *measurer) add(seg []byte) {
	if len(seg) > 0 {
		ms.fp.Segments++
		ms.fp.Bytes += len(seg)
	}
}

// Encode serializes m into a new vector sized by Measure
func Encode(m Message) (*iovec.Vector, error) {
	return EncodeWithLimit(m, 0)
}

// EncodeWithLimit serializes m into a new vector of at most limit segments.
// A limit of zero or less means no limit. Exceeding the limit returns the
// partial vector together with ErrVectorFull.
func EncodeWithLimit(m Message, limit int) (*iovec.Vector, error) {
	capacity := Measure(m).Segments
	if limit > 0 && capacity > limit {
		capacity = limit
	}
	iov := iovec.NewVector(capacity)
	err := NewSerializer(iov).Serialize(m)
	return iov, err
}
