package serial

// Kind identifies the traversal behaviour of a field
type Kind uint8

const (
	KindScalar Kind = iota
	KindBuffer
	KindAlignedBuffer
	KindFixed
	KindArray
	KindString
	KindSegments
	KindAlignedSegments
	KindMessage
)

var kindNames = [...]string{
	KindScalar:          "scalar",
	KindBuffer:          "buffer",
	KindAlignedBuffer:   "aligned buffer",
	KindFixed:           "fixed",
	KindArray:           "array",
	KindString:          "string",
	KindSegments:        "segments",
	KindAlignedSegments: "aligned segments",
	KindMessage:         "message",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Aligned reports whether fields of this kind belong to the aligned pass
func (k Kind) Aligned() bool {
	return k == KindAlignedBuffer || k == KindAlignedSegments
}

// Field is a single declared field of a message. The set of field kinds is
// closed: only the view types of this package, Scalar and Sub produce fields.
type Field interface {
	Kind() Kind
	bind() binding
}

// binding is the package internal description of a field handed to archives
type binding struct {
	kind Kind

	// buffer-like kinds
	view *View
	// element size for fixed and array views, checked when a body is decoded
	elemSize int
	// elems calls fn for every element of a fixed or array view
	elems func(fn func(i int, v any))

	// segment kinds
	segs *SegmentArrayView

	// scalars
	raw   []byte
	value func() any

	// nested messages
	msg Message
}
