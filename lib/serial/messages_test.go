package serial

// Message types shared by the tests of this package

type pair struct {
	A, B uint32
}

// example holds one aligned and one unaligned view
type example struct {
	A AlignedView
	S StringView
}

func (m *example) ProcessFields(ar Archive) {
	ar.Process(&m.A, &m.S)
}

// reversed declares its unaligned field before the aligned one
type reversed struct {
	S StringView
	A AlignedView
}

func (m *reversed) ProcessFields(ar Archive) {
	ar.Process(&m.S, &m.A)
}

type header struct {
	Seq    uint64
	Status int32
	Tag    AlignedView
}

func (h *header) ProcessFields(ar Archive) {
	ar.Process(Scalar(&h.Seq), Scalar(&h.Status), &h.Tag)
}

// record uses every field kind
type record struct {
	Header  header
	Ratio   float64
	Raw     View
	Name    StringView
	Pair    FixedView[pair]
	Values  ArrayView[uint64]
	Parts   SegmentArrayView
	Aligned AlignedSegmentArrayView
}

func (r *record) ProcessFields(ar Archive) {
	ar.Process(
		Sub(&r.Header),
		Scalar(&r.Ratio),
		&r.Raw,
		&r.Name,
		&r.Pair,
		&r.Values,
		&r.Parts,
		&r.Aligned,
	)
}

type threeBuffers struct {
	A, B, C View
}

func (m *threeBuffers) ProcessFields(ar Archive) {
	ar.Process(&m.A, &m.B, &m.C)
}

type envelope struct {
	Note  StringView
	Inner SegmentArrayView
}

func (e *envelope) ProcessFields(ar Archive) {
	ar.Process(&e.Note, &e.Inner)
}

type rawOnly struct {
	V View
}

func (m *rawOnly) ProcessFields(ar Archive) {
	ar.Process(&m.V)
}

type stringOnly struct {
	S StringView
}

func (m *stringOnly) ProcessFields(ar Archive) {
	ar.Process(&m.S)
}

// wrapped nests a stringOnly
type wrapped struct {
	Inner stringOnly
}

func (m *wrapped) ProcessFields(ar Archive) {
	ar.Process(Sub(&m.Inner))
}

type fixedOnly struct {
	F FixedView[pair]
}

func (m *fixedOnly) ProcessFields(ar Archive) {
	ar.Process(&m.F)
}

// messageElement is a message and therefore not a valid view element
type messageElement struct {
	X uint32
}

func (m *messageElement) ProcessFields(ar Archive) {}

type empty struct{}

func (e *empty) ProcessFields(ar Archive) {}

// fieldList is a message over an arbitrary field list. Body sizes are cached
// per type, so it is only suitable for traversal tests.
type fieldList []Field

func (l fieldList) ProcessFields(ar Archive) {
	ar.Process(l...)
}

func fieldsOf(fields ...Field) fieldList {
	return fieldList(fields)
}
