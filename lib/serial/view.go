package serial

import "github.com/ValentinKolb/zcrpc/lib/iovec"

// --------------------------------------------------------------------------
// View
// --------------------------------------------------------------------------

// View is a non-owning reference to a contiguous byte region. The zero value
// is an empty view.
type View struct {
	data []byte
	// size is the declared length. It equals len(data) except between decoding
	// a body and filling the view from the source.
	size int
}

// NewView creates a view over b
func NewView(b []byte) View {
	return View{data: b, size: len(b)}
}

// Assign points the view at b
func (v *View) Assign(b []byte) {
	v.data = b
	v.size = len(b)
}

// Bytes returns the referenced bytes, nil if the view is unset
func (v *View) Bytes() []byte {
	return v.data
}

// Len returns the declared length of the view
func (v *View) Len() int {
	return v.size
}

func (v *View) Kind() Kind { return KindBuffer }

func (v *View) bind() binding {
	return binding{kind: KindBuffer, view: v}
}

// AlignedView is a View whose bytes are placed in the aligned pass
type AlignedView struct {
	View
}

// NewAlignedView creates an aligned view over b
func NewAlignedView(b []byte) AlignedView {
	return AlignedView{View: NewView(b)}
}

func (v *AlignedView) Kind() Kind { return KindAlignedBuffer }

func (v *AlignedView) bind() binding {
	return binding{kind: KindAlignedBuffer, view: &v.View}
}

// --------------------------------------------------------------------------
// StringView
// --------------------------------------------------------------------------

// StringView is a NUL-terminated byte string. Its length always includes the
// terminator, so "hi" occupies three bytes.
type StringView struct {
	ArrayView[byte]
}

// NewStringView creates a string view holding s. Go strings are immutable and
// carry no terminator, so this allocates len(s)+1 bytes.
func NewStringView(s string) StringView {
	var sv StringView
	sv.AssignString(s)
	return sv
}

// AssignString replaces the content of the view with a terminated copy of s
func (s *StringView) AssignString(str string) {
	b := make([]byte, len(str)+1)
	copy(b, str)
	s.View.Assign(b)
}

// String returns the content without the terminator
func (s *StringView) String() string {
	return trimNUL(s.data)
}

func trimNUL(b []byte) string {
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b)
}

func (s *StringView) Kind() Kind { return KindString }

func (s *StringView) bind() binding {
	return binding{kind: KindString, view: &s.View}
}

// --------------------------------------------------------------------------
// SegmentArrayView
// --------------------------------------------------------------------------

// SegmentArrayView references a list of segments, typically the serialized
// form of another message, together with the sum of their lengths.
type SegmentArrayView struct {
	segs   [][]byte
	summed int
}

// NewSegmentArrayView creates a view over segs
func NewSegmentArrayView(segs ...[]byte) SegmentArrayView {
	var sv SegmentArrayView
	sv.Assign(segs)
	return sv
}

// Assign replaces the member segments and returns the new summed size
func (s *SegmentArrayView) Assign(segs [][]byte) int {
	s.segs = segs
	return s.Sum()
}

// AssignVector references the segments collected in v
func (s *SegmentArrayView) AssignVector(v *iovec.Vector) int {
	return s.Assign(v.Segments())
}

// Sum recomputes the summed size from the member segments
func (s *SegmentArrayView) Sum() int {
	total := 0
	for _, seg := range s.segs {
		total += len(seg)
	}
	s.summed = total
	return total
}

// SummedSize returns the summed size as of the last assignment or traversal
func (s *SegmentArrayView) SummedSize() int {
	return s.summed
}

// Segments returns the member segments
func (s *SegmentArrayView) Segments() [][]byte {
	return s.segs
}

// Count returns the number of member segments
func (s *SegmentArrayView) Count() int {
	return len(s.segs)
}

// Bytes gathers the member segments into a new slice
func (s *SegmentArrayView) Bytes() []byte {
	out := make([]byte, 0, s.summed)
	for _, seg := range s.segs {
		out = append(out, seg...)
	}
	return out
}

func (s *SegmentArrayView) Kind() Kind { return KindSegments }

func (s *SegmentArrayView) bind() binding {
	return binding{kind: KindSegments, segs: s}
}

// AlignedSegmentArrayView is a SegmentArrayView placed in the aligned pass
type AlignedSegmentArrayView struct {
	SegmentArrayView
}

// NewAlignedSegmentArrayView creates an aligned view over segs
func NewAlignedSegmentArrayView(segs ...[]byte) AlignedSegmentArrayView {
	return AlignedSegmentArrayView{SegmentArrayView: NewSegmentArrayView(segs...)}
}

func (s *AlignedSegmentArrayView) Kind() Kind { return KindAlignedSegments }

func (s *AlignedSegmentArrayView) bind() binding {
	return binding{kind: KindAlignedSegments, segs: &s.SegmentArrayView}
}
