package serial

import "fmt"

// Message is implemented by every serializable type. ProcessFields passes the
// fields of the message to ar.Process in declaration order. The list must be
// the same for every value of a type: the body layout is derived from it.
type Message interface {
	ProcessFields(ar Archive)
}

// Archive consumes the fields a message declares
type Archive interface {
	Process(fields ...Field)
}

// Primitives are the operations a concrete archive provides. NewArchive turns
// them into a full Archive.
type Primitives interface {
	// Buffer places or extracts the bytes of a buffer-like view
	Buffer(v *View)
	// Segments places or extracts the members of a segment array
	Segments(s *SegmentArrayView)
}

// ElementVisitor can be implemented by Primitives that want to see every
// element of fixed and array views after the view itself was processed.
type ElementVisitor interface {
	Element(i int, v any)
}

// Base provides primitives that panic with ErrNotImplemented. Embed it to
// build archives that only support some field kinds.
type Base struct{}

func (Base) Buffer(*View) {
	panic(fmt.Errorf("%w: buffer", ErrNotImplemented))
}

func (Base) Segments(*SegmentArrayView) {
	panic(fmt.Errorf("%w: segments", ErrNotImplemented))
}

// --------------------------------------------------------------------------
// Default traversal
// --------------------------------------------------------------------------

type walker struct {
	p     Primitives
	elems ElementVisitor
}

// NewArchive creates an archive that dispatches fields to p:
//
//   - scalars are skipped, they travel in the body
//   - buffers, aligned buffers and strings go to Buffer
//   - fixed and array views go to Buffer, then their elements to Element
//   - segment arrays go to Segments
//   - nested messages are traversed with the same archive
func NewArchive(p Primitives) Archive {
	w := &walker{p: p}
	w.elems, _ = p.(ElementVisitor)
	return w
}

func (w *walker) Process(fields ...Field) {
	for _, f := range fields {
		b := f.bind()
		switch b.kind {
		case KindScalar:
		case KindBuffer, KindAlignedBuffer, KindString:
			w.p.Buffer(b.view)
		case KindFixed, KindArray:
			w.p.Buffer(b.view)
			if w.elems != nil {
				b.elems(w.elems.Element)
			}
		case KindSegments, KindAlignedSegments:
			w.p.Segments(b.segs)
		case KindMessage:
			b.msg.ProcessFields(w)
		}
	}
}

// --------------------------------------------------------------------------
// Aligned / unaligned filter
// --------------------------------------------------------------------------

type alignedFilter struct {
	target  Archive
	aligned bool
}

// FilterAligned creates an archive that forwards to target only the fields
// whose Kind().Aligned() equals aligned. Nested messages are descended by the
// filter itself, so their fields are sorted into the passes as well: the
// aligned fields of a nested message are placed together with those of the
// outermost message, and the nested message never appears as one block.
func FilterAligned(target Archive, aligned bool) Archive {
	return &alignedFilter{target: target, aligned: aligned}
}

func (f *alignedFilter) Process(fields ...Field) {
	for _, field := range fields {
		kind := field.Kind()
		if kind == KindMessage {
			field.bind().msg.ProcessFields(f)
			continue
		}
		if kind.Aligned() == f.aligned {
			f.target.Process(field)
		}
	}
}

// processPasses runs the aligned pass, then the unaligned pass of m over ar
func processPasses(m Message, ar Archive) {
	m.ProcessFields(FilterAligned(ar, true))
	m.ProcessFields(FilterAligned(ar, false))
}
