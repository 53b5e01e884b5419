package serial

import (
	"strings"
	"testing"
)

// elementCollector records buffers and elements seen by the default traversal
type elementCollector struct {
	buffers  int
	segments int
	elements []any
}

func (c *elementCollector) Buffer(*View) { c.buffers++ }
func (c *elementCollector) Segments(*SegmentArrayView) { c.segments++ }
func (c *elementCollector) Element(_ int, v any) { c.elements = append(c.elements, v) }

// TestElementVisitor checks that fixed and array views expose their elements
// while strings and raw buffers do not
func TestElementVisitor(t *testing.T) {
	p := pair{A: 1, B: 2}
	fixed := NewFixedView(&p)
	array := NewArrayView([]uint16{10, 20, 30})
	str := NewStringView("abc")
	raw := NewView([]byte("raw"))
	segs := NewSegmentArrayView([]byte("s"))

	c := &elementCollector{}
	NewArchive(c).Process(&fixed, &array, &str, &raw, &segs)

	if c.buffers != 4 {
		t.Errorf("expected 4 buffers, got %d", c.buffers)
	}
	if c.segments != 1 {
		t.Errorf("expected 1 segment array, got %d", c.segments)
	}
	if len(c.elements) != 4 {
		t.Fatalf("expected 4 elements, got %d: %v", len(c.elements), c.elements)
	}
	if c.elements[0] != p {
		t.Errorf("expected first element %v, got %v", p, c.elements[0])
	}
	if c.elements[3] != uint16(30) {
		t.Errorf("expected last element 30, got %v", c.elements[3])
	}
}

// TestFilterAligned checks the routing of both passes
func TestFilterAligned(t *testing.T) {
	a := NewAlignedView([]byte("a"))
	b := NewView([]byte("b"))
	as := NewAlignedSegmentArrayView([]byte("as"))
	s := NewSegmentArrayView([]byte("s"))

	aligned := &elementCollector{}
	unaligned := &elementCollector{}
	fieldsOf(&a, &b, &as, &s).ProcessFields(FilterAligned(NewArchive(aligned), true))
	fieldsOf(&a, &b, &as, &s).ProcessFields(FilterAligned(NewArchive(unaligned), false))

	if aligned.buffers != 1 || aligned.segments != 1 {
		t.Errorf("aligned pass saw %d buffers and %d segment arrays", aligned.buffers, aligned.segments)
	}
	if unaligned.buffers != 1 || unaligned.segments != 1 {
		t.Errorf("unaligned pass saw %d buffers and %d segment arrays", unaligned.buffers, unaligned.segments)
	}
}

func TestDescribe(t *testing.T) {
	values := make([]uint32, 12)
	for i := range values {
		values[i] = uint32(i)
	}
	r := &record{
		Header: header{Seq: 5, Tag: NewAlignedView([]byte("tag"))},
		Name:   NewStringView("demo"),
		Parts:  NewSegmentArrayView([]byte("ab"), []byte("c")),
	}
	r.Values.Assign([]uint64{1, 2})

	out := Describe(r)
	for _, want := range []string{
		"record {",
		"  header {",
		"    scalar 5",
		"    aligned buffer 3B",
		`  string "demo" (5B)`,
		"  array 16B [1 2]",
		"  segments 2 segment(s) 3B",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("description lacks %q:\n%s", want, out)
		}
	}

	long := NewArrayView(values)
	out = Describe(fieldsOf(&long))
	if !strings.Contains(out, "0 1 2 3 4 5 6 7 ...]") {
		t.Errorf("long arrays should be truncated:\n%s", out)
	}
}

func TestKindString(t *testing.T) {
	if KindAlignedSegments.String() != "aligned segments" {
		t.Errorf("unexpected name %q", KindAlignedSegments.String())
	}
	if Kind(200).String() != "unknown" {
		t.Errorf("unexpected name %q", Kind(200).String())
	}
	if !KindAlignedBuffer.Aligned() || KindString.Aligned() {
		t.Error("wrong alignment classification")
	}
}
