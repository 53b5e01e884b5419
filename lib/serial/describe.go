package serial

import (
	"fmt"
	"reflect"
	"strings"
)

// maxDescribedElements limits how many elements of an array are printed
const maxDescribedElements = 8

type describer struct {
	sb    strings.Builder
	depth int
	shown int
}

// Describe returns a human readable dump of the fields of m, one per line, in
// declaration order. It is meant for logs and debugging.
func Describe(m Message) string {
	d := &describer{}
	d.message(m)
	return d.sb.String()
}

func (d *describer) message(m Message) {
	fmt.Fprintf(&d.sb, "%s {\n", typeName(m))
	d.depth++
	m.ProcessFields(d)
	d.depth--
	d.indent()
	d.sb.WriteString("}")
	if d.depth == 0 {
		d.sb.WriteString("\n")
	}
}

func (d *describer) Process(fields ...Field) {
	for _, f := range fields {
		b := f.bind()
		d.indent()
		switch b.kind {
		case KindScalar:
			fmt.Fprintf(&d.sb, "scalar %v", b.value())
		case KindString:
			fmt.Fprintf(&d.sb, "string %q (%dB)", trimNUL(b.view.data), b.view.Len())
		case KindFixed, KindArray:
			fmt.Fprintf(&d.sb, "%s %dB [", b.kind, b.view.Len())
			d.shown = 0
			b.elems(d.Element)
			if d.shown > maxDescribedElements {
				d.sb.WriteString(" ...")
			}
			d.sb.WriteString("]")
		case KindBuffer, KindAlignedBuffer:
			fmt.Fprintf(&d.sb, "%s %dB", b.kind, b.view.Len())
		case KindSegments, KindAlignedSegments:
			fmt.Fprintf(&d.sb, "%s %d segment(s) %dB", b.kind, b.segs.Count(), b.segs.SummedSize())
		case KindMessage:
			d.message(b.msg)
		}
		d.sb.WriteString("\n")
	}
}

// Element implements ElementVisitor
func (d *describer) Element(i int, v any) {
	d.shown++
	if d.shown > maxDescribedElements {
		return
	}
	if i > 0 {
		d.sb.WriteString(" ")
	}
	fmt.Fprintf(&d.sb, "%v", v)
}

func (d *describer) indent() {
	d.sb.WriteString(strings.Repeat("  ", d.depth))
}

func typeName(m Message) string {
	t := reflect.TypeOf(m)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
