package serial

import (
	"fmt"
	"github.com/puzpuzpuz/xsync/v3"
	"iter"
	"reflect"
	"unsafe"
)

// --------------------------------------------------------------------------
// Element type checks
// --------------------------------------------------------------------------

var (
	messageType = reflect.TypeFor[Message]()

	// elementChecks caches the verdict of checkElement per type
	elementChecks = xsync.NewMapOf[reflect.Type, error]()
)

// checkElement verifies that T can be carried by a typed view: it must not be a
// message and must consist of plain data only. Violations panic.
func checkElement[T any]() {
	t := reflect.TypeFor[T]()
	err, ok := elementChecks.Load(t)
	if !ok {
		err, _ = elementChecks.LoadOrCompute(t, func() error { return elementError(t) })
	}
	if err != nil {
		panic(err)
	}
}

func elementError(t reflect.Type) error {
	if t.Implements(messageType) || reflect.PointerTo(t).Implements(messageType) {
		return fmt.Errorf("%w: %s", ErrMessageElement, t)
	}
	if !isPlainData(t) {
		return fmt.Errorf("%w: %s", ErrNotPlainData, t)
	}
	return nil
}

// isPlainData reports whether every bit pattern of t is a valid value and t
// holds no pointers. bool is rejected since only 0 and 1 are valid.
func isPlainData(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isPlainData(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !isPlainData(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// bytesOf returns the memory of the n values starting at p
func bytesOf[T any](p *T, n int) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), n*int(unsafe.Sizeof(*p)))
}

// load reads a T from b, which must hold at least sizeof(T) bytes. Aligned
// memory is read in place, everything else is copied first.
func load[T any](b []byte) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T)
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%unsafe.Alignof(zero) == 0 {
		return (*T)(p)
	}
	out := new(T)
	copy(bytesOf(out, 1), b[:size])
	return out
}

// --------------------------------------------------------------------------
// FixedView
// --------------------------------------------------------------------------

// FixedView references exactly one T. T must be plain data and not a message.
type FixedView[T any] struct {
	View
}

// NewFixedView creates a view over the memory of *p
func NewFixedView[T any](p *T) FixedView[T] {
	checkElement[T]()
	return FixedView[T]{View: NewView(bytesOf(p, 1))}
}

// Assign points the view at *p
func (v *FixedView[T]) Assign(p *T) {
	v.View.Assign(bytesOf(p, 1))
}

// Get returns the referenced value, or nil when the view does not hold
// exactly one T. The result aliases the view memory unless that memory is
// misaligned for T, in which case it points to a copy.
func (v *FixedView[T]) Get() *T {
	var zero T
	if len(v.data) != int(unsafe.Sizeof(zero)) {
		return nil
	}
	return load[T](v.data)
}

func (v *FixedView[T]) Kind() Kind { return KindFixed }

func (v *FixedView[T]) bind() binding {
	checkElement[T]()
	var zero T
	return binding{
		kind:     KindFixed,
		view:     &v.View,
		elemSize: int(unsafe.Sizeof(zero)),
		elems: func(fn func(int, any)) {
			if p := v.Get(); p != nil {
				fn(0, *p)
			}
		},
	}
}

// --------------------------------------------------------------------------
// ArrayView
// --------------------------------------------------------------------------

// ArrayView references a densely packed run of T. T must be plain data and
// not a message.
type ArrayView[T any] struct {
	View
}

// NewArrayView creates a view over the backing memory of elems
func NewArrayView[T any](elems []T) ArrayView[T] {
	checkElement[T]()
	return ArrayView[T]{View: NewView(bytesOf(unsafe.SliceData(elems), len(elems)))}
}

// Assign points the view at the backing memory of elems
func (a *ArrayView[T]) Assign(elems []T) {
	a.View.Assign(bytesOf(unsafe.SliceData(elems), len(elems)))
}

func (a *ArrayView[T]) elemSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Count returns the number of elements
func (a *ArrayView[T]) Count() int {
	size := a.elemSize()
	if size == 0 {
		return 0
	}
	return len(a.data) / size
}

// At returns element i. It panics if i is out of range.
func (a *ArrayView[T]) At(i int) T {
	if i < 0 || i >= a.Count() {
		panic(fmt.Sprintf("serial: index %d out of range [0:%d]", i, a.Count()))
	}
	size := a.elemSize()
	return *load[T](a.data[i*size : (i+1)*size])
}

// Slice returns the elements as a slice. The slice aliases the view memory
// when it is aligned for T and is a copy otherwise.
func (a *ArrayView[T]) Slice() []T {
	n := a.Count()
	if n == 0 {
		return nil
	}
	var zero T
	p := unsafe.Pointer(unsafe.SliceData(a.data))
	if uintptr(p)%unsafe.Alignof(zero) == 0 {
		return unsafe.Slice((*T)(p), n)
	}
	out := make([]T, n)
	copy(bytesOf(unsafe.SliceData(out), n), a.data)
	return out
}

// All iterates over index and element pairs
func (a *ArrayView[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range a.Count() {
			if !yield(i, a.At(i)) {
				return
			}
		}
	}
}

func (a *ArrayView[T]) Kind() Kind { return KindArray }

func (a *ArrayView[T]) bind() binding {
	checkElement[T]()
	return binding{
		kind:     KindArray,
		view:     &a.View,
		elemSize: a.elemSize(),
		elems: func(fn func(int, any)) {
			for i, e := range a.All() {
				fn(i, e)
			}
		},
	}
}

// --------------------------------------------------------------------------
// Scalars and nested messages
// --------------------------------------------------------------------------

// Number lists the scalar types a message body can carry
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

type scalarField struct {
	raw   []byte
	value func() any
}

// Scalar declares *p as a scalar field. Scalars travel inside the message body
// in native byte order.
func Scalar[T Number](p *T) Field {
	return scalarField{
		raw:   bytesOf(p, 1),
		value: func() any { return *p },
	}
}

func (s scalarField) Kind() Kind { return KindScalar }

func (s scalarField) bind() binding {
	return binding{kind: KindScalar, raw: s.raw, value: s.value}
}

type messageField struct {
	msg Message
}

// Sub declares m as a nested message field. Its fields are traversed in place
// of the Sub field.
func Sub(m Message) Field {
	return messageField{msg: m}
}

func (m messageField) Kind() Kind { return KindMessage }

func (m messageField) bind() binding {
	return binding{kind: KindMessage, msg: m.msg}
}
