// Package serial implements a zero-copy scatter-gather message serializer.
//
// A message is any type that declares its fields through ProcessFields. The
// fields are views (non-owning references to bytes held elsewhere), scalars
// and nested messages:
//
//	type Greeting struct {
//		Seq  uint64
//		Blob serial.AlignedView
//		Text serial.StringView
//	}
//
//	func (g *Greeting) ProcessFields(ar serial.Archive) {
//		ar.Process(serial.Scalar(&g.Seq), &g.Blob, &g.Text)
//	}
//
// Serializing a message appends one segment per non-empty view to an
// iovec.Vector. Aligned views go first, then all other views, then one final
// segment holding the message body. The body carries every scalar in native
// byte order plus the declared length of every view, so the receiver knows how
// many bytes to take for each field. No payload byte is copied: the vector
// references the memory the views point to.
//
// Deserializing inverts this. The body is taken from the back of an
// iovec.Source first, then the views are filled from the front in the same
// two-pass order. The resulting views alias the source memory and are only
// valid for as long as that memory is.
//
// Neither side aborts on trouble. A serializer that runs out of segment slots
// drops the remaining fields and reports Full; a deserializer that runs out of
// bytes leaves the remaining views unset and reports Failed. The caller
// decides what to do with the partial result.
//
// Serializers and deserializers are not safe for concurrent use. Separate
// instances working on separate vectors, sources and messages may run in
// parallel.
package serial
