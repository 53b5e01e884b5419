package serial

import "errors"

var (
	// ErrVectorFull is reported when a serializer had to drop fields because
	// the output vector ran out of segment slots
	ErrVectorFull = errors.New("serial: output vector full")

	// ErrShortfall is reported when the input source could not supply the
	// bytes a field declared
	ErrShortfall = errors.New("serial: source shortfall")

	// ErrMalformedBody is reported when a decoded body declares a length that
	// cannot belong to its field, or when a string arrives without its
	// terminator
	ErrMalformedBody = errors.New("serial: malformed body")

	// ErrNotPlainData is raised (as a panic) when a typed view is declared over
	// a type that holds pointers
	ErrNotPlainData = errors.New("serial: element type is not plain data")

	// ErrMessageElement is raised (as a panic) when a typed view is declared
	// over a message type
	ErrMessageElement = errors.New("serial: message used as view element")

	// ErrNotImplemented is raised (as a panic) by Base for primitives a
	// concrete archive did not provide
	ErrNotImplemented = errors.New("serial: primitive not implemented")
)
