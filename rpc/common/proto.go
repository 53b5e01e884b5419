package common

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/serial"
)

// --------------------------------------------------------------------------
// Methods
// --------------------------------------------------------------------------

// MethodID identifies the service a frame is addressed to. Responses carry
// the method of their request, or MethodError.
type MethodID uint64

const (
	MethodError MethodID = iota
	MethodEcho
	MethodSum
	MethodInfo
)

// String returns the string representation of a MethodID
func (m MethodID) String() string {
	switch m {
	case MethodError:
		return "error"
	case MethodEcho:
		return "echo"
	case MethodSum:
		return "sum"
	case MethodInfo:
		return "info"
	default:
		return fmt.Sprintf("method(%d)", uint64(m))
	}
}

// ParseMethodID converts a method name back to a MethodID
func ParseMethodID(s string) (MethodID, error) {
	switch s {
	case "error":
		return MethodError, nil
	case "echo":
		return MethodEcho, nil
	case "sum":
		return MethodSum, nil
	case "info":
		return MethodInfo, nil
	default:
		return 0, fmt.Errorf("unknown method: %s", s)
	}
}

// Status is the outcome stored in every response header
type Status uint32

const (
	StatusOK Status = iota
	StatusError
)

// --------------------------------------------------------------------------
// Header
// --------------------------------------------------------------------------

// Header is embedded in every protocol message
type Header struct {
	// Seq is chosen by the client and echoed by the server
	Seq    uint64
	Status Status
	// Err is set when Status is StatusError
	Err serial.StringView
}

func (h *Header) ProcessFields(ar serial.Archive) {
	ar.Process(serial.Scalar(&h.Seq), serial.Scalar(&h.Status), &h.Err)
}

// Head gives access to the embedded header
func (h *Header) Head() *Header {
	return h
}

// SetError marks the message as failed with err
func (h *Header) SetError(err error) {
	h.Status = StatusError
	h.Err = serial.NewStringView(err.Error())
}

// Failure returns the error carried by the header, nil for StatusOK
func (h *Header) Failure() error {
	if h.Status == StatusOK {
		return nil
	}
	if msg := h.Err.String(); msg != "" {
		return errors.New(msg)
	}
	return fmt.Errorf("request failed with status %d", h.Status)
}

// Headed is implemented by every protocol message through the embedded Header
type Headed interface {
	serial.Message
	Head() *Header
}

// --------------------------------------------------------------------------
// Echo
// --------------------------------------------------------------------------

// EchoRequest asks the server to return Note and Payload unchanged
type EchoRequest struct {
	Header
	Note    serial.StringView
	Payload serial.AlignedSegmentArrayView
}

func (r *EchoRequest) ProcessFields(ar serial.Archive) {
	ar.Process(serial.Sub(&r.Header), &r.Note, &r.Payload)
}

// EchoResponse carries the payload of an EchoRequest back
type EchoResponse struct {
	Header
	Note    serial.StringView
	Payload serial.AlignedSegmentArrayView
}

func (r *EchoResponse) ProcessFields(ar serial.Archive) {
	ar.Process(serial.Sub(&r.Header), &r.Note, &r.Payload)
}

// NewEchoRequest creates an echo request. The payload segments are referenced,
// not copied.
func NewEchoRequest(note string, payload ...[]byte) *EchoRequest {
	return &EchoRequest{
		Note:    serial.NewStringView(note),
		Payload: serial.NewAlignedSegmentArrayView(payload...),
	}
}

// NewEchoResponse answers req by forwarding its views
func NewEchoResponse(req *EchoRequest) *EchoResponse {
	resp := &EchoResponse{Note: req.Note}
	resp.Payload.Assign(req.Payload.Segments())
	return resp
}

// --------------------------------------------------------------------------
// Sum
// --------------------------------------------------------------------------

// Bounds holds the smallest and largest value of a SumRequest
type Bounds struct {
	Min uint64
	Max uint64
}

// SumRequest asks the server to add up Values
type SumRequest struct {
	Header
	Values serial.ArrayView[uint64]
}

func (r *SumRequest) ProcessFields(ar serial.Archive) {
	ar.Process(serial.Sub(&r.Header), &r.Values)
}

// NewSumRequest creates a sum request referencing values
func NewSumRequest(values []uint64) *SumRequest {
	return &SumRequest{Values: serial.NewArrayView(values)}
}

// SumResponse holds the result of a SumRequest. Bounds is unset for an empty
// request.
type SumResponse struct {
	Header
	Sum    uint64
	Count  uint32
	Bounds serial.FixedView[Bounds]
}

func (r *SumResponse) ProcessFields(ar serial.Archive) {
	ar.Process(serial.Sub(&r.Header), serial.Scalar(&r.Sum), serial.Scalar(&r.Count), &r.Bounds)
}

// --------------------------------------------------------------------------
// Info
// --------------------------------------------------------------------------

// InfoRequest asks the server to describe itself
type InfoRequest struct {
	Header
}

func (r *InfoRequest) ProcessFields(ar serial.Archive) {
	ar.Process(serial.Sub(&r.Header))
}

// InfoResponse describes a running server
type InfoResponse struct {
	Header
	Version     serial.StringView
	UptimeMs    uint64
	MaxSegments uint32
}

func (r *InfoResponse) ProcessFields(ar serial.Archive) {
	ar.Process(serial.Sub(&r.Header), &r.Version, serial.Scalar(&r.UptimeMs), serial.Scalar(&r.MaxSegments))
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

// ErrorResponse is sent with MethodError when a request could not be answered
type ErrorResponse struct {
	Header
}

func (r *ErrorResponse) ProcessFields(ar serial.Archive) {
	ar.Process(serial.Sub(&r.Header))
}

// NewErrorResponse creates an error response for the request with sequence seq
func NewErrorResponse(seq uint64, err error) *ErrorResponse {
	resp := &ErrorResponse{}
	resp.Seq = seq
	resp.SetError(err)
	return resp
}
