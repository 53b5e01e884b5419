// Package iovec provides the scatter-gather byte storage used by the serial
// package and the RPC transports.
//
// A Vector collects output segments up to a fixed slot capacity. Segments are
// never copied on append; the vector only records the slices handed to it, so
// the caller must keep the backing memory alive until the vector has been
// written out.
//
// A Source supplies input bytes for extraction. Bytes can be taken from the
// front (as one contiguous region or as a list of segments) and from the back
// (as one contiguous region). All returned slices alias the source memory.
//
// Neither type is safe for concurrent use.
package iovec
