package base

import (
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/ValentinKolb/zcrpc/lib/iovec"
	"io"
	"math"
	"net"
)

// headerSize is the size of the frame header
const headerSize = 20

// ErrFrameTooLarge is returned by readFrame when a frame announces more
// payload than the reader accepts
var ErrFrameTooLarge = errors.New("frame too large")

// writeFrame writes a frame to the connection with the format:
// - 8 bytes: method id (uint64, big endian)
// - 8 bytes: requestID (uint64, big endian)
// - 4 bytes: payload length (uint32, big endian)
// - N bytes: payload, the segments of payload in order
//
// Header and segments go out in one vectored write.
func writeFrame(conn net.Conn, method uint64, requestID uint64, payload *iovec.Vector) error {
	var length int
	var segs [][]byte
	if payload != nil {
		length = payload.Sum()
		segs = payload.Segments()
	}
	if uint64(length) > math.MaxUint32 {
		return fmt.Errorf("payload of %d bytes exceeds the frame limit", length)
	}

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint64(header[:8], method)
	binary.BigEndian.PutUint64(header[8:16], requestID)
	binary.BigEndian.PutUint32(header[16:20], uint32(length))

	b := make(net.Buffers, 0, len(segs)+1)
	b = append(b, header)
	b = append(b, segs...)
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads a frame from the connection using the provided buffer
// If the buffer is too small, it will allocate a new temporary buffer for the payload.
// Frames with more than maxSize payload bytes are rejected before anything is
// allocated; the payload is left unread. maxSize <= 0 accepts any length.
func readFrame(conn net.Conn, buf []byte, maxSize int) (uint64, uint64, []byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		return 0, 0, nil, err
	}

	method := binary.BigEndian.Uint64(header[:8])
	requestID := binary.BigEndian.Uint64(header[8:16])
	contentLength := int(binary.BigEndian.Uint32(header[16:20]))

	if contentLength == 0 {
		return method, requestID, []byte{}, nil
	}

	if maxSize > 0 && contentLength > maxSize {
		return 0, 0, nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFrameTooLarge, contentLength, maxSize)
	}

	if len(buf) < contentLength {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(conn, buf[:contentLength]); err != nil {
		return 0, 0, nil, err
	}

	return method, requestID, buf[:contentLength], nil
}
