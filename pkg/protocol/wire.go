package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single frame body, guarding against a peer that
// sends a bogus length prefix and forcing an unbounded allocation.
const MaxFrameSize = 16 << 20 // 16 MiB

// WriteFrame writes a single [4-byte big-endian length][body] frame
// (spec.md Sec 6), grounded on bbs/marshal.go's binary.Write length-prefix
// pattern generalized to whole-message framing instead of per-field.
func WriteFrame(w io.Writer, body []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return &IoFailure{Kind: "write", Err: err}
	}
	if len(body) == 0 {
		return nil
	}
	if _, err := w.Write(body); err != nil {
		return &IoFailure{Kind: "write", Err: err}
	}
	return nil
}

// ReadFrame reads a single length-prefixed frame, rejecting a length
// prefix beyond MaxFrameSize before allocating.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, &IoFailure{Kind: "read", Err: err}
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxFrameSize {
		return nil, &DecodeError{Offset: 0, Field: fmt.Sprintf("frame length %d exceeds max %d", n, MaxFrameSize)}
	}
	if n == 0 {
		return nil, nil
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, &IoFailure{Kind: "read", Err: err}
	}
	return body, nil
}
