package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader decodes big-endian scalars and fixed width fields from an underlying stream. Every OperaFS structure is
// stored most significant byte first so every multi-byte read swaps on little-endian hosts.
type Reader struct {
	r   io.Reader
	buf [4]byte
}

// NewReader wraps r in a big-endian field reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (r *Reader) fill(dst []byte, field string) error {
	if _, err := io.ReadFull(r.r, dst); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("read %s: %w", field, err)
	}
	return nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8(field string) (uint8, error) {
	if err := r.fill(r.buf[:1], field); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// Uint32 reads a big-endian 32-bit value.
func (r *Reader) Uint32(field string) (uint32, error) {
	if err := r.fill(r.buf[:4], field); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.buf[:4]), nil
}

// Int32 reads a big-endian two's complement 32-bit value.
func (r *Reader) Int32(field string) (int32, error) {
	v, err := r.Uint32(field)
	return int32(v), err
}

// Fixed fills dst completely with raw bytes.
func (r *Reader) Fixed(dst []byte, field string) error {
	return r.fill(dst, field)
}

// PutUint32 appends v to b in big-endian order.
func PutUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

// MarshalString encodes s into a NUL padded field of exactly length bytes, truncating when s is longer.
func MarshalString(s string, length int) []byte {
	b := make([]byte, length)
	copy(b, s)
	return b
}

// UnmarshalString returns the contents of a NUL padded field up to the first NUL byte.
func UnmarshalString(data []byte) string {
	for i, c := range data {
		if c == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
