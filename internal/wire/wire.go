// Package wire implements the bit-exact, length-prefixed binary codec
// used to serialize and deserialize every on-the-wire type in this
// module: big-endian fixed-width integers, length-prefixed variable
// byte strings and vectors whose bound width is part of the field's
// schema (not the value), and discriminant-tagged variants. Every
// caller is expected to round-trip: deserialize(serialize(x)) == x and
// serialize(deserialize(bytes)) == bytes.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/kindlyrobotics/cgka/internal/cgkaerr"
)

// Writer accumulates a wire-format byte stream.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated byte stream.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) { w.buf = append(w.buf, v) }

// WriteUint16 appends a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteUint32 appends a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteRaw appends raw bytes with no length prefix.
func (w *Writer) WriteRaw(b []byte) { w.buf = append(w.buf, b...) }

// WriteVarBytes appends data prefixed with an unsigned length counter
// of the given width (1, 2, or 4 bytes). widthBytes must be 1, 2, or 4;
// any other value is a programmer error and panics, since it reflects a
// field schema mistake rather than a runtime condition.
func (w *Writer) WriteVarBytes(widthBytes int, data []byte) {
	switch widthBytes {
	case 1:
		w.WriteUint8(uint8(len(data)))
	case 2:
		w.WriteUint16(uint16(len(data)))
	case 4:
		w.WriteUint32(uint32(len(data)))
	default:
		panic("wire: unsupported length-prefix width")
	}
	w.WriteRaw(data)
}

// Reader consumes a wire-format byte stream, tracking position for
// error reporting and EOF detection.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps a byte slice for sequential decoding.
func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// NewReaderFrom reads all of r into memory and wraps it.
func NewReaderFrom(r io.Reader) (*Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, cgkaerr.NewSerializationError("reading input: %v", err)
	}
	return NewReader(b), nil
}

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// AtEOF reports whether every byte has been consumed.
func (r *Reader) AtEOF() bool { return r.Remaining() == 0 }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return cgkaerr.NewSerializationError("unexpected EOF: need %d bytes, have %d", n, r.Remaining())
	}
	return nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadRaw reads exactly n raw bytes with no length prefix.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, r.buf[r.pos:r.pos+n])
	r.pos += n
	return v, nil
}

// ReadVarBytes reads a length-prefixed byte string whose prefix has the
// given width (1, 2, or 4 bytes). widthBytes must be 1, 2, or 4; any
// other value is a programmer error and panics.
func (r *Reader) ReadVarBytes(widthBytes int) ([]byte, error) {
	var n int
	switch widthBytes {
	case 1:
		v, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		n = int(v)
	case 2:
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		n = int(v)
	case 4:
		v, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		n = int(v)
	default:
		panic("wire: unsupported length-prefix width")
	}
	return r.ReadRaw(n)
}
