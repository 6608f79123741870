package ledger

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrBCS is returned for malformed or unsupported BCS input.
var ErrBCS = errors.New("bcs")

// maxSequenceLength bounds decoded vector lengths.
const maxSequenceLength = 1 << 24

type bcsEncoder struct {
	buf bytes.Buffer
}

func (e *bcsEncoder) uleb128(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			e.buf.WriteByte(b | 0x80)
			continue
		}
		e.buf.WriteByte(b)
		return
	}
}

func (e *bcsEncoder) fixed(b []byte) { e.buf.Write(b) }

func (e *bcsEncoder) bytes(b []byte) {
	e.uleb128(uint64(len(b)))
	e.buf.Write(b)
}

func (e *bcsEncoder) str(s string) { e.bytes([]byte(s)) }

func (e *bcsEncoder) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *bcsEncoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *bcsEncoder) boolean(v bool) {
	if v {
		e.buf.WriteByte(1)
		return
	}
	e.buf.WriteByte(0)
}

func (e *bcsEncoder) Bytes() []byte { return e.buf.Bytes() }

type bcsDecoder struct {
	b   []byte
	off int
}

func (d *bcsDecoder) need(n int) error {
	if n < 0 || d.off+n > len(d.b) {
		return fmt.Errorf("%w: unexpected end of input at %d", ErrBCS, d.off)
	}
	return nil
}

func (d *bcsDecoder) uleb128() (uint64, error) {
	var v uint64
	for shift := uint(0); shift < 64; shift += 7 {
		if err := d.need(1); err != nil {
			return 0, err
		}
		b := d.b[d.off]
		d.off++
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: uleb128 overflow", ErrBCS)
}

func (d *bcsDecoder) length() (int, error) {
	n, err := d.uleb128()
	if err != nil {
		return 0, err
	}
	if n > maxSequenceLength {
		return 0, fmt.Errorf("%w: sequence too long", ErrBCS)
	}
	return int(n), nil
}

func (d *bcsDecoder) fixed(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	out := d.b[d.off : d.off+n]
	d.off += n
	return out, nil
}

func (d *bcsDecoder) bytes() ([]byte, error) {
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	return d.fixed(n)
}

func (d *bcsDecoder) str() (string, error) {
	b, err := d.bytes()
	return string(b), err
}

func (d *bcsDecoder) u16() (uint16, error) {
	b, err := d.fixed(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *bcsDecoder) done() bool { return d.off == len(d.b) }
