// Package wire reads the tag/length/value records of a protocol buffer
// encoded message without a compiled schema. Callers describe the fields
// they understand with a Handlers map; every other field is skipped
// according to its wire type, so newer producers that add fields remain
// readable.
package wire

import (
	"fmt"

	"github.com/atinyakov/otpmigrate/internal/models"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field is one decoded (number, wire type, value) triple. Only the value
// member matching Type is populated.
type Field struct {
	Num  protowire.Number
	Type protowire.Type

	Varint  uint64
	Fixed32 uint32
	Fixed64 uint64
	// Bytes holds a length-delimited payload, or the raw body of a group.
	// It aliases the input buffer.
	Bytes []byte
}

// Reader is a pull decoder over a fully buffered message. The zero value is
// not usable; construct one with NewReader.
type Reader struct {
	buf   []byte
	off   int
	field Field
	err   error
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Next advances to the following field. It returns false at the end of the
// buffer or after a decoding error; check Err to tell them apart.
func (r *Reader) Next() bool {
	if r.err != nil || r.off >= len(r.buf) {
		return false
	}
	rest := r.buf[r.off:]
	num, typ, n := protowire.ConsumeTag(rest)
	if n < 0 {
		r.fail("tag", n)
		return false
	}
	f := Field{Num: num, Type: typ}
	body := rest[n:]

	var m int
	switch typ {
	case protowire.VarintType:
		f.Varint, m = protowire.ConsumeVarint(body)
	case protowire.Fixed32Type:
		f.Fixed32, m = protowire.ConsumeFixed32(body)
	case protowire.Fixed64Type:
		f.Fixed64, m = protowire.ConsumeFixed64(body)
	case protowire.BytesType:
		f.Bytes, m = protowire.ConsumeBytes(body)
	case protowire.StartGroupType:
		f.Bytes, m = protowire.ConsumeGroup(num, body)
	default:
		// Stray end-group markers and reserved wire types.
		m = protowire.ConsumeFieldValue(num, typ, body)
	}
	if m < 0 {
		r.fail(fmt.Sprintf("value of field %d", num), m)
		return false
	}
	r.off += n + m
	r.field = f
	return true
}

// Field returns the field most recently decoded by Next.
func (r *Reader) Field() Field { return r.field }

// Offset reports the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Err returns the decoding error that stopped Next, if any. Errors wrap
// models.ErrMalformedPayload.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(what string, code int) {
	r.err = fmt.Errorf("%w: %s at offset %d: %v", models.ErrMalformedPayload, what, r.off, protowire.ParseError(code))
}
