package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// A Handler consumes the value of one field.
type Handler func(Field) error

// Handlers maps field numbers to the handler that decodes them.
type Handlers map[protowire.Number]Handler

// Decode walks buf and dispatches each field to its handler. Fields without
// a handler are skipped. Framing errors wrap models.ErrMalformedPayload;
// handler errors are returned annotated with the field number.
func Decode(buf []byte, hs Handlers) error {
	r := NewReader(buf)
	for r.Next() {
		f := r.Field()
		h, ok := hs[f.Num]
		if !ok {
			continue
		}
		if err := h(f); err != nil {
			return fmt.Errorf("field %d: %w", f.Num, err)
		}
	}
	return r.Err()
}

// Bytes returns a handler that stores a length-delimited value in *dst.
// A field with another wire type is ignored, as an unknown field would be.
func Bytes(dst *[]byte) Handler {
	return func(f Field) error {
		if f.Type == protowire.BytesType {
			*dst = f.Bytes
		}
		return nil
	}
}

// String returns a handler that stores a length-delimited value in *dst.
func String(dst *string) Handler {
	return func(f Field) error {
		if f.Type == protowire.BytesType {
			*dst = string(f.Bytes)
		}
		return nil
	}
}

// Int32 returns a handler that stores a varint value in *dst, truncated to
// 32 bits the way protobuf int32 and enum fields are.
func Int32(dst *int32) Handler {
	return func(f Field) error {
		if f.Type == protowire.VarintType {
			*dst = int32(f.Varint)
		}
		return nil
	}
}

// Int64 returns a handler that stores a varint value in *dst and sets
// *present when one is seen.
func Int64(dst *int64, present *bool) Handler {
	return func(f Field) error {
		if f.Type == protowire.VarintType {
			*dst = int64(f.Varint)
			if present != nil {
				*present = true
			}
		}
		return nil
	}
}

// Message returns a handler that passes each length-delimited value to fn,
// for repeated or singular nested messages.
func Message(fn func([]byte) error) Handler {
	return func(f Field) error {
		if f.Type != protowire.BytesType {
			return nil
		}
		return fn(f.Bytes)
	}
}
