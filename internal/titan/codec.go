package titan

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// A record on the wire is either a map keyed by camelCase field name or an
// array holding the fields in declaration order. Both forms are accepted.

type field struct {
	name     string
	required bool
	decode   func(d *msgpack.Decoder) error
}

func decodeRecord(d *msgpack.Decoder, record string, fields []field) error {
	c, err := d.PeekCode()
	if err != nil {
		return fmt.Errorf("%s: %w", record, err)
	}

	switch {
	case isMapCode(c):
		n, err := d.DecodeMapLen()
		if err != nil {
			return fmt.Errorf("%s: %w", record, err)
		}
		seen := make([]bool, len(fields))
		for i := 0; i < n; i++ {
			key, err := d.DecodeString()
			if err != nil {
				return fmt.Errorf("%s: field name: %w", record, err)
			}
			idx := fieldIndex(fields, key)
			if idx < 0 {
				if err := d.Skip(); err != nil {
					return fmt.Errorf("%s.%s: %w", record, key, err)
				}
				continue
			}
			if seen[idx] {
				return fmt.Errorf("%s.%s: duplicate field", record, key)
			}
			if err := fields[idx].decode(d); err != nil {
				return fmt.Errorf("%s.%s: %w", record, key, err)
			}
			seen[idx] = true
		}
		for i, f := range fields {
			if f.required && !seen[i] {
				return fmt.Errorf("%s.%s: missing required field", record, f.name)
			}
		}
		return nil

	case isArrayCode(c):
		n, err := d.DecodeArrayLen()
		if err != nil {
			return fmt.Errorf("%s: %w", record, err)
		}
		for i := 0; i < n; i++ {
			if i >= len(fields) {
				// trailing fields from a newer schema
				if err := d.Skip(); err != nil {
					return fmt.Errorf("%s[%d]: %w", record, i, err)
				}
				continue
			}
			if err := fields[i].decode(d); err != nil {
				return fmt.Errorf("%s.%s: %w", record, fields[i].name, err)
			}
		}
		for i := n; i < len(fields); i++ {
			if fields[i].required {
				return fmt.Errorf("%s.%s: missing required field", record, fields[i].name)
			}
		}
		return nil

	default:
		return fmt.Errorf("%s: expected map or array, got code 0x%02x", record, c)
	}
}

func fieldIndex(fields []field, name string) int {
	for i := range fields {
		if fields[i].name == name {
			return i
		}
	}
	return -1
}

func isMapCode(c byte) bool {
	return (c >= msgpcode.FixedMapLow && c <= msgpcode.FixedMapHigh) || c == msgpcode.Map16 || c == msgpcode.Map32
}

func isArrayCode(c byte) bool {
	return (c >= msgpcode.FixedArrayLow && c <= msgpcode.FixedArrayHigh) || c == msgpcode.Array16 || c == msgpcode.Array32
}

func isStringCode(c byte) bool {
	return (c >= msgpcode.FixedStrLow && c <= msgpcode.FixedStrHigh) || c == msgpcode.Str8 || c == msgpcode.Str16 || c == msgpcode.Str32
}

func peekNil(d *msgpack.Decoder) (bool, error) {
	c, err := d.PeekCode()
	if err != nil {
		return false, err
	}
	return c == msgpcode.Nil, nil
}

// decodeUint reads an unsigned integer and rejects values that do not fit
// in bits. Narrower fields are never truncated.
func decodeUint(d *msgpack.Decoder, bits int) (uint64, error) {
	c, err := d.PeekCode()
	if err != nil {
		return 0, err
	}
	// DecodeUint64 reads nil as 0.
	if c == msgpcode.Nil {
		return 0, errors.New("expected integer, got nil")
	}
	if c >= msgpcode.NegFixedNumLow || c == msgpcode.Int8 || c == msgpcode.Int16 || c == msgpcode.Int32 || c == msgpcode.Int64 {
		v, err := d.DecodeInt64()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, fmt.Errorf("negative value %d for unsigned field", v)
		}
		return checkWidth(uint64(v), bits)
	}
	v, err := d.DecodeUint64()
	if err != nil {
		return 0, err
	}
	return checkWidth(v, bits)
}

func checkWidth(v uint64, bits int) (uint64, error) {
	if bits < 64 && v > (uint64(1)<<bits)-1 {
		return 0, fmt.Errorf("value %d overflows uint%d", v, bits)
	}
	return v, nil
}

func uint64Field(dst *uint64) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		v, err := decodeUint(d, 64)
		*dst = v
		return err
	}
}

func uint32Field(dst *uint32) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		v, err := decodeUint(d, 32)
		*dst = uint32(v)
		return err
	}
}

func uint16Field(dst *uint16) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		v, err := decodeUint(d, 16)
		*dst = uint16(v)
		return err
	}
}

func uint8Field(dst *uint8) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		v, err := decodeUint(d, 8)
		*dst = uint8(v)
		return err
	}
}

func optUint64Field(dst **uint64) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		isNil, err := peekNil(d)
		if err != nil {
			return err
		}
		if isNil {
			*dst = nil
			return d.DecodeNil()
		}
		v, err := decodeUint(d, 64)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func boolField(dst *bool) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		c, err := d.PeekCode()
		if err != nil {
			return err
		}
		if c != msgpcode.True && c != msgpcode.False {
			return fmt.Errorf("expected bool, got code 0x%02x", c)
		}
		v, err := d.DecodeBool()
		*dst = v
		return err
	}
}

func stringField(dst *string) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		c, err := d.PeekCode()
		if err != nil {
			return err
		}
		if !isStringCode(c) {
			return fmt.Errorf("expected string, got code 0x%02x", c)
		}
		v, err := d.DecodeString()
		*dst = v
		return err
	}
}

func optStringField(dst **string) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		isNil, err := peekNil(d)
		if err != nil {
			return err
		}
		if isNil {
			*dst = nil
			return d.DecodeNil()
		}
		var s string
		if err := stringField(&s)(d); err != nil {
			return err
		}
		*dst = &s
		return nil
	}
}

// decodeByteSlice accepts bin, str, or an array of small integers (the form
// a serializer without byte-string support emits).
func decodeByteSlice(d *msgpack.Decoder) ([]byte, error) {
	c, err := d.PeekCode()
	if err != nil {
		return nil, err
	}
	if isArrayCode(c) {
		n, err := d.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		b := make([]byte, n)
		for i := range b {
			v, err := decodeUint(d, 8)
			if err != nil {
				return nil, fmt.Errorf("byte %d: %w", i, err)
			}
			b[i] = byte(v)
		}
		return b, nil
	}
	if c == msgpcode.Nil {
		return nil, d.DecodeNil()
	}
	if c == msgpcode.Bin8 || c == msgpcode.Bin16 || c == msgpcode.Bin32 || isStringCode(c) {
		return d.DecodeBytes()
	}
	return nil, fmt.Errorf("expected bytes, got code 0x%02x", c)
}

func bytesField(dst *[]byte) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		b, err := decodeByteSlice(d)
		*dst = b
		return err
	}
}

func pubkeyField(dst *[32]byte) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		b, err := decodeByteSlice(d)
		if err != nil {
			return err
		}
		if len(b) != len(dst) {
			return fmt.Errorf("address must be %d bytes, got %d", len(dst), len(b))
		}
		copy(dst[:], b)
		return nil
	}
}

func optPubkeyField(dst **[32]byte) func(*msgpack.Decoder) error {
	return func(d *msgpack.Decoder) error {
		isNil, err := peekNil(d)
		if err != nil {
			return err
		}
		if isNil {
			*dst = nil
			return d.DecodeNil()
		}
		var pk [32]byte
		if err := pubkeyField(&pk)(d); err != nil {
			return err
		}
		*dst = &pk
		return nil
	}
}

// decodeList reads an array, calling each for every element in order.
// Lists are required, so nil is rejected rather than read as empty.
func decodeList(d *msgpack.Decoder, each func(i int) error) error {
	c, err := d.PeekCode()
	if err != nil {
		return err
	}
	if !isArrayCode(c) {
		return fmt.Errorf("expected array, got code 0x%02x", c)
	}
	n, err := d.DecodeArrayLen()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := each(i); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

// Encoding side. Absent optional fields are omitted from maps and written
// as nil in arrays so positions stay fixed.

type outField struct {
	name   string
	absent bool
	encode func(e *msgpack.Encoder) error
}

func encodeRecord(e *msgpack.Encoder, positional bool, fields []outField) error {
	if positional {
		if err := e.EncodeArrayLen(len(fields)); err != nil {
			return err
		}
		for _, f := range fields {
			if f.absent {
				if err := e.EncodeNil(); err != nil {
					return err
				}
				continue
			}
			if err := f.encode(e); err != nil {
				return fmt.Errorf("%s: %w", f.name, err)
			}
		}
		return nil
	}

	present := 0
	for _, f := range fields {
		if !f.absent {
			present++
		}
	}
	if err := e.EncodeMapLen(present); err != nil {
		return err
	}
	for _, f := range fields {
		if f.absent {
			continue
		}
		if err := e.EncodeString(f.name); err != nil {
			return err
		}
		if err := f.encode(e); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

func encUint(v uint64) func(*msgpack.Encoder) error {
	return func(e *msgpack.Encoder) error { return e.EncodeUint(v) }
}

func encOptUint(name string, v *uint64) outField {
	if v == nil {
		return outField{name: name, absent: true}
	}
	return outField{name: name, encode: encUint(*v)}
}

func encString(s string) func(*msgpack.Encoder) error {
	return func(e *msgpack.Encoder) error { return e.EncodeString(s) }
}

func encBool(b bool) func(*msgpack.Encoder) error {
	return func(e *msgpack.Encoder) error { return e.EncodeBool(b) }
}

func encBytes(b []byte) func(*msgpack.Encoder) error {
	return func(e *msgpack.Encoder) error { return e.EncodeBytes(b) }
}

func encPubkey(pk [32]byte) func(*msgpack.Encoder) error {
	return encBytes(pk[:])
}

func encList(n int, each func(e *msgpack.Encoder, i int) error) func(*msgpack.Encoder) error {
	return func(e *msgpack.Encoder) error {
		if err := e.EncodeArrayLen(n); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := each(e, i); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	}
}
