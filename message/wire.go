package message

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Encoding helpers. Plain scalars follow proto3 and are skipped when zero;
// the opt* variants take pointers and are written whenever the pointer is set.

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendOptString(b []byte, num protowire.Number, v *string) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendUint64(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendOptUint64(b []byte, num protowire.Number, v *uint64) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, *v)
}

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	return appendUint64(b, num, uint64(v))
}

func appendOptUint32(b []byte, num protowire.Number, v *uint32) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(*v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendOptBool(b []byte, num protowire.Number, v *bool) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(*v))
}

// appendMessage writes a nested message. Nested messages are always written
// when present, even if they encode to zero bytes.
func appendMessage(b []byte, num protowire.Number, m interface{ Marshal() []byte }) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.Marshal())
}

// fieldFunc decodes the value of one field from b and returns the number of
// bytes it consumed. Returning 0 marks the field as unknown; it is skipped.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func unmarshalFields(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if n == 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return nil
}

func wireTypeError(got, want protowire.Type) error {
	return fmt.Errorf("wire type %d, want %d", got, want)
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, wireTypeError(typ, protowire.BytesType)
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeOptString(typ protowire.Type, b []byte, dst **string) (int, error) {
	var v string
	n, err := consumeString(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = &v
	return n, nil
}

func consumeBytes(typ protowire.Type, b []byte, dst *[]byte) (int, error) {
	if typ != protowire.BytesType {
		return 0, wireTypeError(typ, protowire.BytesType)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	// v aliases the input buffer.
	*dst = append([]byte(nil), v...)
	return n, nil
}

func consumeUint64(typ protowire.Type, b []byte, dst *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, wireTypeError(typ, protowire.VarintType)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeOptUint64(typ protowire.Type, b []byte, dst **uint64) (int, error) {
	var v uint64
	n, err := consumeUint64(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = &v
	return n, nil
}

func consumeUint32(typ protowire.Type, b []byte, dst *uint32) (int, error) {
	var v uint64
	n, err := consumeUint64(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = uint32(v)
	return n, nil
}

func consumeOptUint32(typ protowire.Type, b []byte, dst **uint32) (int, error) {
	var v uint32
	n, err := consumeUint32(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = &v
	return n, nil
}

func consumeBool(typ protowire.Type, b []byte, dst *bool) (int, error) {
	var v uint64
	n, err := consumeUint64(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = protowire.DecodeBool(v)
	return n, nil
}

func consumeOptBool(typ protowire.Type, b []byte, dst **bool) (int, error) {
	var v bool
	n, err := consumeBool(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = &v
	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, m interface{ Unmarshal([]byte) error }) (int, error) {
	if typ != protowire.BytesType {
		return 0, wireTypeError(typ, protowire.BytesType)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if err := m.Unmarshal(v); err != nil {
		return 0, err
	}
	return n, nil
}

// unmarshalEmpty validates a message that has no fields of its own.
func unmarshalEmpty(b []byte) error {
	return unmarshalFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) {
		return 0, nil
	})
}
