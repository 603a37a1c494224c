package codec

import "node-rpc/protocol"

// BinaryCodec uses each message's own protobuf wire encoding.
type BinaryCodec struct{}

func (c *BinaryCodec) Encode(m Message) ([]byte, error) {
	return m.Marshal(), nil
}

func (c *BinaryCodec) Decode(data []byte, m Message) error {
	if err := m.Unmarshal(data); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func (c *BinaryCodec) Type() CodecType {
	return CodecTypeBinary
}

func (c *BinaryCodec) ContentType() string {
	return protocol.ContentTypeBinary
}
