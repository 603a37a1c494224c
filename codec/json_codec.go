package codec

import (
	"encoding/json"

	"node-rpc/protocol"
)

// JSONCodec uses Go's standard library encoding/json for serialization.
// Pros: human-readable, easy to drive with curl.
// Cons: larger payload, and []byte fields travel as base64.
type JSONCodec struct{}

func (c *JSONCodec) Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

func (c *JSONCodec) Decode(data []byte, m Message) error {
	if err := json.Unmarshal(data, m); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func (c *JSONCodec) Type() CodecType {
	return CodecTypeJSON
}

func (c *JSONCodec) ContentType() string {
	return protocol.ContentTypeJSON
}
