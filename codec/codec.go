// Package codec turns node-rpc messages into bytes and back.
//
// Two codecs are available. BinaryCodec writes the protobuf wire format and is
// what clients use by default. JSONCodec is only meant for poking at a server
// by hand. Codecs hold no state and are safe for concurrent use.
package codec

import (
	"fmt"
	"mime"

	"node-rpc/protocol"
)

// Message is implemented by every request and response type.
type Message interface {
	// Marshal never fails and is deterministic for a given value.
	Marshal() []byte
	// Unmarshal replaces the receiver's contents with data.
	Unmarshal(data []byte) error
}

type CodecType byte

const (
	CodecTypeJSON   CodecType = 0
	CodecTypeBinary CodecType = 1
)

type Codec interface {
	Encode(m Message) ([]byte, error)
	Decode(data []byte, m Message) error
	Type() CodecType
	ContentType() string
}

// DecodeError reports bytes that could not be decoded into the expected message.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func GetCodec(codecType CodecType) Codec {
	if codecType == CodecTypeJSON {
		return &JSONCodec{}
	}

	return &BinaryCodec{}
}

// ForContentType picks the codec for a Content-Type header value. Anything that
// is not JSON, including a missing header, gets the binary codec.
func ForContentType(contentType string) Codec {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && mediaType == protocol.ContentTypeJSON {
		return &JSONCodec{}
	}
	return &BinaryCodec{}
}
