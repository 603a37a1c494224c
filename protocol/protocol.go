// Package protocol describes the wire envelope used by node-rpc.
//
// There is no custom framing: every call is a single HTTP POST whose target path
// is the operation path and whose body is one encoded message. HTTP supplies the
// length delimiting, so the envelope has no version field and no checksum.
//
//	POST /{OperationPath} HTTP/1.1
//	Content-Type: application/octet-stream
//	Content-Length: n
//
//	<n bytes of encoded request>
package protocol

import (
	"errors"
	"io"
	"strings"
)

// Content types carried in the Content-Type header. The binary one is the
// default; JSON exists for debugging with curl.
const (
	ContentTypeBinary = "application/octet-stream"
	ContentTypeJSON   = "application/json"
)

// DefaultMaxBodySize caps how much of a request body the server reads into memory.
const DefaultMaxBodySize int64 = 4 << 20

// ErrBodyTooLarge is returned by ReadBody when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("protocol: body exceeds size limit")

// URL builds the target of an operation call: http://{baseURL}/{path}.
// A baseURL that already names a scheme is used as is.
func URL(baseURL, path string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base + "/" + strings.TrimPrefix(path, "/")
}

// PathOf strips the single leading slash from a request URL path, giving the
// operation path to look up. Nothing else is normalized.
func PathOf(urlPath string) string {
	return strings.TrimPrefix(urlPath, "/")
}

// ReadBody reads the whole of r, refusing to buffer more than limit bytes.
// A limit <= 0 means DefaultMaxBodySize.
func ReadBody(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	// Read one byte past the limit so an exactly-sized body is still accepted.
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}
