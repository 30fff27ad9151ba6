package http11

import (
	"io"
)

// Request represents an HTTP/1.1 request.
// Designed for zero-allocation parsing and pooling.
//
// CRITICAL: All byte slices (methodBytes, pathBytes, queryBytes, protoBytes)
// are zero-copy references into the request buffer. They are only valid
// during the request lifetime. Do NOT store these slices beyond the handler
// execution or use them after the request is returned to the pool.
//
// For safe string access that persists, use Method(), Path(), etc. which
// return strings (1 allocation each, but safe to store).
type Request struct {
	// Method as numeric ID for O(1) switching
	// Use MethodString() to get the string representation
	MethodID uint8

	// Request-Line components (zero-copy slices into buffer)
	// WARNING: These slices are only valid during request lifetime
	// They reference the internal buffer which is pooled and reused
	methodBytes []byte // e.g., "GET"
	pathBytes   []byte // e.g., "/api/users"
	queryBytes  []byte // e.g., "id=123&name=foo" (without '?')
	protoBytes  []byte // e.g., "HTTP/1.1"

	// Headers (inline storage, zero heap allocations for ≤32)
	Header Header

	// Body reader
	// Parser never sets it, so it stays nil; the connection reads
	// Content-Length bodies into its own buffer instead.
	Body io.Reader

	// Protocol information, as sent on the request line: "HTTP/1.1" or
	// "HTTP/1.0" (any other version is rejected by the parser).
	Proto      string
	ProtoMajor int
	ProtoMinor int

	// Content information
	ContentLength int64 // 0 if no Content-Length header, else its value

	// Transfer encoding
	// nil for identity encoding
	// ["chunked"] for chunked encoding
	TransferEncoding []string

	// Connection control
	// true if "Connection: close" header present
	// or if HTTP/1.0 without "Connection: keep-alive"
	Close bool

	// RemoteAddr is the network address of the client
	RemoteAddr string

	// Internal buffer reference (for zero-copy safety)
	// This buffer is pooled and will be reused after request completes
	// All zero-copy slices reference this buffer
	buf []byte
}

// Method returns the HTTP method as a string.
// Uses pre-compiled constants for zero allocations.
//
// Allocation behavior: 0 allocs/op
func (r *Request) Method() string {
	return MethodString(r.MethodID)
}

// MethodBytes returns the HTTP method as a byte slice.
// This is a zero-copy reference into the request buffer.
// WARNING: Only valid during request lifetime.
//
// Allocation behavior: 0 allocs/op
func (r *Request) MethodBytes() []byte {
	return r.methodBytes
}

// Path returns the request path as a string.
// This allocates a string from the byte slice.
// For zero-allocation access, use PathBytes().
//
// Allocation behavior: 1 alloc/op
func (r *Request) Path() string {
	return string(r.pathBytes)
}

// PathBytes returns the request path as a byte slice.
// This is a zero-copy reference into the request buffer.
// WARNING: Only valid during request lifetime.
//
// Allocation behavior: 0 allocs/op
func (r *Request) PathBytes() []byte {
	return r.pathBytes
}

// Query returns the query string as a string.
// This allocates a string from the byte slice.
// For zero-allocation access, use QueryBytes().
//
// Allocation behavior: 1 alloc/op
func (r *Request) Query() string {
	return string(r.queryBytes)
}

// QueryBytes returns the query string as a byte slice (without the '?').
// This is a zero-copy reference into the request buffer.
// WARNING: Only valid during request lifetime.
//
// Allocation behavior: 0 allocs/op
func (r *Request) QueryBytes() []byte {
	return r.queryBytes
}

// GetHeader retrieves a header value by name (case-insensitive).
// Returns nil if not found.
//
// Allocation behavior: 0 allocs/op
func (r *Request) GetHeader(name []byte) []byte {
	return r.Header.Get(name)
}

// GetHeaderString retrieves a header value as a string (case-insensitive).
// Returns empty string if not found.
//
// Allocation behavior: 1 alloc/op (string conversion)
func (r *Request) GetHeaderString(name string) string {
	return r.Header.GetString([]byte(name))
}

// HasHeader checks if a header exists (case-insensitive).
//
// Allocation behavior: 0 allocs/op
func (r *Request) HasHeader(name []byte) bool {
	return r.Header.Has(name)
}

// IsHEAD returns true if the request method is HEAD.
// Allocation behavior: 0 allocs/op
func (r *Request) IsHEAD() bool {
	return r.MethodID == MethodHEAD
}

// ShouldClose returns true if the connection should be closed after this request.
//
// Allocation behavior: 0 allocs/op
func (r *Request) ShouldClose() bool {
	return r.Close
}

// Reset clears the request for reuse (when returning to pool).
// All fields are reset to zero values.
// This enables efficient object pooling.
//
// Allocation behavior: 0 allocs/op
func (r *Request) Reset() {
	r.MethodID = 0
	r.methodBytes = nil
	r.pathBytes = nil
	r.queryBytes = nil
	r.protoBytes = nil
	r.Header.Reset()
	r.Body = nil
	r.Proto = ""
	r.ProtoMajor = 0
	r.ProtoMinor = 0
	r.ContentLength = 0
	r.TransferEncoding = nil
	r.Close = false
	r.RemoteAddr = ""
	r.buf = nil
}
