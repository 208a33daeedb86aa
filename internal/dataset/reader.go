package dataset

// reader.go provides the input byte handling for source files: checksum
// and size tracking while reading, UTF-8 repair, and BOM removal.

import (
	"bytes"
	"encoding/hex"
	"io"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// DigestReader wraps an io.Reader, hashing and counting every byte that
// passes through. The checksum covers the raw file bytes, before any
// sanitization.
type DigestReader struct {
	reader io.Reader
	digest *xxhash.Digest
	read   int64
}

// NewDigestReader creates a DigestReader over r.
func NewDigestReader(r io.Reader) *DigestReader {
	return &DigestReader{
		reader: r,
		digest: xxhash.New(),
	}
}

// Read implements io.Reader.
func (d *DigestReader) Read(p []byte) (int, error) {
	n, err := d.reader.Read(p)
	if n > 0 {
		_, _ = d.digest.Write(p[:n])
		d.read += int64(n)
	}
	return n, err
}

// Sum returns the hex checksum of everything read so far.
func (d *DigestReader) Sum() string {
	return hex.EncodeToString(d.digest.Sum(nil))
}

// BytesRead returns the number of bytes read so far.
func (d *DigestReader) BytesRead() int64 {
	return d.read
}

// utf8BOM is the byte order mark Windows tools commonly prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// trimBOM removes a leading UTF-8 byte order mark if present.
func trimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the Unicode
// replacement character. Valid input is returned unchanged.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
