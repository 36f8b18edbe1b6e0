package writer

import (
	"bytes"
	"compress/zlib"
	"fmt"
)

// CompressionLevel selects the Flate effort used for stream objects. The
// values mirror compress/flate so they can be passed through directly.
type CompressionLevel int

const (
	// NoCompression stores streams raw.
	NoCompression CompressionLevel = 0

	// BestSpeed favors throughput over output size.
	BestSpeed CompressionLevel = 1

	// DefaultCompression is the zlib default trade-off.
	DefaultCompression CompressionLevel = -1

	// BestCompression favors output size over throughput.
	BestCompression CompressionLevel = 9
)

// compressionThreshold is the stream size below which compression is not
// worth the filter dictionary overhead.
const compressionThreshold = 64

// CompressStream Flate-encodes data for a /FlateDecode stream.
//
// PDF's FlateDecode is zlib-wrapped deflate (RFC 1950), not raw deflate.
func CompressStream(data []byte, level CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer

	zw, err := zlib.NewWriterLevel(&buf, int(level))
	if err != nil {
		return nil, fmt.Errorf("create flate writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compress stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("flush stream: %w", err)
	}

	return buf.Bytes(), nil
}

// ShouldCompress reports whether a stream is large enough for compression
// to pay for itself.
func ShouldCompress(data []byte) bool {
	return len(data) >= compressionThreshold
}
