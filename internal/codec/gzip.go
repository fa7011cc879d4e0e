package codec

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// Level is the compression level for stored payloads and exports.
const Level = gzip.BestCompression

var writerPool = sync.Pool{
	New: func() any {
		w, _ := gzip.NewWriterLevel(nil, Level)
		return w
	},
}

// Gzip compresses data. The output is deterministic for equal input, which
// lets the store compare compressed payloads directly.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := GzipTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GzipTo writes the compressed form of data to dst.
func GzipTo(dst io.Writer, data []byte) error {
	w := writerPool.Get().(*gzip.Writer)
	defer writerPool.Put(w)
	w.Reset(dst)
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Close()
}

// Gunzip decompresses data produced by Gzip.
func Gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// IsGzip reports whether data starts with the gzip magic number.
func IsGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}
