package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// New returns a streaming SHA-256 writer. Call Sum on it after copying.
func New() *Writer {
	return &Writer{h: sha256.New()}
}

// Writer accumulates a SHA-256 digest from streamed writes.
type Writer struct {
	h hash.Hash
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.h.Write(p)
}

// Sum returns the hex-encoded digest of everything written so far.
func (w *Writer) Sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}
