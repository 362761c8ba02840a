// Package digest computes content digests of pipeline artifacts and fixtures.
//
// Digests are lowercase hex SHA-256, the same form the normalizer records
// in report.json. Files are streamed in fixed-size chunks so memory use
// does not grow with file size.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the read size used when streaming files into the hash.
const ChunkSize = 64 * 1024

// Size is the length of a hex-encoded digest.
const Size = sha256.Size * 2

// File returns the hex SHA-256 digest of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	defer f.Close()

	sum, err := Reader(f)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return sum, nil
}

// Reader hashes r until EOF, reading at most ChunkSize bytes at a time.
func Reader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(h, onlyReader{r}, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bytes returns the hex SHA-256 digest of b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// onlyReader hides WriterTo on the source so io.CopyBuffer honours buf.
type onlyReader struct {
	io.Reader
}
