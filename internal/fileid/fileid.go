// Package fileid derives deterministic version ids for catalog documents.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
)

const prefix = "doc:"

// Version returns a stable id for document content. Identical bytes always
// yield the same id, so a reload of an unchanged file can be detected.
func Version(content []byte) string {
	hash := sha256.Sum256(content)
	return prefix + hex.EncodeToString(hash[:])
}

// Short returns the first n hex characters of a version id, for log output.
func Short(version string, n int) string {
	hexPart := version
	if len(hexPart) > len(prefix) && hexPart[:len(prefix)] == prefix {
		hexPart = hexPart[len(prefix):]
	}
	if n <= 0 || n >= len(hexPart) {
		return hexPart
	}
	return hexPart[:n]
}
