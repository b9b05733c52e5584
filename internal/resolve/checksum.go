// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrChecksumMismatch indicates the computed SHA-256 hash does not
// match the hash the repository index declared.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ChecksumError provides details about a checksum verification failure.
// It wraps ErrChecksumMismatch so callers can use errors.Is.
type ChecksumError struct {
	Path     string
	Expected string
	Got      string
}

// Error returns a human-readable description showing both hash values.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Path, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// VerifyFileChecksum computes the SHA-256 of the file at path and
// compares it against the expected hex digest (case-insensitive).
func VerifyFileChecksum(path, expected string) error {
	if !isValidHexDigest(expected) {
		return fmt.Errorf("invalid expected checksum %q for %s", expected, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}

	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, expected) {
		return &ChecksumError{Path: path, Expected: strings.ToLower(expected), Got: got}
	}
	return nil
}

// isValidHexDigest checks for a 64-character hex SHA-256 digest.
func isValidHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
