package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/crypto/blake2b"
)

// missingMarker stands in for the contents of a file that does not exist.
const missingMarker = "\x00missing\x00"

// FingerprintFiles hashes the names and contents of paths with BLAKE2b-256.
// A missing file contributes a fixed marker, so creating it later changes the
// fingerprint.
func FingerprintFiles(paths ...string) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating hash: %w", err)
	}

	for _, path := range paths {
		fmt.Fprintf(h, "%s\x00", path)

		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			io.WriteString(h, missingMarker)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", path, err)
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", path, err)
		}
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
