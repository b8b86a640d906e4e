package tp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Algorithm identifies a checksum algorithm. The tokens match the METS
// CHECKSUMTYPE vocabulary used by downstream metadata renderers.
type Algorithm string

const (
	SHA1   Algorithm = "SHA-1"
	SHA256 Algorithm = "SHA-256"
	SHA384 Algorithm = "SHA-384"
	SHA512 Algorithm = "SHA-512"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = SHA256

// New returns a fresh hash for the algorithm, or ErrUnsupportedAlgorithm
// for tokens outside the supported SHA family.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("%q: %w", string(a), ErrUnsupportedAlgorithm)
	}
}

// Valid reports whether the algorithm token is supported.
func (a Algorithm) Valid() bool {
	_, err := a.New()
	return err == nil
}

// SumReader streams r through the algorithm's hash and returns the lowercase
// hex digest. Reads go through a buffer sized as a multiple of the hash's
// internal block size, so arbitrarily large inputs hash with constant
// working memory.
func SumReader(algorithm Algorithm, r io.Reader) (string, error) {
	h, err := algorithm.New()
	if err != nil {
		return "", err
	}

	buf := make([]byte, 512*h.BlockSize())
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumFile computes the hex digest of the file at path. The file handle is
// scoped to this call and released on every exit path. Open and read
// failures are reported as ErrUnreadable.
func SumFile(algorithm Algorithm, path string) (string, error) {
	if !algorithm.Valid() {
		return "", fmt.Errorf("%q: %w", string(algorithm), ErrUnsupportedAlgorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	digest, err := SumReader(algorithm, f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return digest, nil
}
