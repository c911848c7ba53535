package service

import (
	"bytes"
	"crypto/rand"
	"io"

	apperrors "github.com/allisson/attendance/internal/errors"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// randomGenerator implements Generator using a cryptographically secure
// random source. Candidate keys and IVs containing the reserved delimiter
// byte are discarded and regenerated, so persisted material always survives
// the delimiter-separated export format intact.
type randomGenerator struct {
	rand io.Reader
}

// NewGenerator creates a Generator backed by crypto/rand.
func NewGenerator() Generator {
	return &randomGenerator{rand: rand.Reader}
}

// NewGeneratorWithReader creates a Generator with a custom random source.
// Intended for tests; production code should use NewGenerator.
func NewGeneratorWithReader(r io.Reader) Generator {
	return &randomGenerator{rand: r}
}

// Generate returns fresh key material. The reserved-byte rejection loop
// terminates quickly in practice: the probability that a candidate buffer
// contains the delimiter byte is about 12% for the key and 6% for the IV.
func (g *randomGenerator) Generate() (keysDomain.KeyMaterial, error) {
	key, err := g.randomBytes(keysDomain.KeySize)
	if err != nil {
		return keysDomain.KeyMaterial{}, apperrors.Wrap(err, "failed to generate key")
	}

	iv, err := g.randomBytes(keysDomain.IVSize)
	if err != nil {
		return keysDomain.KeyMaterial{}, apperrors.Wrap(err, "failed to generate iv")
	}

	return keysDomain.KeyMaterial{Key: key, IV: iv}, nil
}

// randomBytes draws size random bytes, retrying until the buffer is free of
// the reserved delimiter byte.
func (g *randomGenerator) randomBytes(size int) ([]byte, error) {
	for {
		buf := make([]byte, size)
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return nil, err
		}
		if bytes.IndexByte(buf, keysDomain.ReservedByte) < 0 {
			return buf, nil
		}
	}
}
