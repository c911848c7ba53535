package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

type chainSigner struct{}

// NewChainSigner creates an HMAC-based ledger chain signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for digest generation.
func NewChainSigner() ChainSigner {
	return &chainSigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// configured ledger secret. Info parameter is versioned for future algorithm
// changes.
func (c *chainSigner) deriveSigningKey(secret []byte) ([]byte, error) {
	info := []byte("ledger-chain-signing-v1")
	hkdf := hkdf.New(sha256.New, secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalize converts a record plus its predecessor digest to the canonical
// byte representation for signing. Variable-length fields are length-prefixed
// to prevent ambiguity.
func (c *chainSigner) canonicalize(record *ledgerDomain.Record, prevDigest []byte) []byte {
	buf := make([]byte, 0, 512)

	buf = append(buf, record.ID[:]...)
	buf = appendLengthPrefixed(buf, []byte(string(record.Kind)))
	buf = appendLengthPrefixed(buf, []byte(record.Course))
	buf = appendLengthPrefixed(buf, []byte(record.Qualifier))
	buf = appendLengthPrefixed(buf, record.Ciphertext)
	buf = appendLengthPrefixed(buf, []byte(record.FirstName))
	buf = appendLengthPrefixed(buf, []byte(record.LastName))
	buf = appendLengthPrefixed(buf, []byte(record.Matriculation))
	buf = appendLengthPrefixed(buf, []byte(record.Annotation))

	position := make([]byte, 8)
	binary.BigEndian.PutUint64(position, uint64(record.Position))
	buf = append(buf, position...)

	buf = appendLengthPrefixed(buf, prevDigest)

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(record.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	if len(data) > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Digest generates the HMAC-SHA256 digest for a record.
func (c *chainSigner) Digest(
	secret []byte,
	record *ledgerDomain.Record,
	prevDigest []byte,
) ([]byte, error) {
	signingKey, err := c.deriveSigningKey(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(signingKey)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(c.canonicalize(record, prevDigest))
	return mac.Sum(nil), nil
}

// VerifyChain walks records in order, recomputing every digest and checking
// the prev-digest linkage.
func (c *chainSigner) VerifyChain(secret []byte, records []*ledgerDomain.Record) error {
	var prevDigest []byte
	for _, record := range records {
		if !hmac.Equal(record.PrevDigest, prevDigest) {
			return ledgerDomain.ErrChainBroken
		}

		expected, err := c.Digest(secret, record, prevDigest)
		if err != nil {
			return err
		}
		if !hmac.Equal(record.Digest, expected) {
			return ledgerDomain.ErrChainBroken
		}

		prevDigest = record.Digest
	}
	return nil
}

// zero overwrites sensitive data in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
