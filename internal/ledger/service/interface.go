// Package service provides the ledger's tamper-evidence primitives.
package service

import (
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

// ChainSigner computes and verifies the per-course digest chain.
type ChainSigner interface {
	// Digest computes the HMAC digest of a record given its predecessor's
	// digest (nil for the first record of a course).
	Digest(secret []byte, record *ledgerDomain.Record, prevDigest []byte) ([]byte, error)

	// VerifyChain checks a course's records in position order. Returns
	// ledgerDomain.ErrChainBroken at the first record that fails.
	VerifyChain(secret []byte, records []*ledgerDomain.Record) error
}
