package repository

import (
	"github.com/google/uuid"

	apperrors "github.com/allisson/attendance/internal/errors"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

// parseRecordID parses a CHAR(36) uuid column value.
func parseRecordID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(ledgerDomain.ErrLedgerUnavailable, "malformed record id: "+err.Error())
	}
	return id, nil
}
