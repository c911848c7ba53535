package usecase

import (
	"context"
	"log/slog"

	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	keysService "github.com/allisson/attendance/internal/keys/service"
	keysUsecase "github.com/allisson/attendance/internal/keys/usecase"
	ledgerUsecase "github.com/allisson/attendance/internal/ledger/usecase"
)

// decryptor implements Decryptor. Key resolution is lookup-only: reporting
// must never mint a key for an operation that has no records.
type decryptor struct {
	resolver keysUsecase.KeyResolver
	cipher   keysService.Cipher
	ledger   ledgerUsecase.Ledger
	logger   *slog.Logger
}

// NewDecryptor creates a new Decryptor.
func NewDecryptor(
	resolver keysUsecase.KeyResolver,
	cipher keysService.Cipher,
	ledger ledgerUsecase.Ledger,
	logger *slog.Logger,
) Decryptor {
	return &decryptor{
		resolver: resolver,
		cipher:   cipher,
		ledger:   ledger,
		logger:   logger,
	}
}

// DecryptBatch decrypts every record of the operation, isolating per-record
// failures.
func (d *decryptor) DecryptBatch(
	ctx context.Context,
	op keysDomain.Operation,
) ([]DecryptedRecord, error) {
	material, err := d.resolver.ResolveExisting(ctx, op)
	if err != nil {
		return nil, err
	}

	records, err := d.ledger.RecordsByOperation(ctx, op)
	if err != nil {
		return nil, err
	}

	out := make([]DecryptedRecord, 0, len(records))
	for _, record := range records {
		plain, err := d.cipher.Decrypt(material.Key, material.IV, record.Ciphertext)
		if err != nil {
			d.logger.Warn("record decryption failed",
				slog.String("course", op.Course),
				slog.String("record_id", record.ID.String()),
				slog.String("error", err.Error()),
			)
			out = append(out, DecryptedRecord{Record: record, Err: err})
			continue
		}
		out = append(out, DecryptedRecord{Record: record, CardID: string(plain)})
	}

	return out, nil
}
