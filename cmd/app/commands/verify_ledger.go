package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
	ledgerUsecase "github.com/allisson/attendance/internal/ledger/usecase"
)

// RunVerifyLedger recomputes the digest chain of a course's ledger and
// reports whether every record is intact and in place.
//
// Requirements: database must be migrated and accessible.
func RunVerifyLedger(
	ctx context.Context,
	ledger ledgerUsecase.Ledger,
	logger *slog.Logger,
	course string,
	io IOTuple,
) error {
	logger.Info("verifying ledger chain", slog.String("course", course))

	if err := ledger.VerifyCourse(ctx, course); err != nil {
		if errors.Is(err, ledgerDomain.ErrChainBroken) {
			_, _ = fmt.Fprintf(io.Writer, "FAILED: ledger chain for %s is broken: %v\n", course, err)
			return err
		}
		return fmt.Errorf("failed to verify ledger: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "OK: ledger chain for %s verified\n", course)
	return nil
}
