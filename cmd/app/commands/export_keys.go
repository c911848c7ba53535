package commands

import (
	"context"
	"fmt"
	"log/slog"

	keysUsecase "github.com/allisson/attendance/internal/keys/usecase"
)

// RunExportKeys prints the course's key sheet. The sheet is the offline
// backup of every operation key; store it somewhere safer than the database.
//
// Requirements: database must be migrated and accessible.
func RunExportKeys(
	ctx context.Context,
	resolver keysUsecase.KeyResolver,
	logger *slog.Logger,
	course string,
	io IOTuple,
) error {
	logger.Info("exporting key sheet", slog.String("course", course))

	sheet, err := resolver.ExportSheet(ctx, course)
	if err != nil {
		return fmt.Errorf("failed to export key sheet: %w", err)
	}

	_, _ = fmt.Fprint(io.Writer, sheet)
	return nil
}
