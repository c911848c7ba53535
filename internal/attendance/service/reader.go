// Package service provides the card-reader boundary of the attendance
// context.
package service

import (
	"bufio"
	"context"
	"io"
	"strings"

	apperrors "github.com/allisson/attendance/internal/errors"
)

// ErrReaderClosed indicates the card source produced no further input.
var ErrReaderClosed = apperrors.New("card reader closed")

// CardReader yields one card identifier per scan. The hardware driver is an
// external collaborator; the line reader below serves the interactive CLI
// sessions, where scans arrive as lines on stdin (badge readers in keyboard
// emulation mode produce exactly that).
type CardReader interface {
	Read(ctx context.Context) (string, error)
}

// lineReader reads card identifiers line by line.
type lineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader creates a CardReader that reads newline-terminated card
// identifiers from r.
func NewLineReader(r io.Reader) CardReader {
	return &lineReader{scanner: bufio.NewScanner(r)}
}

// Read returns the next non-blank line, honoring context cancellation
// between scans. Returns ErrReaderClosed at end of input.
func (l *lineReader) Read(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if !l.scanner.Scan() {
			if err := l.scanner.Err(); err != nil {
				return "", apperrors.Wrap(err, "failed to read card")
			}
			return "", ErrReaderClosed
		}

		line := strings.TrimSpace(l.scanner.Text())
		if line != "" {
			return line, nil
		}
	}
}
