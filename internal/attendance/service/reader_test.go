package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_Read(t *testing.T) {
	reader := NewLineReader(strings.NewReader("42\n\n  43  \n"))
	ctx := context.Background()

	first, err := reader.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", first)

	second, err := reader.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "43", second, "blank lines are skipped and input is trimmed")

	_, err = reader.Read(ctx)
	assert.ErrorIs(t, err, ErrReaderClosed)
}

func TestLineReader_Read_CanceledContext(t *testing.T) {
	reader := NewLineReader(strings.NewReader("42\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
