package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autogame.dev/internal/task"
)

func TestParseMenuKey(t *testing.T) {
	tests := []struct {
		name    string
		key     byte
		n       int
		wantSel int
		wantOK  bool
	}{
		{"first entry", '1', 3, 0, true},
		{"last entry", '3', 3, 2, true},
		{"beyond entries", '4', 3, 0, false},
		{"zero selects all", '0', 3, selectAll, true},
		{"enter selects all", '\r', 3, selectAll, true},
		{"newline selects all", '\n', 3, selectAll, true},
		{"letters ignored", 'a', 3, 0, false},
		{"space ignored", ' ', 3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, ok := parseMenuKey(tt.key, tt.n)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantSel, sel)
			}
		})
	}
}

func TestReadChoiceSkipsInvalidKeys(t *testing.T) {
	keys := make(chan byte, 3)
	keys <- 'x'
	keys <- '9'
	keys <- '2'

	sel, err := readChoice(context.Background(), keys, 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, sel)
}

func TestReadChoiceTimeoutSelectsAll(t *testing.T) {
	sel, err := readChoice(context.Background(), make(chan byte), 2, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, selectAll, sel)
}

func TestReadChoiceClosedInput(t *testing.T) {
	keys := make(chan byte)
	close(keys)

	sel, err := readChoice(context.Background(), keys, 2, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, selectAll, sel)
}

func TestReadChoiceCtrlC(t *testing.T) {
	keys := make(chan byte, 1)
	keys <- keyCtrlC

	_, err := readChoice(context.Background(), keys, 2, time.Minute)
	assert.True(t, errors.Is(err, task.ErrInterrupted))
}

func TestReadChoiceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := readChoice(ctx, make(chan byte), 2, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
