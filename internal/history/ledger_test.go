package history

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autogame.dev/internal/task"
)

func TestLedgerRoundTrip(t *testing.T) {
	l := NewLedger(t.TempDir())

	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	first := task.RunRecord{
		RunID:       "20250101_080000",
		TaskKey:     "zenless_zone_zero",
		TaskName:    "绝区零一条龙",
		ProcessName: "ZenlessZoneZero.exe",
		Start:       start,
		End:         start.Add(90 * time.Second),
		Duration:    90 * time.Second,
	}
	second := first
	second.RunID = "20250102_080000"
	second.Incomplete = true

	require.NoError(t, l.Append(first))
	require.NoError(t, l.Append(second))

	records, err := l.Records(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
	assert.Equal(t, 90*time.Second, records[0].Duration)
	assert.True(t, records[0].Start.Equal(start))
	assert.True(t, records[1].Incomplete)

	last, err := l.Records(1)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "20250102_080000", last[0].RunID)

	run, err := l.ForRun("20250101_080000")
	require.NoError(t, err)
	require.Len(t, run, 1)
	assert.False(t, run[0].Incomplete)
}

func TestLedgerKeepsGivenID(t *testing.T) {
	l := NewLedger(t.TempDir())
	require.NoError(t, l.Append(task.RunRecord{ID: "fixed", RunID: "r"}))

	records, err := l.Records(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fixed", records[0].ID)
}

func TestLedgerMissingAndCorrupt(t *testing.T) {
	l := NewLedger(t.TempDir())

	records, err := l.Records(0)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, os.WriteFile(l.Path(), []byte("not json\n{\"id\":\"ok\",\"run_id\":\"r\"}\n"), 0644))
	records, err = l.Records(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].ID)
}
