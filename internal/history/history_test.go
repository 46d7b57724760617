package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCutoffWithoutHistory(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "runs", "history.json"), zap.NewNop())
	require.NoError(t, err)

	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)
	cutoff, fromHistory := m.Cutoff(now)
	assert.False(t, fromHistory)
	assert.Equal(t, now.Add(-7*24*time.Hour), cutoff)
}

func TestRecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	m, err := NewManager(path, zap.NewNop())
	require.NoError(t, err)

	started := time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC)
	require.NoError(t, m.Record(Run{ID: "a", ReportDate: "2025-06-03", StartedAt: started, Articles: 4}))
	require.NoError(t, m.Record(Run{ID: "b", ReportDate: "2025-06-09", StartedAt: started.AddDate(0, 0, 6)}))
	require.NoError(t, m.Record(Run{ID: "c", ReportDate: "2025-06-05"}))

	reloaded, err := NewManager(path, zap.NewNop())
	require.NoError(t, err)

	last, ok := reloaded.LastRun()
	require.True(t, ok)
	assert.Equal(t, "b", last.ID)

	cutoff, fromHistory := reloaded.Cutoff(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	assert.True(t, fromHistory)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), cutoff)
}

func TestSameDayRunsKeepLatest(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "history.json"), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, m.Record(Run{ID: "morning", ReportDate: "2025-06-09"}))
	require.NoError(t, m.Record(Run{ID: "evening", ReportDate: "2025-06-09"}))

	last, ok := m.LastRun()
	require.True(t, ok)
	assert.Equal(t, "evening", last.ID)
}

func TestCorruptHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewManager(path, zap.NewNop())
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	loc := time.FixedZone("AEST", 10*60*60)
	assert.Equal(t, "2025-06-09", FormatDate(time.Date(2025, 6, 10, 5, 0, 0, 0, loc)))
}
