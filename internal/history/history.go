/*
Package history keeps the log of completed scan runs. The most recent run's
report date is the cutoff for the next scan.
*/
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	dateLayout       = "2006-01-02"
	firstRunLookback = 7 * 24 * time.Hour
)

type Run struct {
	ID            string    `json:"id"`
	ReportDate    string    `json:"report_date"`
	Cutoff        string    `json:"cutoff"`
	StartedAt     time.Time `json:"started_at"`
	Feeds         int       `json:"feeds"`
	Articles      int       `json:"articles"`
	Announcements int       `json:"announcements"`
	Confirmed     int       `json:"confirmed"`
	ReportPath    string    `json:"report_path"`
}

type History struct {
	Runs []Run `json:"runs"`
}

type Manager struct {
	history         History
	mutex           sync.Mutex
	historyFilePath string
	logger          *zap.Logger
}

func NewManager(path string, logger *zap.Logger) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory for %s: %w", path, err)
	}

	m := &Manager{
		historyFilePath: path,
		logger:          logger,
	}
	if err := m.loadHistory(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) loadHistory() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	data, err := os.ReadFile(m.historyFilePath)
	if errors.Is(err, os.ErrNotExist) {
		m.logger.Info("No run history yet", zap.String("path", m.historyFilePath))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history file %s: %w", m.historyFilePath, err)
	}

	if err := json.Unmarshal(data, &m.history); err != nil {
		return fmt.Errorf("failed to parse history file %s: %w", m.historyFilePath, err)
	}
	m.logger.Debug("Loaded run history", zap.Int("runs", len(m.history.Runs)))
	return nil
}

func (m *Manager) saveHistory() error {
	data, err := json.MarshalIndent(m.history, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp := m.historyFilePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, m.historyFilePath); err != nil {
		return fmt.Errorf("failed to replace history file %s: %w", m.historyFilePath, err)
	}
	return nil
}

// LastRun returns the run with the latest report date.
func (m *Manager) LastRun() (Run, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var last Run
	found := false
	for _, r := range m.history.Runs {
		if !found || r.ReportDate >= last.ReportDate {
			last, found = r, true
		}
	}
	return last, found
}

// Cutoff is midnight UTC on the last run's report date, or a week before now
// when there is no usable history.
func (m *Manager) Cutoff(now time.Time) (cutoff time.Time, fromHistory bool) {
	if last, ok := m.LastRun(); ok {
		t, err := time.Parse(dateLayout, last.ReportDate)
		if err == nil {
			return t.UTC(), true
		}
		m.logger.Warn("Ignoring malformed report date in history",
			zap.String("report_date", last.ReportDate), zap.Error(err))
	}
	return now.Add(-firstRunLookback), false
}

func (m *Manager) Record(run Run) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.history.Runs = append(m.history.Runs, run)
	if err := m.saveHistory(); err != nil {
		m.history.Runs = m.history.Runs[:len(m.history.Runs)-1]
		return err
	}
	m.logger.Info("Recorded scan run",
		zap.String("id", run.ID),
		zap.String("report_date", run.ReportDate),
		zap.String("path", m.historyFilePath),
	)
	return nil
}

func (m *Manager) HistoryFilePath() string {
	return m.historyFilePath
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
