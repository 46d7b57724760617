package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shanehull/batterydb/internal/types"
)

type Outcome int

const (
	OutcomeNoArticles Outcome = iota
	OutcomeNoAnnouncements
	OutcomeAllTracked
	OutcomeNewBatteries
)

// Report is everything a scan run found. The outcome follows from the counts.
type Report struct {
	Date          string
	Cutoff        string
	Feeds         int
	Articles      int
	Announcements []types.CandidateAnnouncement
	Confirmed     []types.ConfirmedNewBattery
}

func (r Report) Outcome() Outcome {
	switch {
	case r.Articles == 0:
		return OutcomeNoArticles
	case len(r.Announcements) == 0:
		return OutcomeNoAnnouncements
	case len(r.Confirmed) == 0:
		return OutcomeAllTracked
	default:
		return OutcomeNewBatteries
	}
}

func ReportFileName(date string) string {
	return fmt.Sprintf("new-batteries-%s.md", date)
}

func (r Report) Title() string {
	return fmt.Sprintf("New Batteries to Review — %s", r.Date)
}

// Markdown renders the report file body.
func (r Report) Markdown() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", r.Title()))

	switch r.Outcome() {
	case OutcomeNoArticles, OutcomeNoAnnouncements, OutcomeAllTracked:
		sb.WriteString(headline(r) + "\n")
	case OutcomeNewBatteries:
		sb.WriteString(fmt.Sprintf("Found **%d** new battery(ies) not in the database.\n", len(r.Confirmed)))
		sb.WriteString("After researching, add to `data/batteries_seed.csv` and run `batterydb seed`.\n\n---\n\n")

		for i, b := range r.Confirmed {
			sb.WriteString(fmt.Sprintf("## %d. %s %s\n\n", i+1, b.Brand, b.Model))
			sb.WriteString(fmt.Sprintf("- **Source:** %s\n", b.ArticleURL))
			sb.WriteString(fmt.Sprintf("- **Published:** %s\n", b.PubDate))
			if len(b.KeySpecs) > 0 {
				sb.WriteString(fmt.Sprintf("- **Specs mentioned:** %s\n", strings.Join(b.KeySpecs, ", ")))
			}
			sb.WriteString(fmt.Sprintf("- **Notes:** %s\n", b.ReasonNew))
			sb.WriteString("\n---\n\n")
		}
	}
	return sb.String()
}

func headline(r Report) string {
	switch r.Outcome() {
	case OutcomeNoArticles:
		return fmt.Sprintf("Nothing relevant found since %s.", r.Cutoff)
	case OutcomeNoAnnouncements:
		return fmt.Sprintf("No new product announcements in %d relevant article(s).", r.Articles)
	case OutcomeAllTracked:
		return fmt.Sprintf("All %d announced battery(ies) are already tracked in the database.", len(r.Announcements))
	default:
		return fmt.Sprintf("Found %d new battery(ies) not in the database.", len(r.Confirmed))
	}
}

// WriteReport writes the Markdown report into dir, replacing any report
// already written for the same date.
func WriteReport(dir string, r Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ReportFileName(r.Date))
	if err := os.WriteFile(path, []byte(r.Markdown()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}
