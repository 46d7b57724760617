/*
Package notify renders scan results: the dated Markdown report, the console
summary and the optional report email.
*/
package notify

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// PrintSummary writes the end-of-run console summary.
func PrintSummary(w io.Writer, r Report, reportPath string) {
	fmt.Fprintln(w, "\n===========================================")
	switch r.Outcome() {
	case OutcomeNewBatteries:
		fmt.Fprintf(w, "✅ %d NEW BATTERY(IES) FOUND\n", len(r.Confirmed))
	default:
		fmt.Fprintln(w, "No new batteries to review.")
	}
	fmt.Fprintln(w, "===========================================")

	for i, b := range r.Confirmed {
		fmt.Fprintf(w, "\n--- #%d ---\n", i+1)
		fmt.Fprintf(w, "Battery: %s %s\n", b.Brand, b.Model)
		fmt.Fprintf(w, "Source:  %s\n", b.ArticleURL)
		fmt.Fprintf(w, "Why new: %s\n", b.ReasonNew)
	}

	fmt.Fprintf(w, "\nOutput: %s\n", reportPath)
	fmt.Fprintf(w, "\nSummary: %d feeds, %d relevant articles, %d announcements, %d new to database\n",
		r.Feeds, r.Articles, len(r.Announcements), len(r.Confirmed))
}

// EmailReport sends the report when email is configured. Reports without new
// batteries are only sent when cfg.SendEmpty is set.
func EmailReport(r Report, cfg EmailConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Email disabled, skipping report email")
		return nil
	}
	if r.Outcome() != OutcomeNewBatteries && !cfg.SendEmpty {
		logger.Info("Nothing new, skipping report email")
		return nil
	}

	msg, err := NewHTMLEmailRenderer().Render(r)
	if err != nil {
		return err
	}

	logger.Info("Emailing report",
		zap.String("smtp", fmt.Sprintf("%s:%d", cfg.SMTPServer, cfg.SMTPPort)),
		zap.String("to", cfg.ToEmail),
	)
	return NewEmailSender(cfg, logger).Send(msg)
}
