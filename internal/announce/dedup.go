package announce

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shanehull/batterydb/internal/ai"
	"github.com/shanehull/batterydb/internal/types"
)

type Matcher struct {
	oracle ai.Oracle
	logger *zap.Logger
}

func NewMatcher(oracle ai.Oracle, logger *zap.Logger) *Matcher {
	return &Matcher{oracle: oracle, logger: logger}
}

// Dedup asks the oracle which candidates are not already tracked, then fills
// any fields the oracle dropped from the matching original candidate.
func (m *Matcher) Dedup(ctx context.Context, candidates []types.CandidateAnnouncement, tracked []types.TrackedBattery) ([]types.ConfirmedNewBattery, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	text, err := classify(ctx, m.oracle, "dedup", ai.DedupInstruction, ai.BuildDedupInput(candidates, tracked))
	if err != nil {
		return nil, err
	}

	var confirmed []types.ConfirmedNewBattery
	if !decodeArray(text, &confirmed) {
		m.logger.Warn("Discarding unparseable dedup response", zap.Int("length", len(text)))
		return nil, nil
	}

	for i, c := range confirmed {
		if base, ok := findOriginal(c.Model, candidates); ok {
			confirmed[i] = merge(base, c)
		}
	}
	return confirmed, nil
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldModel lowercases and strips accents so "Résu" matches "RESU".
func foldModel(s string) string {
	folded, _, err := transform.String(stripAccents, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return folded
}

// findOriginal returns the first candidate whose model contains, or is
// contained in, model. Comparison ignores case and accents; empty models
// never match.
func findOriginal(model string, candidates []types.CandidateAnnouncement) (types.CandidateAnnouncement, bool) {
	want := foldModel(model)
	if want == "" {
		return types.CandidateAnnouncement{}, false
	}

	for _, c := range candidates {
		have := foldModel(c.Model)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return c, true
		}
	}
	return types.CandidateAnnouncement{}, false
}

// merge overlays the oracle's non-empty fields on the original candidate. An
// empty string or empty spec list from the oracle keeps the original value.
func merge(base types.CandidateAnnouncement, c types.ConfirmedNewBattery) types.ConfirmedNewBattery {
	out := types.ConfirmedNewBattery{CandidateAnnouncement: base, ReasonNew: c.ReasonNew}
	if c.Brand != "" {
		out.Brand = c.Brand
	}
	if c.Model != "" {
		out.Model = c.Model
	}
	if len(c.KeySpecs) > 0 {
		out.KeySpecs = c.KeySpecs
	}
	if c.ArticleURL != "" {
		out.ArticleURL = c.ArticleURL
	}
	if c.PubDate != "" {
		out.PubDate = c.PubDate
	}
	return out
}
