/*
Package announce turns relevant articles into product announcements and
checks them against the catalog. Both steps ask an ai.Oracle and parse its
free-text answer as a JSON array; output that does not parse is treated as an
empty answer, never as an error.
*/
package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/ai"
	"github.com/shanehull/batterydb/internal/metrics"
	"github.com/shanehull/batterydb/internal/types"
)

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\n?(.*?)```")

// decodeArray strips Markdown code fences and decodes the first well-formed
// JSON array in the remaining text that fits out. Brackets in surrounding
// prose, such as "see article [2]", are skipped. It reports whether decoding
// succeeded.
func decodeArray(text string, out any) bool {
	stripped := codeFence.ReplaceAllString(text, "$1")

	for i := 0; i < len(stripped); i++ {
		if stripped[i] != '[' {
			continue
		}

		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(stripped[i:])).Decode(&raw); err != nil {
			continue
		}
		if json.Unmarshal(raw, out) == nil {
			return true
		}
	}
	return false
}

func classify(ctx context.Context, oracle ai.Oracle, stage, instructions, input string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.OracleCallDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}()

	text, err := oracle.Classify(ctx, instructions, input)
	if err != nil {
		return "", fmt.Errorf("%s oracle call failed: %w", stage, err)
	}
	return text, nil
}

type Extractor struct {
	oracle ai.Oracle
	logger *zap.Logger
}

func NewExtractor(oracle ai.Oracle, logger *zap.Logger) *Extractor {
	return &Extractor{oracle: oracle, logger: logger}
}

// Extract asks the oracle which articles announce a new residential battery.
// The result keeps the oracle's order. No articles means no oracle call.
func (e *Extractor) Extract(ctx context.Context, articles []types.Article) ([]types.CandidateAnnouncement, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	text, err := classify(ctx, e.oracle, "extract", ai.ExtractionInstruction, ai.BuildExtractionInput(articles))
	if err != nil {
		return nil, err
	}

	var candidates []types.CandidateAnnouncement
	if !decodeArray(text, &candidates) {
		e.logger.Warn("Discarding unparseable extraction response", zap.Int("length", len(text)))
		return nil, nil
	}
	return candidates, nil
}
