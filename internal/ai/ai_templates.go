package ai

import (
	"fmt"
	"strings"

	"github.com/shanehull/batterydb/internal/types"
)

const ExtractionInstruction = `
You are reviewing article headlines and summaries from clean energy news sites.

Identify which of the following articles announce the LAUNCH or RELEASE of a new residential home battery product. A qualifying article must describe a specific new product being brought to market.

Do NOT include:
- Articles about existing products (reviews, comparisons, installations)
- Price changes, firmware updates, or accessories
- EV batteries or utility-scale / grid storage
- Vague mentions without a specific named product

For each qualifying article return a JSON object with:
- brand: manufacturer name
- model: product model name
- key_specs: array of specs mentioned (e.g. ["13.5 kWh", "LFP", "whole-home backup"])
- article_url: the article URL
- pub_date: publication date

Return ONLY a valid JSON array. If no articles qualify, return [].
`

const DedupInstruction = `
You are comparing newly announced batteries against an existing database to find ones we don't track yet.

For each newly announced battery, check if it is already in the database. Account for name variations (e.g. "Powerwall 3" matches "tesla-powerwall-3", "IQ Battery 5P" matches "enphase-iq-battery-5p").

Return a JSON array of ONLY the batteries NOT already in the database. Each object must have:
- brand: manufacturer name
- model: product model name
- key_specs: specs mentioned
- article_url: source URL
- pub_date: publication date
- reason_new: one sentence explaining why this is not in the database

Return ONLY a valid JSON array. If all are already tracked, return [].
`

var articleTemplate = `[%d] Title: %s
Source: %s | Date: %s
URL: %s
Summary: %s`

var dedupTemplate = `
EXISTING DATABASE (%d batteries):
%s

NEWLY ANNOUNCED (to check):
%s
`

func BuildExtractionInput(articles []types.Article) string {
	entries := make([]string, 0, len(articles))
	for i, a := range articles {
		entries = append(entries, fmt.Sprintf(articleTemplate,
			i+1, a.Title, a.Source, a.PubDate, a.Link, a.Description))
	}
	return "Articles:\n" + strings.Join(entries, "\n\n")
}

func BuildDedupInput(candidates []types.CandidateAnnouncement, tracked []types.TrackedBattery) string {
	dbList := make([]string, 0, len(tracked))
	for _, t := range tracked {
		dbList = append(dbList, fmt.Sprintf("- %s / %s (slug: %s)", t.BrandSlug, t.Model, t.Slug))
	}

	candidateList := make([]string, 0, len(candidates))
	for i, c := range candidates {
		candidateList = append(candidateList, fmt.Sprintf("[%d] %s %s", i+1, c.Brand, c.Model))
	}

	return fmt.Sprintf(dedupTemplate,
		len(tracked),
		strings.Join(dbList, "\n"),
		strings.Join(candidateList, "\n"),
	)
}
