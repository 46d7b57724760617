package feeds

import (
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/shanehull/batterydb/internal/types"
)

const snippetLimit = 400

// Keywords are matched case-insensitively as plain substrings, so short ones
// like "ESS" also hit inside longer words.
var Keywords = []string{
	"battery", "batteries", "ESS", "energy storage", "powerwall",
	"sonnen", "enphase", "BYD", "LG RESU", "home storage", "solar storage",
	"BESS", "stationary storage", "residential storage", "home battery",
}

var whitespace = regexp.MustCompile(`[\n\t\r\s\xA0]+`)

func IsRelevant(title, snippet string) bool {
	text := strings.ToLower(title + " " + snippet)
	for _, kw := range Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func filterItems(items []*gofeed.Item, source string, cutoff time.Time) []types.Article {
	var out []types.Article
	for _, item := range items {
		published, raw := publishedAt(item)
		if published == nil || !published.After(cutoff) {
			continue
		}

		snippet := itemSnippet(item)
		if !IsRelevant(item.Title, snippet) {
			continue
		}

		out = append(out, types.Article{
			Title:       strings.TrimSpace(item.Title),
			Description: truncate(snippet, snippetLimit),
			Link:        item.Link,
			PubDate:     raw,
			Source:      source,
		})
	}
	return out
}

// publishedAt falls back to the updated date for Atom entries that carry no
// published element.
func publishedAt(item *gofeed.Item) (*time.Time, string) {
	if item.PublishedParsed != nil {
		return item.PublishedParsed, item.Published
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed, item.Updated
	}
	return nil, ""
}

func itemSnippet(item *gofeed.Item) string {
	source := item.Description
	if strings.TrimSpace(source) == "" {
		source = item.Content
	}
	return htmlToText(source)
}

func htmlToText(fragment string) string {
	if !strings.Contains(fragment, "<") && !strings.Contains(fragment, "&") {
		return strings.TrimSpace(whitespace.ReplaceAllString(fragment, " "))
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(extractText(n))
		sb.WriteString(" ")
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(sb.String(), " "))
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return ""
	}

	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(extractText(c))
		if c.Type == html.ElementNode && (c.Data == "p" || c.Data == "br" || c.Data == "div" || c.Data == "li") {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
