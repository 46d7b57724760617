package announce

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shanehull/batterydb/internal/types"
)

type fakeOracle struct {
	responses []string
	err       error
	calls     []string
}

func (f *fakeOracle) Classify(_ context.Context, _, input string) (string, error) {
	f.calls = append(f.calls, input)
	if f.err != nil {
		return "", f.err
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

var articles = []types.Article{{
	Title:       "Tesla launches Powerwall 3",
	Description: "13.5 kWh LFP whole-home battery",
	Link:        "https://example.com/pw3",
	PubDate:     "2025-06-02",
	Source:      "Electrek",
}}

func TestExtractFencedResponse(t *testing.T) {
	oracle := &fakeOracle{responses: []string{
		"Here you go:\n```json\n" +
			`[{"brand":"Tesla","model":"Powerwall 3","key_specs":["13.5 kWh","LFP"],"article_url":"https://example.com/pw3","pub_date":"2025-06-02"}]` +
			"\n```",
	}}

	got, err := NewExtractor(oracle, zap.NewNop()).Extract(context.Background(), articles)
	require.NoError(t, err)

	want := []types.CandidateAnnouncement{{
		Brand:      "Tesla",
		Model:      "Powerwall 3",
		KeySpecs:   types.Specs{"13.5 kWh", "LFP"},
		ArticleURL: "https://example.com/pw3",
		PubDate:    "2025-06-02",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, oracle.calls, 1)
	assert.Contains(t, oracle.calls[0], "[1] Title: Tesla launches Powerwall 3")
}

func TestExtractUnparseableIsEmpty(t *testing.T) {
	for _, resp := range []string{
		"No qualifying articles.",
		`[{"brand": "Tesla", "model": "Powerwall 3",}]`,
		`] backwards [`,
		`[{"brand": 7}]`,
	} {
		oracle := &fakeOracle{responses: []string{resp}}
		got, err := NewExtractor(oracle, zap.NewNop()).Extract(context.Background(), articles)
		require.NoError(t, err, resp)
		assert.Empty(t, got, resp)
	}
}

func TestExtractEmptyArray(t *testing.T) {
	oracle := &fakeOracle{responses: []string{"[]"}}
	got, err := NewExtractor(oracle, zap.NewNop()).Extract(context.Background(), articles)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractNoArticlesSkipsOracle(t *testing.T) {
	oracle := &fakeOracle{}
	got, err := NewExtractor(oracle, zap.NewNop()).Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, oracle.calls)
}

func TestExtractOracleError(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("rate limited")}
	_, err := NewExtractor(oracle, zap.NewNop()).Extract(context.Background(), articles)
	assert.ErrorContains(t, err, "rate limited")
}

func TestExtractSingleStringSpecs(t *testing.T) {
	oracle := &fakeOracle{responses: []string{
		`[{"brand":"BYD","model":"HVS 12.8","key_specs":"12.8 kWh","article_url":"u","pub_date":"d"}]`,
	}}
	got, err := NewExtractor(oracle, zap.NewNop()).Extract(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.Specs{"12.8 kWh"}, got[0].KeySpecs)
}

func TestDecodeArray(t *testing.T) {
	var out []map[string]any
	assert.True(t, decodeArray("```\n[{\"a\": 1}]\n```", &out))
	assert.Len(t, out, 1)

	assert.False(t, decodeArray("", &out))
	assert.False(t, decodeArray("{}", &out))
	assert.False(t, decodeArray("see [1] and [2", &out))
}

func TestDecodeArrayIgnoresBracketsInProse(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"trailing reference", "```json\n[{\"brand\":\"Tesla\",\"model\":\"Powerwall 3\"}]\n```\nBased on article [2]."},
		{"leading reference", "Article [1] qualifies:\n[{\"brand\":\"Tesla\",\"model\":\"Powerwall 3\"}]"},
		{"unclosed bracket first", "Articles [1 and 3 overlap.\n[{\"brand\":\"Tesla\",\"model\":\"Powerwall 3\"}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []types.CandidateAnnouncement
			require.True(t, decodeArray(tt.text, &got))
			require.Len(t, got, 1)
			assert.Equal(t, "Tesla", got[0].Brand)
			assert.Equal(t, "Powerwall 3", got[0].Model)
		})
	}
}
