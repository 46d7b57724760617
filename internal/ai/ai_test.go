package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/batterydb/internal/types"
)

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" Anthropic ")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, p)
	assert.Equal(t, "ANTHROPIC_API_KEY", p.KeyEnv())

	p, err = ParseProvider("")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p)
	assert.Equal(t, "GEMINI_API_KEY", p.KeyEnv())

	_, err = ParseProvider("llama")
	assert.Error(t, err)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), ProviderOpenAI, "", "")
	assert.Error(t, err)

	o, err := New(context.Background(), ProviderOpenAI, "sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIModel, o.(*OpenAI).model)

	o, err = New(context.Background(), ProviderAnthropic, "sk-ant-test", "claude-sonnet-4-5")
	require.NoError(t, err)
	assert.EqualValues(t, "claude-sonnet-4-5", o.(*Anthropic).model)
}

func TestBuildExtractionInput(t *testing.T) {
	got := BuildExtractionInput([]types.Article{
		{Title: "Powerwall 4", Source: "Electrek", PubDate: "Mon, 02 Jun 2025", Link: "https://x/pw4", Description: "15 kWh"},
		{Title: "Other", Source: "PV", PubDate: "d", Link: "l", Description: "s"},
	})

	want := "Articles:\n" +
		"[1] Title: Powerwall 4\nSource: Electrek | Date: Mon, 02 Jun 2025\nURL: https://x/pw4\nSummary: 15 kWh\n\n" +
		"[2] Title: Other\nSource: PV | Date: d\nURL: l\nSummary: s"
	assert.Equal(t, want, got)
}

func TestBuildDedupInput(t *testing.T) {
	got := BuildDedupInput(
		[]types.CandidateAnnouncement{{Brand: "Tesla", Model: "Powerwall 3"}},
		[]types.TrackedBattery{{BrandSlug: "tesla", Model: "Powerwall 3", Slug: "tesla-powerwall-3"}},
	)

	assert.Contains(t, got, "EXISTING DATABASE (1 batteries):\n- tesla / Powerwall 3 (slug: tesla-powerwall-3)")
	assert.Contains(t, got, "NEWLY ANNOUNCED (to check):\n[1] Tesla Powerwall 3")
}
