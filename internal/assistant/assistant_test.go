package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReply_FirstMatchingScenarioWins(t *testing.T) {
	a := New(1)

	// "mobile app" содержит триггеры и сценария ПО ("app"), и мобильного
	// ("mobile") — выигрывает тот, что стоит в таблице раньше.
	reply := a.Reply("I need a mobile app for my client", ChatContext{})
	assert.Contains(t, reply.Message, "software development proposal")
	assert.Contains(t, reply.Suggestions, "Mobile app")
}

func TestReply_TriggerIsCaseInsensitive(t *testing.T) {
	a := New(1)

	reply := a.Reply("MARKETING CAMPAIGN for Q3", ChatContext{})
	assert.Equal(t, "Marketing Campaign", reply.ExtractedInfo["projectType"])
}

func TestReply_ExtractsClientBudgetTimeline(t *testing.T) {
	a := New(1)

	reply := a.Reply("Proposal for Acme Corp, $50,000, 6 weeks", ChatContext{})
	require.NotNil(t, reply.ExtractedInfo)
	assert.Equal(t, "Acme Corp", reply.ExtractedInfo["clientName"])
	assert.Equal(t, "$50,000", reply.ExtractedInfo["budget"])
	assert.Equal(t, "6 weeks", reply.ExtractedInfo["timeline"])
	assert.Equal(t, responseExtracted, reply.Message)
}

func TestReply_BudgetStopsAtTrailingComma(t *testing.T) {
	a := New(1)

	reply := a.Reply("Proposal for Initech, $75,000, 12 weeks", ChatContext{})
	assert.Equal(t, "$75,000", reply.ExtractedInfo["budget"])

	reply = a.Reply("Proposal for Initech, $80K, 8 weeks", ChatContext{})
	assert.Equal(t, "$80k", reply.ExtractedInfo["budget"])
}

func TestReply_ClientNameKeepsOriginalCase(t *testing.T) {
	a := New(1)

	reply := a.Reply("working with GlobalBank on this one", ChatContext{})
	assert.Equal(t, "GlobalBank", reply.ExtractedInfo["clientName"])
}

func TestReply_UnknownMessageAsksForClarification(t *testing.T) {
	a := New(1)

	reply := a.Reply("hmm", ChatContext{})
	assert.Equal(t, responseClarification, reply.Message)
	assert.Equal(t, defaultSuggestions, reply.Suggestions)
	assert.Nil(t, reply.ExtractedInfo)
}

func TestWelcome(t *testing.T) {
	a := New(1)

	reply := a.Welcome()
	assert.Equal(t, responseWelcome, reply.Message)
	assert.NotEmpty(t, reply.Suggestions)
}

func TestSuggest_PersonalizesPlaceholders(t *testing.T) {
	a := New(1)

	suggestions := a.Suggest("executive-summary", "RetailCorp", "retail")
	require.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.NotContains(t, s.Content, "{clientName}")
		assert.NotContains(t, s.Content, "{industry}")
	}
	assert.Contains(t, suggestions[0].Content, "RetailCorp")
}

func TestSuggest_UnknownTypeFallsBack(t *testing.T) {
	a := New(1)

	suggestions := a.Suggest("appendix", "RetailCorp", "retail")
	require.Len(t, suggestions, len(fallbackSuggestions))
	assert.Equal(t, "default-1", suggestions[0].ID)
	// исходная таблица не должна мутировать при подстановке
	assert.Contains(t, fallbackSuggestions[1].Content, "{clientName}")
}

func TestSectionAdvice(t *testing.T) {
	a := New(1)

	reply := a.SectionAdvice(ChatContext{
		ClientName:         "GlobalBank",
		ActiveSectionTitle: "Budget & Pricing",
		ActiveSectionType:  "budget",
	})
	assert.Contains(t, reply.Message, `"Budget & Pricing"`)
	assert.Contains(t, reply.Message, "transparent pricing")
	assert.Contains(t, reply.Suggestions[0], "GlobalBank")
}

func TestSectionAdvice_EmptyClientUsesPlaceholder(t *testing.T) {
	a := New(1)

	reply := a.SectionAdvice(ChatContext{ActiveSectionTitle: "Team", ActiveSectionType: "team"})
	assert.Contains(t, reply.Suggestions[0], "your client")
}

func TestTips_ReturnsRequestedCount(t *testing.T) {
	a := New(42)

	tips := a.Tips(3)
	require.Len(t, tips, 3)
	seen := make(map[string]bool)
	for _, tip := range tips {
		assert.Contains(t, improvementTips, tip)
		assert.False(t, seen[tip], "совет не должен повторяться")
		seen[tip] = true
	}
}

func TestTips_OutOfRangeCountReturnsAll(t *testing.T) {
	a := New(42)

	assert.Len(t, a.Tips(0), len(improvementTips))
	assert.Len(t, a.Tips(100), len(improvementTips))
}

func TestEnhance_AllModes(t *testing.T) {
	a := New(1)

	for _, mode := range []string{EnhanceProfessional, EnhancePersuasive, EnhanceConcise, EnhanceDetailed} {
		result, err := a.Enhance("<p>Our team delivers.</p>", mode)
		require.NoError(t, err, mode)
		assert.Equal(t, "<p>Our team delivers.</p>", result.OriginalContent)
		assert.Equal(t, mode, result.EnhancementType)
		assert.Contains(t, result.EnhancedContent, "<p>Our team delivers.</p>")
		assert.Contains(t, result.EnhancedContent, enhanceDescriptions[mode])
		assert.NotEmpty(t, result.Improvements)
	}
}

func TestEnhance_UnknownModeFails(t *testing.T) {
	a := New(1)

	result, err := a.Enhance("text", "sarcastic")
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestValidEnhanceMode(t *testing.T) {
	assert.True(t, ValidEnhanceMode(EnhanceConcise))
	assert.False(t, ValidEnhanceMode(""))
	assert.False(t, ValidEnhanceMode("casual"))
}

func TestGenerateSection_KnownType(t *testing.T) {
	a := New(1)

	content := a.GenerateSection("executive-summary", "StartupXYZ", "fintech")
	assert.True(t, strings.HasPrefix(content, "<h3>Executive Summary</h3>"))
	assert.Contains(t, content, "StartupXYZ")
	assert.NotContains(t, content, "{clientName}")
}

func TestGenerateSection_DefaultsForUnknownTypeAndEmptyContext(t *testing.T) {
	a := New(1)

	content := a.GenerateSection("appendix", "", "")
	assert.Contains(t, content, "the client")
	assert.NotContains(t, content, "{clientName}")
	assert.NotContains(t, content, "{industry}")
}
