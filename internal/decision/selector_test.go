package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ad-decision-engine/internal/signals"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return tm
}

func campaignWith(mode Mode, variants []Variant, rules []Rule) Campaign {
	return Campaign{ID: "c1", Status: "active", ABTestMode: mode, Variants: variants, Rules: rules}
}

func scriptedRand(values ...float64) (func() float64, *int) {
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}, &i
}

func TestSelect_NoVariants(t *testing.T) {
	s := NewSelector()
	assert.Nil(t, s.Select(campaignWith(ModeOff, nil, nil), signals.Map{}))
}

func TestSelect_OffReturnsDefault(t *testing.T) {
	variants := []Variant{
		{ID: "v1", Headline: "first"},
		{ID: "v2", Headline: "second", IsDefault: true},
	}
	s := NewSelector()
	got := s.Select(campaignWith(ModeOff, variants, nil), signals.Map{"weather_condition": "rainy"})
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID)
}

func TestSelect_OffNoDefaultFallsBackToFirst(t *testing.T) {
	variants := []Variant{{ID: "v1"}, {ID: "v2"}}
	got := NewSelector().Select(campaignWith(ModeOff, variants, nil), signals.Map{})
	require.NotNil(t, got)
	assert.Equal(t, "v1", got.ID)
}

func TestSelect_UnrecognizedModeBehavesAsOff(t *testing.T) {
	variants := []Variant{{ID: "v1"}, {ID: "v2", IsDefault: true}}
	got := NewSelector().Select(campaignWith("bandit", variants, nil), signals.Map{})
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID)
}

func TestSelect_RulesMatch(t *testing.T) {
	variants := []Variant{{ID: "v1", IsDefault: true}, {ID: "v2"}}
	rules := []Rule{
		{ID: "r1", VariantID: "v2", Signal: "weather_condition", Operator: "eq", Value: "Rainy", Priority: 10},
	}
	got := NewSelector().Select(campaignWith(ModeRules, variants, rules), signals.Map{"weather_condition": "rainy"})
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID)
}

func TestSelect_RulesNoMatchFallsBackToDefault(t *testing.T) {
	variants := []Variant{{ID: "v1"}, {ID: "v2", IsDefault: true}}
	rules := []Rule{
		{ID: "r1", VariantID: "v1", Signal: "weather_condition", Operator: "eq", Value: "snowy", Priority: 5},
	}
	got := NewSelector().Select(campaignWith(ModeRules, variants, rules), signals.Map{"weather_condition": "clear"})
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID)
}

func TestSelect_RulesTargetRemovedFallsBack(t *testing.T) {
	variants := []Variant{{ID: "v1", IsDefault: true}}
	rules := []Rule{
		{ID: "r1", VariantID: "gone", Signal: "daypart", Operator: "eq", Value: "morning", Priority: 9},
	}
	got := NewSelector().Select(campaignWith(ModeRules, variants, rules), signals.Map{"daypart": "morning"})
	require.NotNil(t, got)
	assert.Equal(t, "v1", got.ID)
}

func TestSelect_RulesPriorityOrder(t *testing.T) {
	variants := []Variant{{ID: "v1"}, {ID: "v2"}, {ID: "v3"}}
	rules := []Rule{
		{ID: "r1", VariantID: "v1", Signal: "daypart", Operator: "eq", Value: "morning", Priority: 1},
		{ID: "r2", VariantID: "v2", Signal: "daypart", Operator: "eq", Value: "morning", Priority: 8},
	}
	got := NewSelector().Select(campaignWith(ModeRules, variants, rules), signals.Map{"daypart": "morning"})
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID, "higher priority rule wins")
}

func TestSelect_RulesEqualPriorityTieBreaksOnID(t *testing.T) {
	variants := []Variant{{ID: "v1"}, {ID: "v2"}}
	rules := []Rule{
		{ID: "r2", VariantID: "v2", Signal: "daypart", Operator: "eq", Value: "night", Priority: 5},
		{ID: "r1", VariantID: "v1", Signal: "daypart", Operator: "eq", Value: "night", Priority: 5},
	}
	got := NewSelector().Select(campaignWith(ModeRules, variants, rules), signals.Map{"daypart": "night"})
	require.NotNil(t, got)
	assert.Equal(t, "v1", got.ID, "equal priority resolves by rule id ascending")
}

func TestSelect_WeightedZeroTotalReturnsFirst(t *testing.T) {
	variants := []Variant{{ID: "v1", Weight: 0}, {ID: "v2", Weight: 0}, {ID: "v3", Weight: 0}}
	src, calls := scriptedRand(0.5)
	got := NewSelectorWithRand(src).Select(campaignWith(ModeWeighted, variants, nil), signals.Map{})
	require.NotNil(t, got)
	assert.Equal(t, "v1", got.ID)
	assert.Zero(t, *calls, "degenerate distribution must not draw")
}

func TestSelect_WeightedDraw(t *testing.T) {
	variants := []Variant{{ID: "v1", Weight: 1}, {ID: "v2", Weight: 3}}

	src, _ := scriptedRand(0.1) // draw 0.4 lands in v1's band [0,1)
	got := NewSelectorWithRand(src).Select(campaignWith(ModeWeighted, variants, nil), signals.Map{})
	require.NotNil(t, got)
	assert.Equal(t, "v1", got.ID)

	src, _ = scriptedRand(0.5) // draw 2.0 lands in v2's band [1,4)
	got = NewSelectorWithRand(src).Select(campaignWith(ModeWeighted, variants, nil), signals.Map{})
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID)
}

func TestSelect_RulesThenWeighted_RuleWinsWithoutDraw(t *testing.T) {
	variants := []Variant{{ID: "v1", Weight: 1}, {ID: "v2", Weight: 1}}
	rules := []Rule{
		{ID: "r1", VariantID: "v2", Signal: "geo_country", Operator: "eq", Value: "Germany", Priority: 3},
	}
	src, calls := scriptedRand(0.9)
	got := NewSelectorWithRand(src).Select(
		campaignWith(ModeRulesThenWeighted, variants, rules),
		signals.Map{"geo_country": "germany"},
	)
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID)
	assert.Zero(t, *calls, "matching rule must bypass the weighted path")
}

func TestSelect_RulesThenWeighted_FallsThroughToDraw(t *testing.T) {
	variants := []Variant{{ID: "v1", Weight: 1}, {ID: "v2", Weight: 1}}
	rules := []Rule{
		{ID: "r1", VariantID: "v2", Signal: "geo_country", Operator: "eq", Value: "Germany", Priority: 3},
	}
	src, calls := scriptedRand(0.75) // draw 1.5 lands in v2's band [1,2)
	got := NewSelectorWithRand(src).Select(
		campaignWith(ModeRulesThenWeighted, variants, rules),
		signals.Map{"geo_country": "France"},
	)
	require.NotNil(t, got)
	assert.Equal(t, "v2", got.ID)
	assert.Equal(t, 1, *calls)
}

func TestCampaign_Servable(t *testing.T) {
	now := mustTime(t, "2026-08-31T12:00:00Z")

	active := Campaign{Status: "active"}
	assert.True(t, active.Servable(now))

	draft := Campaign{Status: "draft"}
	assert.False(t, draft.Servable(now))

	future := Campaign{Status: "active", StartDate: mustTime(t, "2026-09-15T00:00:00Z")}
	assert.False(t, future.Servable(now))

	expired := Campaign{Status: "active", EndDate: mustTime(t, "2026-08-01T00:00:00Z")}
	assert.False(t, expired.Servable(now))

	window := Campaign{
		Status:    "active",
		StartDate: mustTime(t, "2026-08-01T00:00:00Z"),
		EndDate:   mustTime(t, "2026-09-30T00:00:00Z"),
	}
	assert.True(t, window.Servable(now))
}

func BenchmarkSelect_Rules(b *testing.B) {
	variants := make([]Variant, 10)
	rules := make([]Rule, 50)
	for i := range variants {
		variants[i] = Variant{ID: string(rune('a' + i)), Weight: 1}
	}
	for i := range rules {
		rules[i] = Rule{
			ID:        string(rune('a' + i%26)),
			VariantID: variants[i%len(variants)].ID,
			Signal:    "geo_country",
			Operator:  "eq",
			Value:     "Atlantis",
			Priority:  i,
		}
	}
	c := campaignWith(ModeRulesThenWeighted, variants, rules)
	sig := signals.Map{"geo_country": "Germany", "daypart": "morning"}
	s := NewSelector()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Select(c, sig)
	}
}
