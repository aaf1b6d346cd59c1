// Package decision holds the campaign decisioning core: targeting rule
// evaluation and variant selection. Both are pure given their inputs apart
// from the selector's injected randomness source.
package decision

import "time"

// Mode is a campaign's A/B test mode.
type Mode string

const (
	ModeOff               Mode = "off"
	ModeRules             Mode = "rules"
	ModeWeighted          Mode = "weighted"
	ModeRulesThenWeighted Mode = "rules_then_weighted"
)

// Variant is one candidate creative belonging to a campaign.
type Variant struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Headline  string  `json:"headline"`
	BodyText  string  `json:"body_text"`
	ImageURL  string  `json:"image_url,omitempty"`
	CTAText   string  `json:"cta_text"`
	CTAURL    string  `json:"cta_url"`
	IsDefault bool    `json:"is_default"`
	Weight    float64 `json:"weight"`
}

// Rule maps a signal comparison to a target variant. Higher priority rules
// are evaluated first; equal priorities tie-break on rule ID ascending.
type Rule struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Signal    string `json:"signal"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
	Priority  int    `json:"priority"`
}

// Campaign owns its variants and rules. Ordering of both slices is the
// store's ordering and is preserved through selection.
type Campaign struct {
	ID         string
	Name       string
	Status     string
	Template   string
	ABTestMode Mode
	StartDate  time.Time // zero when unbounded
	EndDate    time.Time
	Variants   []Variant
	Rules      []Rule
}

// Servable reports whether the campaign is active and inside its date window.
func (c Campaign) Servable(now time.Time) bool {
	if c.Status != "active" {
		return false
	}
	if !c.StartDate.IsZero() && now.Before(c.StartDate) {
		return false
	}
	if !c.EndDate.IsZero() && now.After(c.EndDate) {
		return false
	}
	return true
}
