package decision

import (
	"math/rand"
	"slices"
	"strings"

	"ad-decision-engine/internal/signals"
)

// Selector picks one variant per campaign mode. The randomness source is
// injected so weighted draws are deterministically testable.
type Selector struct {
	rand func() float64
}

func NewSelector() *Selector {
	return &Selector{rand: rand.Float64}
}

// NewSelectorWithRand uses src for weighted draws; src must return values in [0,1).
func NewSelectorWithRand(src func() float64) *Selector {
	return &Selector{rand: src}
}

// Select returns the variant to serve, or nil when the campaign has no
// variants. It never fails and performs no I/O.
func (s *Selector) Select(c Campaign, sig signals.Map) *Variant {
	if len(c.Variants) == 0 {
		return nil
	}

	switch c.ABTestMode {
	case ModeRules:
		if v := s.byRules(c, sig); v != nil {
			return v
		}
		return defaultVariant(c.Variants)
	case ModeWeighted:
		return s.byWeight(c.Variants)
	case ModeRulesThenWeighted:
		if v := s.byRules(c, sig); v != nil {
			return v
		}
		return s.byWeight(c.Variants)
	default: // off and unrecognized modes
		return defaultVariant(c.Variants)
	}
}

// byRules evaluates rules by priority descending (rule ID ascending on ties)
// and returns the first matching rule's target, or nil when no rule matches
// or the target variant no longer exists.
func (s *Selector) byRules(c Campaign, sig signals.Map) *Variant {
	rules := slices.Clone(c.Rules)
	slices.SortFunc(rules, func(a, b Rule) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		return strings.Compare(a.ID, b.ID)
	})

	byID := make(map[string]*Variant, len(c.Variants))
	for i := range c.Variants {
		byID[c.Variants[i].ID] = &c.Variants[i]
	}

	for _, r := range rules {
		if !Evaluate(r, sig) {
			continue
		}
		if v, ok := byID[r.VariantID]; ok {
			return v
		}
	}
	return nil
}

// byWeight performs a weighted random draw. A non-positive total weight
// degenerates to the first variant.
func (s *Selector) byWeight(variants []Variant) *Variant {
	total := 0.0
	for _, v := range variants {
		total += v.Weight
	}
	if total <= 0 {
		return &variants[0]
	}

	draw := s.rand() * total
	for i := range variants {
		draw -= variants[i].Weight
		if draw < 0 {
			return &variants[i]
		}
	}
	return &variants[len(variants)-1]
}

// defaultVariant returns the variant flagged is_default, else the first in
// store order. Zero or multiple defaults are tolerated; the first flagged
// wins.
func defaultVariant(variants []Variant) *Variant {
	for i := range variants {
		if variants[i].IsDefault {
			return &variants[i]
		}
	}
	return &variants[0]
}
