package components

import "math"

// Personality holds the static utility weights of an agent.
type Personality struct {
	Fear        float64
	Hunger      float64
	Aggression  float64
	Curiosity   float64
	Cooperation float64
}

// DefaultPersonality returns the weights substituted for missing or malformed values.
func DefaultPersonality() Personality {
	return Personality{
		Fear:        0.6,
		Hunger:      1.0,
		Aggression:  0.4,
		Curiosity:   0.3,
		Cooperation: 1.0,
	}
}

// PartialPersonality is a personality where any weight may be absent.
type PartialPersonality struct {
	Fear        *float64
	Hunger      *float64
	Aggression  *float64
	Curiosity   *float64
	Cooperation *float64
}

// Resolve fills absent, negative, NaN or infinite weights from DefaultPersonality.
func (pp PartialPersonality) Resolve() Personality {
	def := DefaultPersonality()
	return Personality{
		Fear:        weightOr(pp.Fear, def.Fear),
		Hunger:      weightOr(pp.Hunger, def.Hunger),
		Aggression:  weightOr(pp.Aggression, def.Aggression),
		Curiosity:   weightOr(pp.Curiosity, def.Curiosity),
		Cooperation: weightOr(pp.Cooperation, def.Cooperation),
	}
}

// Overlay returns pp with every absent weight taken from base.
func (pp PartialPersonality) Overlay(base PartialPersonality) PartialPersonality {
	pick := func(v, b *float64) *float64 {
		if v != nil {
			return v
		}
		return b
	}
	return PartialPersonality{
		Fear:        pick(pp.Fear, base.Fear),
		Hunger:      pick(pp.Hunger, base.Hunger),
		Aggression:  pick(pp.Aggression, base.Aggression),
		Curiosity:   pick(pp.Curiosity, base.Curiosity),
		Cooperation: pick(pp.Cooperation, base.Cooperation),
	}
}

func weightOr(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return def
	}
	return *v
}
