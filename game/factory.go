package game

import (
	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/systems"
)

// newAgent resolves an agent entry against agent_defaults. Unset entry fields
// take the defaults; defaults that are themselves unusable fall through to the
// built-in values in components.
func newAgent(ac config.AgentConfig, def config.AgentDefaultsConfig) *components.Agent {
	opts := components.AgentOptions{
		SensingRange:   ac.SensingRange,
		MemoryCapacity: ac.MemoryCapacity,
		Cooperative:    def.Cooperative,
		Personality:    partialPersonality(ac.Personality).Overlay(partialPersonality(def.Personality)),
	}
	if opts.SensingRange == nil && def.SensingRange > 0 {
		opts.SensingRange = &def.SensingRange
	}
	if opts.MemoryCapacity == nil && def.MemoryCapacity > 0 {
		opts.MemoryCapacity = &def.MemoryCapacity
	}
	if ac.Cooperative != nil {
		opts.Cooperative = *ac.Cooperative
	}

	dirName := def.Direction
	if ac.Direction != nil {
		dirName = *ac.Direction
	}
	if d, ok := components.ParseDirection(dirName); ok {
		opts.Direction = &d
	}

	start := components.Position{X: ac.Start.X, Y: ac.Start.Y}
	return components.NewAgent(ac.ID, start, opts)
}

func partialPersonality(p config.PersonalityConfig) components.PartialPersonality {
	return components.PartialPersonality{
		Fear:        p.Fear,
		Hunger:      p.Hunger,
		Aggression:  p.Aggression,
		Curiosity:   p.Curiosity,
		Cooperation: p.Cooperation,
	}
}

func decisionParams(cfg *config.Config) systems.DecisionParams {
	d := cfg.Decision
	return systems.DecisionParams{
		FloodFillLimit:     d.FloodFillLimit,
		Jitter:             d.Jitter,
		CooperationPenalty: d.CooperationPenalty,
	}
}

func riskParams(cfg *config.Config) systems.RiskParams {
	r := cfg.Risk
	return systems.RiskParams{
		ObstacleRange:       r.ObstacleRange,
		ObstacleWeight:      r.ObstacleWeight,
		BodyRange:           r.BodyRange,
		BodyWeight:          r.BodyWeight,
		HeadRange:           r.HeadRange,
		HeadOffset:          r.HeadOffset,
		HeadWeight:          r.HeadWeight,
		SharedDangerPenalty: r.SharedDangerPenalty,
	}
}

func coordinationParams(cfg *config.Config) systems.CoordinationParams {
	return systems.CoordinationParams{DangerThreshold: cfg.Coordination.DangerThreshold}
}
