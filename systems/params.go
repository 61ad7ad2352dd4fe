package systems

// RiskParams holds the thresholds and weights of the risk score.
type RiskParams struct {
	ObstacleRange  int     // obstacle term is zero beyond this distance
	ObstacleWeight float64 // per-step weight inside range

	BodyRange  int
	BodyWeight float64

	HeadRange  int // head term is zero beyond this distance
	HeadOffset int // term = (HeadOffset - dist) * HeadWeight
	HeadWeight float64

	SharedDangerPenalty float64 // flat penalty for broadcast danger cells
}

// DefaultRiskParams returns the stock risk weighting.
func DefaultRiskParams() RiskParams {
	return RiskParams{
		ObstacleRange:       6,
		ObstacleWeight:      0.5,
		BodyRange:           6,
		BodyWeight:          0.8,
		HeadRange:           4,
		HeadOffset:          5,
		HeadWeight:          1.5,
		SharedDangerPenalty: 5.0,
	}
}

// DecisionParams holds tunables for target selection.
type DecisionParams struct {
	FloodFillLimit     int     // reachability cap per candidate cell
	Jitter             float64 // utilities get a uniform offset in [-Jitter, Jitter]
	CooperationPenalty float64 // subtracted (times cooperation weight) for contested food
}

// DefaultDecisionParams returns the stock decision tunables.
func DefaultDecisionParams() DecisionParams {
	return DecisionParams{
		FloodFillLimit:     DefaultFloodFillLimit,
		Jitter:             0.01,
		CooperationPenalty: 1.5,
	}
}

// CoordinationParams holds danger broadcast settings.
type CoordinationParams struct {
	DangerThreshold int // broadcast when more hostile segments than this are visible
}

// DefaultCoordinationParams returns the stock broadcast threshold.
func DefaultCoordinationParams() CoordinationParams {
	return CoordinationParams{DangerThreshold: 5}
}
