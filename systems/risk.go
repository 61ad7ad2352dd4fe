package systems

import "github.com/pthm-cable/arena/components"

// noThreat stands in for the distance to a threat that does not exist.
const noThreat = 999

// RiskModel scores how dangerous it is to stand on a cell.
type RiskModel struct {
	params RiskParams
}

// NewRiskModel creates a risk model with the given weighting.
func NewRiskModel(params RiskParams) RiskModel {
	return RiskModel{params: params}
}

// Params returns the weighting in use.
func (r RiskModel) Params() RiskParams {
	return r.params
}

// Score sums the obstacle, hostile-body, hostile-head and shared-danger terms for cell.
// others must not contain the scoring agent. Bodies of dead agents still count as
// bodies; only live heads count as heads. dangers may be nil.
func (r RiskModel) Score(cell components.Position, obstacles []components.Position, others []*components.Agent, dangers *DangerSet) float64 {
	p := r.params

	nearestObstacle := noThreat
	for _, o := range obstacles {
		nearestObstacle = min(nearestObstacle, cell.Manhattan(o))
	}

	nearestBody := noThreat
	nearestHead := noThreat
	for _, other := range others {
		for _, seg := range other.Body {
			nearestBody = min(nearestBody, cell.Manhattan(seg))
		}
		if other.Alive && len(other.Body) > 0 {
			nearestHead = min(nearestHead, cell.Manhattan(other.Body[0]))
		}
	}

	risk := 0.0
	if nearestObstacle <= p.ObstacleRange {
		risk += float64(p.ObstacleRange-nearestObstacle) * p.ObstacleWeight
	}
	if nearestBody <= p.BodyRange {
		risk += float64(p.BodyRange-nearestBody) * p.BodyWeight
	}
	if nearestHead <= p.HeadRange {
		risk += float64(p.HeadOffset-nearestHead) * p.HeadWeight
	}
	if dangers.Contains(cell) {
		risk += p.SharedDangerPenalty
	}
	return risk
}
