package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/arena/components"
)

func snake(id int, alive bool, body ...components.Position) *components.Agent {
	a := components.NewAgent(id, body[0], components.AgentOptions{})
	a.Body = body
	a.Alive = alive
	return a
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRiskScore(t *testing.T) {
	model := NewRiskModel(DefaultRiskParams())
	origin := pos(0, 0)

	dangers := NewDangerSet()
	dangers.Add(origin, 1)

	tests := []struct {
		name      string
		obstacles []components.Position
		others    []*components.Agent
		dangers   *DangerSet
		want      float64
	}{
		{"nothing nearby", nil, nil, nil, 0},
		{"obstacle at 2", []components.Position{pos(2, 0)}, nil, nil, 2.0},
		{"obstacle at range edge", []components.Position{pos(6, 0)}, nil, nil, 0},
		{"obstacle out of range", []components.Position{pos(7, 0)}, nil, nil, 0},
		{"live head at 3", nil, []*components.Agent{snake(1, true, pos(3, 0))}, nil, 2.4 + 3.0},
		{"dead head at 3", nil, []*components.Agent{snake(1, false, pos(3, 0))}, nil, 2.4},
		{"live head at 5", nil, []*components.Agent{snake(1, true, pos(5, 0))}, nil, 0.8},
		{"nearest segment wins", nil, []*components.Agent{snake(1, true, pos(0, 5), pos(0, 4), pos(0, 3), pos(0, 2))}, nil, 3.2},
		{"shared danger", nil, nil, dangers, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.Score(origin, tt.obstacles, tt.others, tt.dangers)
			if !approx(got, tt.want) {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRiskMonotonicInDistance verifies risk never grows as threats move away.
func TestRiskMonotonicInDistance(t *testing.T) {
	model := NewRiskModel(DefaultRiskParams())
	prev := math.Inf(1)
	for d := 1; d <= 10; d++ {
		other := snake(1, true, pos(d, 0))
		got := model.Score(pos(0, 0), []components.Position{pos(0, d)}, []*components.Agent{other}, nil)
		if got > prev {
			t.Fatalf("risk at distance %d = %v exceeds %v at distance %d", d, got, prev, d-1)
		}
		if got < 0 {
			t.Fatalf("negative risk %v at distance %d", got, d)
		}
		prev = got
	}
	if prev != 0 {
		t.Errorf("risk far from all threats = %v, want 0", prev)
	}
}

// TestRiskDangerAddsFlatPenalty verifies a broadcast adds exactly the penalty.
func TestRiskDangerAddsFlatPenalty(t *testing.T) {
	model := NewRiskModel(DefaultRiskParams())
	obstacles := []components.Position{pos(3, 4)}
	others := []*components.Agent{snake(1, true, pos(5, 2), pos(5, 1))}

	dangers := NewDangerSet()
	before := model.Score(pos(4, 4), obstacles, others, dangers)
	dangers.Add(pos(4, 4), 0)
	after := model.Score(pos(4, 4), obstacles, others, dangers)

	if !approx(after-before, 5.0) {
		t.Errorf("danger delta = %v, want 5", after-before)
	}
}
