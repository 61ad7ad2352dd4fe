package game

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/arena/components"
)

// SpawnParams holds food and obstacle placement settings.
type SpawnParams struct {
	Attempts      int        // random tries per placement
	FoodWeights   [3]float64 // normal, bonus, poison; normalised
	BonusLifetime int        // 0 = bonus food never expires
	NoiseScale    float64    // 0 = obstacles placed uniformly
}

// Spawner picks free cells and food types. All randomness comes from the
// simulation rng so a seed reproduces a run.
type Spawner struct {
	params SpawnParams
	rng    *rand.Rand
	noise  opensimplex.Noise
}

// NewSpawner creates a spawner. seed feeds the obstacle clustering noise.
func NewSpawner(params SpawnParams, rng *rand.Rand, seed int64) *Spawner {
	if params.Attempts <= 0 {
		params.Attempts = 200
	}
	return &Spawner{
		params: params,
		rng:    rng,
		noise:  opensimplex.NewNormalized(seed),
	}
}

// FoodType draws a food type from the configured weights.
func (s *Spawner) FoodType() components.FoodType {
	r := s.rng.Float64()
	w := s.params.FoodWeights
	switch {
	case r < w[0]:
		return components.FoodNormal
	case r < w[0]+w[1]:
		return components.FoodBonus
	}
	return components.FoodPoison
}

// Food builds a food item of a random type on p.
func (s *Spawner) Food(p components.Position) components.Food {
	t := s.FoodType()
	f := components.Food{Pos: p, Type: t}
	if t == components.FoodBonus {
		f.Lifetime = s.params.BonusLifetime
	}
	return f
}

// FreeCell draws random cells until one is not occupied.
// ok is false when every attempt hit an occupied cell.
func (s *Spawner) FreeCell(size int, occupied func(components.Position) bool) (components.Position, bool) {
	for range s.params.Attempts {
		p := components.Position{X: s.rng.Intn(size), Y: s.rng.Intn(size)}
		if !occupied(p) {
			return p, true
		}
	}
	return components.Position{}, false
}

// ObstacleCell is FreeCell biased toward high-noise regions so obstacles form
// clusters. Candidates are kept with probability equal to the noise value.
func (s *Spawner) ObstacleCell(size int, occupied func(components.Position) bool) (components.Position, bool) {
	if s.params.NoiseScale <= 0 {
		return s.FreeCell(size, occupied)
	}
	for range s.params.Attempts {
		p := components.Position{X: s.rng.Intn(size), Y: s.rng.Intn(size)}
		if occupied(p) {
			continue
		}
		density := s.noise.Eval2(float64(p.X)*s.params.NoiseScale, float64(p.Y)*s.params.NoiseScale)
		if s.rng.Float64() < density {
			return p, true
		}
	}
	// Noise rejected everything; fall back to any free cell
	return s.FreeCell(size, occupied)
}

// Offset returns a random step in {-1,0,1} on each axis.
func (s *Spawner) Offset() (dx, dy int) {
	return s.rng.Intn(3) - 1, s.rng.Intn(3) - 1
}
