package game

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/arena/components"
)

func TestWorldFoodLifecycle(t *testing.T) {
	w := NewWorld(10)
	w.AddFood(components.Food{Pos: components.Position{X: 1, Y: 1}, Type: components.FoodNormal})
	w.AddFood(components.Food{Pos: components.Position{X: 2, Y: 2}, Type: components.FoodBonus, Lifetime: 2})
	w.AddFood(components.Food{Pos: components.Position{X: 3, Y: 3}, Type: components.FoodPoison})

	if w.FoodCount() != 3 {
		t.Fatalf("FoodCount = %d, want 3", w.FoodCount())
	}

	f, ok := w.RemoveFoodAt(components.Position{X: 3, Y: 3})
	if !ok || f.Type != components.FoodPoison {
		t.Errorf("RemoveFoodAt = %v, %v; want poison", f, ok)
	}
	if _, ok := w.RemoveFoodAt(components.Position{X: 3, Y: 3}); ok {
		t.Error("removed the same food twice")
	}

	if expired := w.AgeBonusFood(); len(expired) != 0 {
		t.Errorf("first aging expired %v", expired)
	}
	expired := w.AgeBonusFood()
	if len(expired) != 1 || expired[0].Pos != (components.Position{X: 2, Y: 2}) {
		t.Errorf("second aging expired %v, want the bonus item", expired)
	}
	if w.FoodCount() != 1 || !w.HasFoodAt(components.Position{X: 1, Y: 1}) {
		t.Errorf("remaining food = %v", w.Food())
	}
}

func TestWorldMoves(t *testing.T) {
	w := NewWorld(10)
	from := components.Position{X: 4, Y: 4}
	to := components.Position{X: 5, Y: 4}

	w.AddObstacle(from, 0)
	if !w.MoveObstacle(from, to, 7) {
		t.Fatal("MoveObstacle failed")
	}
	if w.HasObstacleAt(from) || !w.HasObstacleAt(to) {
		t.Errorf("obstacles = %v", w.Obstacles())
	}
	if w.MoveObstacle(from, to, 8) {
		t.Error("moved a missing obstacle")
	}

	w.AddFood(components.Food{Pos: from, Type: components.FoodBonus, Lifetime: 5})
	if !w.MoveFood(from, components.Position{X: 4, Y: 5}) {
		t.Fatal("MoveFood failed")
	}
	food := w.Food()
	if len(food) != 1 || food[0].Pos != (components.Position{X: 4, Y: 5}) || food[0].Lifetime != 5 {
		t.Errorf("food after move = %v", food)
	}
}

func TestSpawnerFoodDistribution(t *testing.T) {
	s := NewSpawner(SpawnParams{
		FoodWeights:   [3]float64{0.8, 0.15, 0.05},
		BonusLifetime: 40,
	}, rand.New(rand.NewSource(1)), 1)

	counts := map[components.FoodType]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		f := s.Food(components.Position{})
		counts[f.Type]++
		if f.Type == components.FoodBonus && f.Lifetime != 40 {
			t.Fatalf("bonus lifetime = %d, want 40", f.Lifetime)
		}
		if f.Type != components.FoodBonus && f.Lifetime != 0 {
			t.Fatalf("%v food has lifetime %d", f.Type, f.Lifetime)
		}
	}

	within := func(got int, want float64) bool {
		frac := float64(got) / n
		return frac > want-0.02 && frac < want+0.02
	}
	if !within(counts[components.FoodNormal], 0.8) ||
		!within(counts[components.FoodBonus], 0.15) ||
		!within(counts[components.FoodPoison], 0.05) {
		t.Errorf("distribution = %v", counts)
	}
}

func TestSpawnerFreeCell(t *testing.T) {
	s := NewSpawner(SpawnParams{Attempts: 50}, rand.New(rand.NewSource(3)), 3)

	full := func(components.Position) bool { return true }
	if _, ok := s.FreeCell(5, full); ok {
		t.Error("found a free cell on a full grid")
	}
	if _, ok := s.ObstacleCell(5, full); ok {
		t.Error("found an obstacle cell on a full grid")
	}

	only := components.Position{X: 0, Y: 0}
	free := func(p components.Position) bool { return p != only }
	s = NewSpawner(SpawnParams{Attempts: 500}, rand.New(rand.NewSource(3)), 3)
	if p, ok := s.FreeCell(2, free); !ok || p != only {
		t.Errorf("FreeCell = %v, %v; want %v", p, ok, only)
	}
}
