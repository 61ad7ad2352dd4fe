package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/arena/components"
)

// World holds the static arena contents as ECS entities: food carries
// Position+Edible, obstacles carry Position+Solid. Agents live outside the ECS
// because the controller works on *components.Agent directly.
type World struct {
	size int
	ecs  *ecs.World

	foodMapper     *ecs.Map2[components.Position, components.Edible]
	foodFilter     *ecs.Filter2[components.Position, components.Edible]
	obstacleMapper *ecs.Map2[components.Position, components.Solid]
	obstacleFilter *ecs.Filter2[components.Position, components.Solid]
}

// NewWorld creates an empty size x size arena.
func NewWorld(size int) *World {
	w := ecs.NewWorld()
	return &World{
		size:           size,
		ecs:            w,
		foodMapper:     ecs.NewMap2[components.Position, components.Edible](w),
		foodFilter:     ecs.NewFilter2[components.Position, components.Edible](w),
		obstacleMapper: ecs.NewMap2[components.Position, components.Solid](w),
		obstacleFilter: ecs.NewFilter2[components.Position, components.Solid](w),
	}
}

// Size returns the grid side length.
func (w *World) Size() int {
	return w.size
}

// AddFood places a food entity.
func (w *World) AddFood(f components.Food) ecs.Entity {
	pos := f.Pos
	edible := components.Edible{Type: f.Type, Lifetime: f.Lifetime}
	return w.foodMapper.NewEntity(&pos, &edible)
}

// AddObstacle places an obstacle entity.
func (w *World) AddObstacle(p components.Position, tick int64) ecs.Entity {
	pos := p
	solid := components.Solid{PlacedTick: tick}
	return w.obstacleMapper.NewEntity(&pos, &solid)
}

// Food lists every food item in storage order.
func (w *World) Food() []components.Food {
	var out []components.Food
	query := w.foodFilter.Query()
	for query.Next() {
		pos, edible := query.Get()
		out = append(out, components.Food{Pos: *pos, Type: edible.Type, Lifetime: edible.Lifetime})
	}
	return out
}

// Obstacles lists every obstacle cell in storage order.
func (w *World) Obstacles() []components.Position {
	var out []components.Position
	query := w.obstacleFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		out = append(out, *pos)
	}
	return out
}

// FoodCount returns the number of food items.
func (w *World) FoodCount() int {
	n := 0
	query := w.foodFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// ObstacleCount returns the number of obstacles.
func (w *World) ObstacleCount() int {
	n := 0
	query := w.obstacleFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// HasFoodAt reports whether a food item sits on p.
func (w *World) HasFoodAt(p components.Position) bool {
	_, ok := w.findFood(p)
	return ok
}

// HasObstacleAt reports whether an obstacle sits on p.
func (w *World) HasObstacleAt(p components.Position) bool {
	_, ok := w.findObstacle(p)
	return ok
}

// RemoveFoodAt removes the food on p and returns it.
func (w *World) RemoveFoodAt(p components.Position) (components.Food, bool) {
	entity, ok := w.findFood(p)
	if !ok {
		return components.Food{}, false
	}
	pos, edible := w.foodMapper.Get(entity)
	f := components.Food{Pos: *pos, Type: edible.Type, Lifetime: edible.Lifetime}
	w.foodMapper.Remove(entity)
	return f, true
}

// MoveFood relocates the food on from to to, keeping its type and lifetime.
func (w *World) MoveFood(from, to components.Position) bool {
	entity, ok := w.findFood(from)
	if !ok {
		return false
	}
	pos, _ := w.foodMapper.Get(entity)
	*pos = to
	return true
}

// MoveObstacle relocates the obstacle on from to to and stamps the move tick.
func (w *World) MoveObstacle(from, to components.Position, tick int64) bool {
	entity, ok := w.findObstacle(from)
	if !ok {
		return false
	}
	pos, solid := w.obstacleMapper.Get(entity)
	*pos = to
	solid.PlacedTick = tick
	return true
}

// AgeBonusFood counts down every expiring food item by one tick and removes
// those that run out. It returns the removed items.
func (w *World) AgeBonusFood() []components.Food {
	var expired []components.Food
	var toRemove []ecs.Entity

	query := w.foodFilter.Query()
	for query.Next() {
		pos, edible := query.Get()
		if edible.Lifetime <= 0 {
			continue
		}
		edible.Lifetime--
		if edible.Lifetime == 0 {
			expired = append(expired, components.Food{Pos: *pos, Type: edible.Type})
			toRemove = append(toRemove, query.Entity())
		}
	}

	// Remove after iteration; the world is locked while a query runs
	for _, e := range toRemove {
		w.foodMapper.Remove(e)
	}
	return expired
}

func (w *World) findFood(p components.Position) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	query := w.foodFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		if !ok && *pos == p {
			found = query.Entity()
			ok = true
		}
	}
	return found, ok
}

func (w *World) findObstacle(p components.Position) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	query := w.obstacleFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		if !ok && *pos == p {
			found = query.Entity()
			ok = true
		}
	}
	return found, ok
}
