// Package components defines the data types shared by the decision engine and the arena.
package components

// FoodType distinguishes the three kinds of food.
type FoodType uint8

const (
	FoodNormal FoodType = iota
	FoodBonus
	FoodPoison
)

// String returns the display name for a FoodType.
func (t FoodType) String() string {
	switch t {
	case FoodBonus:
		return "bonus"
	case FoodPoison:
		return "poison"
	}
	return "normal"
}

// ParseFoodType maps a name back to a FoodType. Unknown names are normal food.
func ParseFoodType(s string) FoodType {
	switch s {
	case "bonus":
		return FoodBonus
	case "poison":
		return FoodPoison
	}
	return FoodNormal
}

// Value is the attractiveness of the food used by utility scoring.
func (t FoodType) Value() float64 {
	switch t {
	case FoodBonus:
		return 3.0
	case FoodPoison:
		return -2.0
	}
	return 1.0
}

// ApplyScore returns the score after eating food of this type. Score never drops below zero.
func (t FoodType) ApplyScore(score int) int {
	switch t {
	case FoodBonus:
		return score + 3
	case FoodPoison:
		return max(0, score-2)
	}
	return score + 1
}

// Food is one food item as seen by agents.
// Lifetime is the remaining tick count for bonus food; 0 means it does not expire.
type Food struct {
	Pos      Position
	Type     FoodType
	Lifetime int
}

// Edible is the ECS component marking a food entity.
type Edible struct {
	Type     FoodType
	Lifetime int
}

// Solid is the ECS component marking an obstacle entity.
type Solid struct {
	PlacedTick int64 // tick the obstacle was spawned or last moved
}
