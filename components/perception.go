package components

// Perception is what an agent sensed at the start of a tick.
// It is replaced wholesale every tick, never merged.
type Perception struct {
	Food      []Food
	Hostiles  []Position // body segments of other live agents
	Obstacles []Position
	Dangers   []Position // shared danger cells
}

// HasFoodAt reports whether food at p was visible.
func (p Perception) HasFoodAt(pos Position) bool {
	for _, f := range p.Food {
		if f.Pos == pos {
			return true
		}
	}
	return false
}
