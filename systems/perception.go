package systems

import "github.com/pthm-cable/arena/components"

// Perceive restricts world state to the square window of half-width sensing around head.
// self is skipped when listing hostile segments; dead agents contribute nothing.
func Perceive(
	head components.Position,
	sensing int,
	food []components.Food,
	agents []*components.Agent,
	self *components.Agent,
	obstacles []components.Position,
	dangers []components.Position,
) components.Perception {
	var p components.Perception

	for _, f := range food {
		if head.WithinBox(f.Pos, sensing) {
			p.Food = append(p.Food, f)
		}
	}

	for _, other := range agents {
		if other == self || !other.Alive {
			continue
		}
		for _, seg := range other.Body {
			if head.WithinBox(seg, sensing) {
				p.Hostiles = append(p.Hostiles, seg)
			}
		}
	}

	for _, o := range obstacles {
		if head.WithinBox(o, sensing) {
			p.Obstacles = append(p.Obstacles, o)
		}
	}

	for _, d := range dangers {
		if head.WithinBox(d, sensing) {
			p.Dangers = append(p.Dangers, d)
		}
	}

	return p
}
