package components

// Agent is a snake-like agent: an ordered body with the head first.
// Fields are written only by the controller acting on this agent.
type Agent struct {
	ID           int
	Body         []Position // head first, unique, contiguous
	Alive        bool
	Score        int
	Direction    Direction
	SensingRange int
	Personality  Personality
	Memory       Memory // recently occupied cells, oldest first
	Cooperative  bool

	// Planning cache: cells still to walk, first element adjacent to the head.
	PlannedPath []Position

	// Snapshot captured at the start of the last tick.
	LastPerception Perception
}

// AgentOptions holds the optional construction parameters of an agent.
// Nil fields fall back to the defaults below.
type AgentOptions struct {
	SensingRange   *int
	MemoryCapacity *int
	Direction      *Direction
	Cooperative    bool
	Personality    PartialPersonality
}

// Construction defaults.
const (
	DefaultSensingRange   = 3
	DefaultMemoryCapacity = 24
	DefaultDirection      = Left
)

// NewAgent creates a live agent of length one at start.
func NewAgent(id int, start Position, opts AgentOptions) *Agent {
	sensing := DefaultSensingRange
	if opts.SensingRange != nil && *opts.SensingRange >= 0 {
		sensing = *opts.SensingRange
	}
	capacity := DefaultMemoryCapacity
	if opts.MemoryCapacity != nil && *opts.MemoryCapacity > 0 {
		capacity = *opts.MemoryCapacity
	}
	dir := DefaultDirection
	if opts.Direction != nil {
		dir = *opts.Direction
	}

	return &Agent{
		ID:           id,
		Body:         []Position{start},
		Alive:        true,
		Direction:    dir,
		SensingRange: sensing,
		Personality:  opts.Personality.Resolve(),
		Memory:       NewMemory(capacity),
		Cooperative:  opts.Cooperative,
	}
}

// Head returns the first body cell.
func (a *Agent) Head() Position {
	return a.Body[0]
}

// Occupies reports whether p is one of the agent's body cells.
func (a *Agent) Occupies(p Position) bool {
	for _, seg := range a.Body {
		if seg == p {
			return true
		}
	}
	return false
}

// Memory is a bounded FIFO of recently occupied cells.
type Memory struct {
	cells    []Position
	capacity int
}

// NewMemory creates an empty memory holding at most capacity cells.
func NewMemory(capacity int) Memory {
	if capacity < 1 {
		capacity = 1
	}
	return Memory{cells: make([]Position, 0, capacity), capacity: capacity}
}

// Push appends p, evicting the oldest entry when full.
func (m *Memory) Push(p Position) {
	if m.capacity == 0 {
		*m = NewMemory(DefaultMemoryCapacity)
	}
	if len(m.cells) == m.capacity {
		copy(m.cells, m.cells[1:])
		m.cells = m.cells[:len(m.cells)-1]
	}
	m.cells = append(m.cells, p)
}

// Contains reports whether p was recently occupied.
func (m *Memory) Contains(p Position) bool {
	for _, c := range m.cells {
		if c == p {
			return true
		}
	}
	return false
}

// Cells returns the remembered cells, oldest first. The slice must not be modified.
func (m *Memory) Cells() []Position {
	return m.cells
}

// Len returns the number of remembered cells.
func (m *Memory) Len() int { return len(m.cells) }

// Cap returns the configured capacity.
func (m *Memory) Cap() int { return m.capacity }
