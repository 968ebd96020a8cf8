package components

// StructureKind tags what a structure does.
type StructureKind uint8

const (
	Irrigation StructureKind = iota
	Trellis
	Net
)

func (k StructureKind) String() string {
	switch k {
	case Irrigation:
		return "irrigation"
	case Trellis:
		return "trellis"
	case Net:
		return "net"
	default:
		return "unknown"
	}
}

// ParseStructureKind maps a config kind name to a StructureKind.
func ParseStructureKind(name string) (StructureKind, bool) {
	switch name {
	case "irrigation":
		return Irrigation, true
	case "trellis":
		return Trellis, true
	case "net":
		return Net, true
	}
	return 0, false
}

// Connectable reports whether structures of this kind link to same-kind neighbors.
func (k StructureKind) Connectable() bool {
	return k == Trellis || k == Net
}

// Structure is a built structure occupying a cell.
type Structure struct {
	Kind   StructureKind
	Config int // Index into config.Structures

	water    float64
	capacity float64

	// Connections indexed in Cardinals order (up, right, down, left).
	connections [4]bool
}

// NewStructure creates a structure. Irrigation starts holding water, clamped to capacity.
func NewStructure(kind StructureKind, configIdx int, capacity, water float64) Structure {
	s := Structure{Kind: kind, Config: configIdx, capacity: capacity}
	if kind == Irrigation {
		s.SetWater(water)
	}
	return s
}

func (s *Structure) Water() float64    { return s.water }
func (s *Structure) Capacity() float64 { return s.capacity }

// SetWater stores water clamped to [0, capacity].
func (s *Structure) SetWater(v float64) {
	v = WaterBound.Apply(v)
	if v > s.capacity {
		v = s.capacity
	}
	s.water = v
}

// Connected reports whether the structure links toward d.
func (s *Structure) Connected(d Direction) bool {
	i := dirIndex(d)
	return i >= 0 && s.connections[i]
}

// SetConnected sets or clears the link toward d. Non-connectable kinds ignore it.
func (s *Structure) SetConnected(d Direction, on bool) {
	i := dirIndex(d)
	if i < 0 || !s.Kind.Connectable() {
		return
	}
	s.connections[i] = on
}

// Connections returns the flags in up/right/down/left order.
func (s *Structure) Connections() [4]bool { return s.connections }

// AnyConnected reports whether any link is set.
func (s *Structure) AnyConnected() bool {
	for _, c := range s.connections {
		if c {
			return true
		}
	}
	return false
}

func dirIndex(d Direction) int {
	switch d {
	case DirNorth:
		return 0
	case DirEast:
		return 1
	case DirSouth:
		return 2
	case DirWest:
		return 3
	}
	return -1
}
