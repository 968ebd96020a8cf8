// Package components defines the per-cell ECS components of the garden.
package components

// Coord identifies a grid cell. Y grows southward, X grows eastward.
type Coord struct {
	X, Y int
}

// Add returns the coordinate offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Cell marks an entity as a garden cell and records its coordinate.
type Cell struct {
	Coord  Coord
	Status string // Cached human-readable status from the last entity update
}

// Direction is a cardinal wind/connection direction.
type Direction uint8

const (
	DirNone Direction = iota
	DirNorth
	DirEast
	DirSouth
	DirWest
)

// String returns the single-letter name of the direction.
func (d Direction) String() string {
	switch d {
	case DirNorth:
		return "N"
	case DirEast:
		return "E"
	case DirSouth:
		return "S"
	case DirWest:
		return "W"
	default:
		return "None"
	}
}

// Offset returns the unit grid step toward the direction.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case DirNorth:
		return 0, -1
	case DirEast:
		return 1, 0
	case DirSouth:
		return 0, 1
	case DirWest:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirNorth:
		return DirSouth
	case DirEast:
		return DirWest
	case DirSouth:
		return DirNorth
	case DirWest:
		return DirEast
	default:
		return DirNone
	}
}

// Cardinals lists the four directions in up/right/down/left order.
var Cardinals = [4]Direction{DirNorth, DirEast, DirSouth, DirWest}
