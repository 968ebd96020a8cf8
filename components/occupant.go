package components

// Occupant is what stands on a cell: Empty, *Plant or *Structure.
// Match it with a type switch; the set of variants is closed.
type Occupant interface {
	occupant()
}

// Empty is the occupant of a bare cell.
type Empty struct{}

func (Empty) occupant()      {}
func (*Plant) occupant()     {}
func (*Structure) occupant() {}

// OccupantName returns a short tag for an occupant variant.
func OccupantName(o Occupant) string {
	switch o.(type) {
	case Empty:
		return "empty"
	case *Plant:
		return "plant"
	case *Structure:
		return "structure"
	default:
		panic("components: unknown occupant variant")
	}
}
