package game

import (
	"log/slog"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/systems"
	"github.com/pthm-cable/garden/telemetry"
)

// PendingPlacement is a trellis or net placement waiting for the player to
// decide whether it links to its same-kind neighbors.
type PendingPlacement struct {
	Coord     components.Coord
	Structure string // Structure config name
	ConfigIdx int
	Neighbors []components.Direction // Same-kind neighbors when placed
}

// Pending returns the unresolved placement, or nil.
func (s *Simulation) Pending() *PendingPlacement { return s.pending }

// ConfirmConnect resolves the pending placement. With connect the new structure
// links to every same-kind orthogonal neighbor in both directions; without it
// the structure stands alone. The cell and funds are checked again since the
// garden may have changed while the placement was pending.
func (s *Simulation) ConfirmConnect(connect bool) Result {
	pp := s.pending
	if pp == nil {
		return fail(ReasonNoPending)
	}
	s.pending = nil

	e, res, ok := s.cellFor(pp.Coord)
	if !ok {
		return res
	}
	if _, empty := s.occupant(e).(components.Empty); !empty {
		res.Reason = ReasonOccupied
		return res
	}
	cost := s.cfg.Structures[pp.ConfigIdx].Cost
	if !s.charge(cost) {
		res.Reason = ReasonInsufficientFunds
		return res
	}

	st := s.structures.New(pp.ConfigIdx)
	s.placeStructure(e, pp.Coord, &st)
	res.OK, res.Cost, res.Detail = true, cost, pp.Structure
	if !connect {
		return res
	}

	// Re-fetch: the component moved when it was added.
	placed := s.structMap.Get(e)
	linked := systems.Connect(s, pp.Coord, placed)
	if len(linked) > 0 {
		s.emit(telemetry.NewStructureEvent(telemetry.EventStructureConnected, s.tick, pp.Structure, pp.Coord.X, pp.Coord.Y))
	}
	slog.Debug("structure_connected", "x", pp.Coord.X, "y", pp.Coord.Y, "links", len(linked))
	res.Neighbors = linked
	return res
}

// CancelPending drops the pending placement without charging.
func (s *Simulation) CancelPending() Result {
	if s.pending == nil {
		return fail(ReasonNoPending)
	}
	c := s.pending.Coord
	s.pending = nil
	return Result{OK: true, Coord: c}
}
