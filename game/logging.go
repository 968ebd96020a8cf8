package game

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pthm-cable/garden/components"
)

// LogState logs a summary of the garden state.
func (s *Simulation) LogState() {
	var stages [components.Senescent + 1]int
	var pests, weeds, structures int
	var moisture, condition float64

	for _, e := range s.order {
		soil := s.soilMap.Get(e)
		moisture += soil.Moisture()
		condition += soil.Condition()

		pw := s.pwMap.Get(e)
		if pw.HasPest() {
			pests++
		}
		if pw.WeedLevel() > 0 {
			weeds++
		}

		switch occ := s.occupant(e).(type) {
		case *components.Plant:
			stages[occ.Stage()]++
		case *components.Structure:
			structures++
		case components.Empty:
		}
	}
	n := float64(len(s.order))

	w := s.weather
	slog.Info("garden_state",
		"tick", s.tick,
		"days", w.Days,
		"time_of_day", w.TimeOfDay,
		"temperature", w.Temperature,
		"humidity", w.Humidity,
		"wind", w.WindSpeed,
		"wind_dir", w.WindDir.String(),
		"pollination", w.Pollination,
		"money", s.money,
		"seedling", stages[components.Seedling],
		"vegetative", stages[components.Vegetative],
		"flowering", stages[components.Flowering],
		"fruiting", stages[components.Fruiting],
		"senescent", stages[components.Senescent],
		"structures", structures,
		"pest_cells", pests,
		"weed_cells", weeds,
		"moisture_mean", moisture/n,
		"condition_mean", condition/n,
	)
}

// cellGlyph is the map character for a cell.
func (s *Simulation) cellGlyph(e components.Occupant, weeds int) byte {
	switch occ := e.(type) {
	case *components.Plant:
		name := s.cfg.Species[occ.Species].Name
		if occ.Stage() == components.Senescent {
			return 'x'
		}
		if occ.Stage() >= components.Flowering {
			return strings.ToUpper(name[:1])[0]
		}
		return name[0]
	case *components.Structure:
		switch occ.Kind {
		case components.Irrigation:
			return '~'
		case components.Trellis:
			return '#'
		default:
			return '+'
		}
	case components.Empty:
		if weeds > 0 {
			return ','
		}
		return '.'
	default:
		panic("game: unhandled occupant")
	}
}

// WriteMap renders the garden as text, one row per line. Plants show the first
// letter of their species (upper case once flowering), '~' irrigation, '#' trellis,
// '+' net, ',' weeds and '.' bare soil.
func (s *Simulation) WriteMap(w io.Writer) error {
	width := s.cfg.World.Width
	row := make([]byte, 0, width)
	for i, e := range s.order {
		row = append(row, s.cellGlyph(s.occupant(e), s.pwMap.Get(e).WeedLevel()))
		if (i+1)%width == 0 {
			if _, err := fmt.Fprintf(w, "%s\n", row); err != nil {
				return err
			}
			row = row[:0]
		}
	}
	return nil
}
