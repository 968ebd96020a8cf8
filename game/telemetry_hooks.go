package game

import (
	"log/slog"

	"github.com/pthm-cable/garden/components"
	"github.com/pthm-cable/garden/telemetry"
)

// emit counts an event and forwards it to the callback and run output.
func (s *Simulation) emit(ev telemetry.Event) {
	s.collector.RecordEvent(ev)
	if s.opts.EventCallback != nil {
		s.opts.EventCallback(ev)
	}
	if s.opts.Output != nil || s.opts.Store != nil {
		s.events = append(s.events, ev)
	}
}

// beginRun registers a new run with the store, if any.
func (s *Simulation) beginRun() {
	s.runID = 0
	if s.opts.Store == nil {
		return
	}
	id, err := s.opts.Store.BeginRun(s.seed, s.cfg.Weather.Climate, s.cfg.World.Width, s.cfg.World.Height)
	if err != nil {
		slog.Error("store_begin_run_failed", "error", err)
		return
	}
	s.runID = id
}

// flushTelemetry closes the stats window when it is due.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}
	stats := s.collector.Flush(s.tick, s.sample())

	if s.opts.LogStats {
		stats.LogStats()
	}
	if s.opts.StatsCallback != nil {
		s.opts.StatsCallback(stats)
	}
	if err := s.opts.Output.WriteTelemetry(stats); err != nil {
		slog.Error("telemetry_write_failed", "error", err)
	}
	if s.opts.Store != nil && s.runID != 0 {
		if err := s.opts.Store.SaveWindow(s.runID, stats); err != nil {
			slog.Error("store_window_failed", "error", err)
		}
	}
	s.checkBookmarks(stats)
	s.flushEvents()
}

// checkBookmarks logs notable windows, writes them out and snapshots the garden.
func (s *Simulation) checkBookmarks(stats telemetry.WindowStats) {
	for _, bm := range s.bookmarks.Check(stats) {
		if s.opts.LogStats {
			bm.LogBookmark()
		}
		if s.opts.BookmarkCallback != nil {
			s.opts.BookmarkCallback(bm)
		}
		if s.opts.Output == nil {
			continue
		}
		if err := s.opts.Output.WriteBookmark(bm); err != nil {
			slog.Error("bookmark_write_failed", "error", err)
		}
		if s.cfg.Telemetry.SnapshotOnBookmark {
			if _, err := s.opts.Output.WriteSnapshot(s.Snapshot(&bm)); err != nil {
				slog.Error("snapshot_write_failed", "error", err)
			}
		}
	}
}

// flushEvents writes buffered events to the run output.
func (s *Simulation) flushEvents() {
	if len(s.events) == 0 {
		return
	}
	if err := s.opts.Output.WriteEvents(s.events); err != nil {
		slog.Error("events_write_failed", "error", err)
	}
	if s.opts.Store != nil && s.runID != 0 {
		if err := s.opts.Store.SaveEvents(s.runID, s.events); err != nil {
			slog.Error("store_events_failed", "error", err)
		}
	}
	s.events = s.events[:0]
}

// Finish flushes pending events, writes the ledger and closes the stored run.
// The output manager and store stay open; their owner closes them.
func (s *Simulation) Finish() error {
	s.flushEvents()

	rows := make([]telemetry.LedgerRow, len(s.ledger))
	for i, e := range s.ledger {
		rows[i] = telemetry.LedgerRow{
			Species:  e.Species,
			Harvests: e.Harvests,
			Yield:    e.Yield,
			Price:    e.Price,
			Revenue:  e.Yield * e.Price,
		}
	}
	if err := s.opts.Output.WriteLedger(rows); err != nil {
		return err
	}
	if err := s.opts.Output.WriteHallOfFame(s.hallOfFame); err != nil {
		return err
	}
	if s.opts.Store != nil && s.runID != 0 {
		return s.opts.Store.EndRun(s.runID, s.tick, s.money)
	}
	return nil
}

// sample measures the garden for window stats.
func (s *Simulation) sample() telemetry.Sample {
	n := len(s.order)
	out := telemetry.Sample{
		Money:       s.money,
		Days:        s.weather.Days,
		Temperature: s.weather.Temperature,
		Humidity:    s.weather.Humidity,
		Attraction:  s.weather.Attraction,
		Moisture:    make([]float64, 0, n),
		Nutrition:   make([]float64, 0, n),
		Condition:   make([]float64, 0, n),
		Microbes:    make([]float64, 0, n),
	}
	for _, e := range s.order {
		soil := s.soilMap.Get(e)
		out.Moisture = append(out.Moisture, soil.Moisture())
		out.Nutrition = append(out.Nutrition, soil.Nutrition())
		out.Condition = append(out.Condition, soil.Condition())
		out.Microbes = append(out.Microbes, soil.Microbes())

		pw := s.pwMap.Get(e)
		if pw.HasPest() {
			out.PestCells++
		}
		if pw.WeedLevel() > 0 {
			out.WeedCells++
		}
		if s.structMap.Has(e) {
			out.Structures++
		}
	}

	query := s.plantQuery.Query()
	for query.Next() {
		_, p := query.Get()
		out.PlantSize = append(out.PlantSize, p.Size())
		out.PlantEnergy = append(out.PlantEnergy, p.CHO()+p.ATP())
	}
	return out
}

// PlantCount returns the number of living plants.
func (s *Simulation) PlantCount() int {
	n := 0
	query := s.plantQuery.Query()
	for query.Next() {
		n++
	}
	return n
}

// HallOfFame returns the best harvests of the run so far.
func (s *Simulation) HallOfFame() *telemetry.HallOfFame { return s.hallOfFame }

// Lifetime returns the tracked life of a living plant, or nil.
func (s *Simulation) Lifetime(c components.Coord) *telemetry.LifetimeStats {
	e, ok := s.entityAt(c)
	if !ok || !s.plantMap.Has(e) {
		return nil
	}
	return s.lifetimes.Get(s.plantMap.Get(e).ID)
}
