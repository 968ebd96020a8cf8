package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry: %v", err)
	}
	if err := om.WriteLedger(nil); err != nil {
		t.Errorf("nil WriteLedger: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 288, Money: float64(100 * i)}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	id := uuid.New()
	if err := om.WriteEvents([]Event{NewPlantEvent(EventPlanted, 3, id, "bean", 2, 1, 0.05)}); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if err := om.WriteEvents([]Event{NewPlantEvent(EventHarvested, 400, id, "bean", 2, 1, 1.5)}); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkDrought, Tick: 576, Description: "dry"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	rows := []LedgerRow{{Species: "bean", Harvests: 1, Yield: 1.5, Price: 2, Revenue: 3}}
	if err := om.WriteLedger(rows); err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var stats []WindowStats
	readCSV(t, filepath.Join(dir, "telemetry.csv"), &stats)
	if len(stats) != 2 || stats[1].Money != 200 {
		t.Errorf("telemetry.csv = %+v", stats)
	}

	var events []Event
	readCSV(t, filepath.Join(dir, "events.csv"), &events)
	if len(events) != 2 || events[1].Name != "harvested" || events[1].PlantID != id.String() {
		t.Errorf("events.csv = %+v", events)
	}

	var ledger []LedgerRow
	readCSV(t, filepath.Join(dir, "ledger.csv"), &ledger)
	if len(ledger) != 1 || ledger[0].Revenue != 3 {
		t.Errorf("ledger.csv = %+v", ledger)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatalf("read bookmarks.csv: %v", err)
	}
	if !strings.Contains(string(data), "drought") {
		t.Errorf("bookmarks.csv missing drought: %q", data)
	}
}

func TestOutputManagerHallOfFame(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	hof := NewHallOfFame(3)
	lt := NewLifetimeTracker()
	id := uuid.New()
	lt.Register(id, 0, 4, 5, 10, 0.05)
	hof.Consider("tomato", lt.Get(id), 298, 5, 2.5, 7.5)

	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatalf("WriteHallOfFame: %v", err)
	}
	loaded, err := LoadHallOfFameFromFile(filepath.Join(dir, "hall_of_fame.json"))
	if err != nil {
		t.Fatalf("LoadHallOfFameFromFile: %v", err)
	}
	best := loaded.Best("tomato")
	if len(best) != 1 || best[0].PlantID != id.String() || best[0].Yield != 2.5 || best[0].X != 4 {
		t.Errorf("loaded hall = %+v", best)
	}
}

func readCSV(t *testing.T, path string, out any) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		t.Fatalf("unmarshal %s: %v", path, err)
	}
}
