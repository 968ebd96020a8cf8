package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Seed:    42,
		Climate: "temperate",
		Width:   2,
		Height:  1,
		Tick:    1000,
		Days:    3.47,
		Money:   87.5,
		Cells: []CellState{
			{
				X: 0, Y: 0, Moisture: 55, Compaction: 20, Oxygen: 70, Organic: 4, BN: 1.2, Microbes: 300, PH: 6.5,
				Plant: &PlantState{ID: "p-1", Species: "tomato", Stage: "flowering", Size: 0.6, Pollinated: true},
			},
			{
				X: 1, Y: 0, Moisture: 30, Pest: "sap_feeder", PestLevel: 2, WeedLevel: 1,
				Structure: &StructureState{Name: "irrigation", Kind: "irrigation", Water: 12.5},
			},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkPestOutbreak,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != snapshot.Seed {
		t.Errorf("Seed mismatch: got %d, want %d", loaded.Seed, snapshot.Seed)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if len(loaded.Cells) != len(snapshot.Cells) {
		t.Fatalf("Cells count mismatch: got %d, want %d", len(loaded.Cells), len(snapshot.Cells))
	}
	if p := loaded.Cells[0].Plant; p == nil || p.Species != "tomato" || !p.Pollinated {
		t.Errorf("plant not restored: %+v", p)
	}
	if st := loaded.Cells[1].Structure; st == nil || st.Water != 12.5 {
		t.Errorf("structure not restored: %+v", st)
	}
	if loaded.Cells[1].PestLevel != 2 {
		t.Errorf("PestLevel = %d, want 2", loaded.Cells[1].PestLevel)
	}
	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		Tick:     5000,
		Bookmark: &Bookmark{Type: BookmarkDrought, Tick: 5000},
	}
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_5000_drought.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if expected := filepath.Join(tmpDir, "snapshot_3000.json"); path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	tmpDir := t.TempDir()
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion + 1, Tick: 1}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}
