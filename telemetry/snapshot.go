package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the garden state at one tick.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    int64  `json:"seed"`
	Climate string `json:"climate"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Tick        int     `json:"tick"`
	Days        float64 `json:"days"`
	Money       float64 `json:"money"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`

	Cells []CellState `json:"cells"` // Row-major

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// CellState holds one cell's soil, hazards and occupant.
type CellState struct {
	X int `json:"x"`
	Y int `json:"y"`

	Moisture   float64 `json:"moisture"`
	Compaction float64 `json:"compaction"`
	Oxygen     float64 `json:"oxygen"`
	Organic    float64 `json:"organic"`
	BN         float64 `json:"bn"`
	Microbes   float64 `json:"microbes"`
	PH         float64 `json:"ph"`

	Pest      string `json:"pest,omitempty"`
	PestLevel int    `json:"pest_level,omitempty"`
	WeedLevel int    `json:"weed_level,omitempty"`

	Plant     *PlantState     `json:"plant,omitempty"`
	Structure *StructureState `json:"structure,omitempty"`
}

// PlantState is the JSON form of a plant.
type PlantState struct {
	ID         string  `json:"id"`
	Species    string  `json:"species"`
	Stage      string  `json:"stage"`
	Size       float64 `json:"size"`
	RootHealth float64 `json:"root_health"`
	StemHealth float64 `json:"stem_health"`
	Progress   float64 `json:"progress"`
	Pollinated bool    `json:"pollinated"`
}

// StructureState is the JSON form of a structure.
type StructureState struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Water       float64  `json:"water,omitempty"`
	Connections []string `json:"connections,omitempty"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
