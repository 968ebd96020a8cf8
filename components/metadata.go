package components

// FieldDescriptor describes a component field for text display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Min    float64 // Minimum value (for bars)
	Max    float64 // Maximum value (for bars)
	IsBar  bool    // True to render as progress bar
	Group  string  // Logical grouping
}

// Fraction maps v onto [0,1] within the descriptor range.
func (fd FieldDescriptor) Fraction(v float64) float64 {
	if fd.Max <= fd.Min {
		return 0
	}
	f := (v - fd.Min) / (fd.Max - fd.Min)
	return max(0, min(1, f))
}

func boundField(id, label, format, group string, b Bound, bar bool) FieldDescriptor {
	return FieldDescriptor{ID: id, Label: label, Format: format, Min: b.Min, Max: b.Max, IsBar: bar, Group: group}
}

// SoilFieldDescriptors returns metadata for Soil fields.
func SoilFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		boundField("moisture", "Moisture", "%.1f", "water", MoistureBound, true),
		{ID: "wet_duration", Label: "Wet Ticks", Format: "%.0f", Group: "water"},
		boundField("compaction", "Compaction", "%.1f", "structure", CompactionBound, true),
		boundField("oxygen", "Oxygen", "%.1f", "structure", OxygenBound, true),
		{ID: "organic", Label: "Organic", Format: "%.1f", Group: "nutrients"},
		{ID: "bn", Label: "BN", Format: "%.2f", Group: "nutrients"},
		boundField("microbes", "Microbes", "%.0f", "nutrients", MicrobesBound, true),
		boundField("ph", "pH", "%.2f", "nutrients", PHBound, true),
		boundField("nutrition", "Nutrition", "%.1f", "derived", NutritionBound, true),
		boundField("condition", "Condition", "%.1f", "derived", ConditionBound, true),
	}
}

// PlantFieldDescriptors returns metadata for Plant fields.
func PlantFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		boundField("size", "Size", "%.3f", "growth", SizeBound, true),
		boundField("progress", "Maturity", "%.2f", "growth", ProgressBound, true),
		{ID: "age_days", Label: "Age (days)", Format: "%.1f", Group: "growth"},
		boundField("root_health", "Root Health", "%.1f", "health", RootHealthBound, true),
		boundField("stem_health", "Stem Health", "%.1f", "health", StemHealthBound, true),
		boundField("root_density", "Root Density", "%.2f", "health", RootDensityBound, true),
		{ID: "cho", Label: "CHO", Format: "%.2f", Group: "energy"},
		{ID: "atp", Label: "ATP", Format: "%.2f", Group: "energy"},
	}
}
