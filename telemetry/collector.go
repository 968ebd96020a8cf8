package telemetry

// Sample is the garden state measured at the end of a window.
type Sample struct {
	Money       float64
	Days        float64
	Temperature float64
	Humidity    float64
	Attraction  float64

	Structures int
	PestCells  int
	WeedCells  int

	// Per cell
	Moisture  []float64
	Nutrition []float64
	Condition []float64
	Microbes  []float64

	// Per living plant
	PlantSize   []float64
	PlantEnergy []float64 // CHO + ATP
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks    int
	minutesPerTick float64

	// Current window tracking
	windowStartTick int

	// Event counters for current window
	planted      int
	harvests     int
	deaths       int
	removals     int
	pestSpawns   int
	pestRemovals int
	weedSpreads  int
	yield        float64
	revenue      float64
	evaporation  float64
}

// NewCollector creates a new stats collector.
// windowTicks: ticks per stats window
// minutesPerTick: simulated minutes per tick, used for reporting only
func NewCollector(windowTicks int, minutesPerTick float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:    windowTicks,
		minutesPerTick: minutesPerTick,
	}
}

// Reset clears counters and restarts the window at tick 0.
func (c *Collector) Reset() {
	c.windowStartTick = 0
	c.clear()
}

func (c *Collector) clear() {
	c.planted = 0
	c.harvests = 0
	c.deaths = 0
	c.removals = 0
	c.pestSpawns = 0
	c.pestRemovals = 0
	c.weedSpreads = 0
	c.yield = 0
	c.revenue = 0
	c.evaporation = 0
}

// RecordTick records the evaporation of one tick.
func (c *Collector) RecordTick(evaporation float64) {
	c.evaporation += evaporation
}

// RecordHarvest records a harvest and its revenue.
func (c *Collector) RecordHarvest(yield, revenue float64) {
	c.harvests++
	c.yield += yield
	c.revenue += revenue
}

// RecordEvent counts an emitted event. Harvests are counted by RecordHarvest.
func (c *Collector) RecordEvent(ev Event) {
	switch ev.Type {
	case EventPlanted:
		c.planted++
	case EventPlantDied:
		c.deaths++
	case EventPlantRemoved:
		c.removals++
	case EventPestSpawned:
		c.pestSpawns++
	case EventPestRemoved, EventPestCleared, EventPestTreated:
		c.pestRemovals++
	case EventWeedSeeded, EventWeedSpread:
		c.weedSpreads++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, s Sample) WindowStats {
	moisture := Describe(s.Moisture)
	condition := Describe(s.Condition)
	size := Describe(s.PlantSize)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimMinutes:      float64(currentTick) * c.minutesPerTick,
		Days:            s.Days,

		Plants:     len(s.PlantSize),
		Structures: s.Structures,
		PestCells:  s.PestCells,
		WeedCells:  s.WeedCells,

		Planted:      c.planted,
		Harvests:     c.harvests,
		Deaths:       c.deaths,
		Removals:     c.removals,
		PestSpawns:   c.pestSpawns,
		PestRemovals: c.pestRemovals,
		WeedSpreads:  c.weedSpreads,

		Yield:   c.yield,
		Revenue: c.revenue,
		Money:   s.Money,

		Evaporation: c.evaporation,
		Temperature: s.Temperature,
		Humidity:    s.Humidity,
		Attraction:  s.Attraction,

		MoistureMean:  moisture.Mean,
		MoistureP10:   moisture.P10,
		MoistureP90:   moisture.P90,
		NutritionMean: Describe(s.Nutrition).Mean,
		ConditionMean: condition.Mean,
		ConditionStd:  condition.Std,
		MicrobesMean:  Describe(s.Microbes).Mean,

		PlantSizeMean:   size.Mean,
		PlantSizeP50:    size.P50,
		PlantEnergyMean: Describe(s.PlantEnergy).Mean,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.clear()

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
