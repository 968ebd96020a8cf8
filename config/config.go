// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/garden/traits"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// A loaded Config is treated as read-only by the simulation.
type Config struct {
	World      WorldConfig       `yaml:"world"`
	Time       TimeConfig        `yaml:"time"`
	Soil       SoilConfig        `yaml:"soil"`
	Microbes   MicrobeConfig     `yaml:"microbes"`
	Plant      PlantConfig       `yaml:"plant"`
	Species    []SpeciesConfig   `yaml:"species"`
	Structures []StructureConfig `yaml:"structures"`
	Amendments []AmendmentConfig `yaml:"amendments"`
	Pests      PestConfig        `yaml:"pests"`
	Weeds      WeedConfig        `yaml:"weeds"`
	Weather    WeatherConfig     `yaml:"weather"`
	Pollinator PollinatorConfig  `yaml:"pollinator"`
	Economy    EconomyConfig     `yaml:"economy"`
	Actions    ActionConfig      `yaml:"actions"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Autopilot  AutopilotConfig   `yaml:"autopilot"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds garden dimensions and initial soil generation.
type WorldConfig struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"` // 0 = time-based

	NoiseScale          float64 `yaml:"noise_scale"`          // Frequency of the soil heterogeneity field
	MoistureVariation   float64 `yaml:"moisture_variation"`   // +/- moisture around the soil default
	OrganicVariation    float64 `yaml:"organic_variation"`    // +/- organic matter around the soil default
	CompactionVariation float64 `yaml:"compaction_variation"` // +/- compaction around the soil default
}

// TimeConfig maps real elapsed time to simulated minutes.
type TimeConfig struct {
	DayLengthSeconds float64 `yaml:"day_length_seconds"` // Real seconds per simulated day at speed 1
	TickSeconds      float64 `yaml:"tick_seconds"`       // Real seconds per headless tick
	StartMinute      float64 `yaml:"start_minute"`       // Time of day at start/reset
}

// SoilConfig holds soil thresholds, rates and initial values.
type SoilConfig struct {
	WetThreshold   float64 `yaml:"wet_threshold"`   // Moisture at/above is "wet"
	MoistThreshold float64 `yaml:"moist_threshold"` // Moisture at/above is "moist"

	InitialMoisture   float64 `yaml:"initial_moisture"`
	InitialCompaction float64 `yaml:"initial_compaction"`
	InitialMicrobes   float64 `yaml:"initial_microbes"`
	InitialOrganic    float64 `yaml:"initial_organic"`
	InitialBN         float64 `yaml:"initial_bn"`
	InitialPH         float64 `yaml:"initial_ph"`

	// Nutrition score factors
	BNScale      float64 `yaml:"bn_scale"`      // BN * scale -> [0,100] factor
	OMScale      float64 `yaml:"om_scale"`      // OM * scale -> [0,100] factor
	MicrobeScale float64 `yaml:"microbe_scale"` // microbes * scale -> [0,100] factor

	PHOptimalMin   float64 `yaml:"ph_optimal_min"`
	PHOptimalMax   float64 `yaml:"ph_optimal_max"`
	PHDecayPerUnit float64 `yaml:"ph_decay_per_unit"` // pH factor loss per pH unit outside band

	SaturatedOxygenFactor float64 `yaml:"saturated_oxygen_factor"` // Oxygen potential multiplier when wet or fully compacted

	EvapBase           float64 `yaml:"evap_base"`            // Evaporation per tick at reference temperature
	EvapRefTemp        float64 `yaml:"evap_ref_temp"`        // Reference temperature (C)
	EvapHumidityFactor float64 `yaml:"evap_humidity_factor"` // Fraction of evaporation suppressed at 100% humidity

	WetMoistureDecay   float64 `yaml:"wet_moisture_decay"`
	WetMicrobeDecay    float64 `yaml:"wet_microbe_decay"`
	MoistMoistureDecay float64 `yaml:"moist_moisture_decay"`
	MoistMicrobeDecay  float64 `yaml:"moist_microbe_decay"`

	AcidifyOMThreshold float64 `yaml:"acidify_om_threshold"`
	AcidifyRate        float64 `yaml:"acidify_rate"` // pH drop per tick above threshold

	ShadeModifier     float64 `yaml:"shade_modifier"`       // Evaporation multiplier when shaded
	ShadeMinPlantSize float64 `yaml:"shade_min_plant_size"` // Neighbor plant size that casts shade
}

// MicrobeConfig holds microbe population dynamics.
type MicrobeConfig struct {
	ColdTemp       float64 `yaml:"cold_temp"`        // Below: near-dormant
	OptimalMin     float64 `yaml:"optimal_min"`      // Full activity from here
	OptimalMax     float64 `yaml:"optimal_max"`      // Full activity up to here
	LethalTemp     float64 `yaml:"lethal_temp"`      // Above: zero activity and die-off
	ColdActivity   float64 `yaml:"cold_activity"`    // Activity below ColdTemp
	LethalDieOff   float64 `yaml:"lethal_die_off"`   // Instantaneous fraction killed above LethalTemp
	GrowthRate     float64 `yaml:"growth_rate"`      // Fractional growth per tick at full activity
	HighOxygen     float64 `yaml:"high_oxygen"`      // Oxygen above which growth is boosted
	HighOxygenMult float64 `yaml:"high_oxygen_mult"` // Growth boost
	MinOxygen      float64 `yaml:"min_oxygen"`
	MinMoisture    float64 `yaml:"min_moisture"`
	MinBN          float64 `yaml:"min_bn"`
	LowOMThreshold float64 `yaml:"low_om_threshold"`
	LowOMDeath     float64 `yaml:"low_om_death"`    // Fractional death per tick when starved
	HeatDeath      float64 `yaml:"heat_death"`      // Fractional death per tick above OptimalMax
	MinPopulation  float64 `yaml:"min_population"`  // Minimum microbes for OM conversion
	ConversionRate float64 `yaml:"conversion_rate"` // OM converted per microbe per tick at full activity
	HighPopulation float64 `yaml:"high_population"`
	HighPopBonus   float64 `yaml:"high_pop_bonus"`
	PHPenalty      float64 `yaml:"ph_penalty"`    // Suitability loss per pH unit outside band
	PHMinFactor    float64 `yaml:"ph_min_factor"` // Suitability floor
}

// PlantConfig holds plant physiology constants shared by all species.
type PlantConfig struct {
	InitialSize        float64 `yaml:"initial_size"`
	InitialCHO         float64 `yaml:"initial_cho"`
	InitialATP         float64 `yaml:"initial_atp"`
	InitialRootDensity float64 `yaml:"initial_root_density"`
	InitialLeafDensity float64 `yaml:"initial_leaf_density"`
	InitialStemDev     float64 `yaml:"initial_stem_dev"`

	// Growth stages
	StageThresholds  []float64 `yaml:"stage_thresholds"`   // Progress to enter Vegetative, Flowering, Fruiting
	MinBNForBloom    float64   `yaml:"min_bn_for_bloom"`   // BN needed to advance into Flowering/Fruiting
	StageGrowthMults []float64 `yaml:"stage_growth_mults"` // Per-stage growth multiplier
	GrowThreshold    float64   `yaml:"grow_threshold"`     // Soil condition needed for growth
	ShrinkMoisture   float64   `yaml:"shrink_moisture"`    // Moisture below which plants shrink
	SoilFactorMin    float64   `yaml:"soil_factor_min"`
	SoilFactorMax    float64   `yaml:"soil_factor_max"`
	HealthFactorMin  float64   `yaml:"health_factor_min"`

	// Light
	DawnMinute float64 `yaml:"dawn_minute"`
	DuskMinute float64 `yaml:"dusk_minute"`

	// Temperature response
	ColdTemp   float64 `yaml:"cold_temp"`
	OptimalMin float64 `yaml:"optimal_min"`
	OptimalMax float64 `yaml:"optimal_max"`
	HotTemp    float64 `yaml:"hot_temp"`
	TempFloor  float64 `yaml:"temp_floor"` // Factor outside cold/hot limits

	// Energy economy (rates per simulated minute)
	PhotoRate       float64 `yaml:"photo_rate"`
	RespirationRate float64 `yaml:"respiration_rate"`
	RespRefTemp     float64 `yaml:"resp_ref_temp"`
	ATPPerCHO       float64 `yaml:"atp_per_cho"`
	OptimalMoisture float64 `yaml:"optimal_moisture"` // Moisture giving no water stress
	WetStress       float64 `yaml:"wet_stress"`       // Photosynthesis multiplier when soil is wet

	// Soil draws (per simulated minute, per unit size)
	WaterUse    float64 `yaml:"water_use"`
	NutrientUse float64 `yaml:"nutrient_use"`
	OxygenUse   float64 `yaml:"oxygen_use"` // Oxygen demand per unit size (instantaneous)

	// Root health
	LowOxygen        float64 `yaml:"low_oxygen"`
	LowOxygenDamage  float64 `yaml:"low_oxygen_damage"`
	WetDamage        float64 `yaml:"wet_damage"`
	HeatDamage       float64 `yaml:"heat_damage"`
	RootFeederDamage float64 `yaml:"root_feeder_damage"` // Per pest level
	RecoveryATPCost  float64 `yaml:"recovery_atp_cost"`
	RecoveryRate     float64 `yaml:"recovery_rate"`

	// Development drift
	DevelopmentSmoothing float64 `yaml:"development_smoothing"`
	WindStressSpeed      float64 `yaml:"wind_stress_speed"` // Wind speed giving full stem stimulus

	// Growth
	GrowthScale   float64 `yaml:"growth_scale"`
	GrowthATPCost float64 `yaml:"growth_atp_cost"`
	LightFloor    float64 `yaml:"light_floor"`
	ShrinkRate    float64 `yaml:"shrink_rate"`
	PestShrink    float64 `yaml:"pest_shrink"` // Per root-feeder level; sap-feeders add half

	RootDensityRate float64 `yaml:"root_density_rate"` // Per simulated day

	// Neighbor effects
	GoodRootDensity float64 `yaml:"good_root_density"`
	GoodRootHealth  float64 `yaml:"good_root_health"`
	NeighborBonus   float64 `yaml:"neighbor_bonus"`

	// Senescence
	SenescentRootDecay float64 `yaml:"senescent_root_decay"`
	SenescentSizeDecay float64 `yaml:"senescent_size_decay"`
	SenescentLeak      float64 `yaml:"senescent_leak"` // Fraction of CHO/ATP lost per tick
	NegligibleSize     float64 `yaml:"negligible_size"`

	// Harvest
	PollinationBonus float64 `yaml:"pollination_bonus"`
	ResidueOrganic   float64 `yaml:"residue_organic"` // OM returned per unit size when removed
}

// SpeciesConfig holds static per-species properties.
type SpeciesConfig struct {
	Name           string         `yaml:"name"`
	WaterUse       float64        `yaml:"water_use"`
	NutrientUse    float64        `yaml:"nutrient_use"`
	OxygenUse      float64        `yaml:"oxygen_use"`
	MaxYield       float64        `yaml:"max_yield"`
	Price          float64        `yaml:"price"`
	SeedCost       float64        `yaml:"seed_cost"`
	MaturityDays   float64        `yaml:"maturity_days"`
	HarvestStage   string         `yaml:"harvest_stage"`
	WetSensitivity float64        `yaml:"wet_sensitivity"`
	Traits         []string       `yaml:"traits"`
	NeighborEffect NeighborEffect `yaml:"neighbor_effect"`

	// Derived
	TraitSet        traits.Trait `yaml:"-"`
	HarvestStageIdx int          `yaml:"-"`
}

// NeighborEffect is a per-tick soil donation to each orthogonal neighbor.
type NeighborEffect struct {
	OrganicMatter float64 `yaml:"organic_matter"`
	Microbes      float64 `yaml:"microbes"`
	BN            float64 `yaml:"bn"`
}

// StructureConfig holds per-structure properties.
type StructureConfig struct {
	Name string  `yaml:"name"`
	Kind string  `yaml:"kind"` // irrigation, trellis, net
	Cost float64 `yaml:"cost"`

	// Irrigation
	Capacity      float64 `yaml:"capacity"`
	InitialWater  float64 `yaml:"initial_water"`
	ReleaseRate   float64 `yaml:"release_rate"`
	InnerShare    float64 `yaml:"inner_share"` // Fraction of release going to the radius-1 ring
	FillIncrement float64 `yaml:"fill_increment"`

	// Trellis
	YieldBonus  float64 `yaml:"yield_bonus"`
	BNReduction float64 `yaml:"bn_reduction"`

	// Net
	HeatMitigation  float64 `yaml:"heat_mitigation"`    // Fraction of heat damage removed
	SapLevelUpScale float64 `yaml:"sap_level_up_scale"` // Multiplier on sap-feeder level-up chance
}

// AmendmentConfig holds soil amendment deltas.
type AmendmentConfig struct {
	Name          string  `yaml:"name"`
	Cost          float64 `yaml:"cost"`
	OrganicMatter float64 `yaml:"organic_matter"`
	Microbes      float64 `yaml:"microbes"`
	BN            float64 `yaml:"bn"`
	Moisture      float64 `yaml:"moisture"`
	Compaction    float64 `yaml:"compaction"`
	PH            float64 `yaml:"ph"`
}

// PestConfig holds pest spawn, level and removal rules.
type PestConfig struct {
	SapFeeder  SapFeederConfig  `yaml:"sap_feeder"`
	RootFeeder RootFeederConfig `yaml:"root_feeder"`
}

// SapFeederConfig holds sap-feeder (aphid-like) parameters.
type SapFeederConfig struct {
	SpawnChance          float64 `yaml:"spawn_chance"`
	MoistureThreshold    float64 `yaml:"moisture_threshold"`
	HumidityThreshold    float64 `yaml:"humidity_threshold"`
	CompetingScale       float64 `yaml:"competing_scale"` // Chance multiplier when root-feeder conditions hold
	LevelUpChance        float64 `yaml:"level_up_chance"`
	AttractionThreshold  float64 `yaml:"attraction_threshold"`
	RemovalPerAttraction float64 `yaml:"removal_per_attraction"`
}

// RootFeederConfig holds root-feeder (nematode-like) parameters.
type RootFeederConfig struct {
	SpawnChance     float64 `yaml:"spawn_chance"`
	WetDuration     int     `yaml:"wet_duration"` // Ticks at/above wet needed
	MaxMicrobes     float64 `yaml:"max_microbes"` // Spawn only below this microbe count
	Suppression     float64 `yaml:"suppression"`  // Chance multiplier near suppressor species
	LevelUpChance   float64 `yaml:"level_up_chance"`
	RemovalMicrobes float64 `yaml:"removal_microbes"`
	RemovalChance   float64 `yaml:"removal_chance"`
}

// WeedConfig holds weed growth and spread.
type WeedConfig struct {
	GrowthChance float64 `yaml:"growth_chance"`
	BNDrain      float64 `yaml:"bn_drain"` // Per level per tick
	SpreadChance float64 `yaml:"spread_chance"`
	SeedChance   float64 `yaml:"seed_chance"`
	SeedMoisture float64 `yaml:"seed_moisture"`
}

// ClimateConfig describes one selectable climate.
type ClimateConfig struct {
	Name       string  `yaml:"name"`
	TempMin    float64 `yaml:"temp_min"`
	TempMax    float64 `yaml:"temp_max"`
	Humidity   float64 `yaml:"humidity"`
	WindChance float64 `yaml:"wind_chance"`
	WindMin    float64 `yaml:"wind_min"`
	WindMax    float64 `yaml:"wind_max"`
}

// WeatherConfig holds global weather parameters.
type WeatherConfig struct {
	Climate           string          `yaml:"climate"`
	Climates          []ClimateConfig `yaml:"climates"`
	TempJitter        float64         `yaml:"temp_jitter"`
	PeakMinute        float64         `yaml:"peak_minute"`
	WindIntervalTicks int             `yaml:"wind_interval_ticks"`
	NoWindWeight      int             `yaml:"no_wind_weight"`   // Weight of "no wind" against all four directions combined
	DirectionWeight   int             `yaml:"direction_weight"` // Combined weight of the four directions

	HumidityEvapGain float64 `yaml:"humidity_evap_gain"`
	HumidityWindLoss float64 `yaml:"humidity_wind_loss"`
	HumidityPull     float64 `yaml:"humidity_pull"`

	PollinationWind       float64 `yaml:"pollination_wind"`
	PollinationAttraction float64 `yaml:"pollination_attraction"` // Threshold reduction per unit attraction
	PollinationMaxReduce  float64 `yaml:"pollination_max_reduce"`
	PollinationChance     float64 `yaml:"pollination_chance"` // Per-tick chance a flowering plant is pollinated while active

	AttractionDecay float64 `yaml:"attraction_decay"`
	AttractionGain  float64 `yaml:"attraction_gain"`
	AttractionMax   float64 `yaml:"attraction_max"`
}

// PollinatorConfig holds pollinator agent movement.
type PollinatorConfig struct {
	AttractWeight float64 `yaml:"attract_weight"` // Weight of an attractive neighbor vs 1 for others
	MinStage      string  `yaml:"min_stage"`      // Stage a beneficial plant must reach to attract

	// Derived
	MinStageIdx int `yaml:"-"`
}

// EconomyConfig holds player money and action costs.
type EconomyConfig struct {
	StartMoney      float64 `yaml:"start_money"`
	WaterCost       float64 `yaml:"water_cost"`
	TreatmentCost   float64 `yaml:"treatment_cost"`
	ConditionerCost float64 `yaml:"conditioner_cost"`
	TillCost        float64 `yaml:"till_cost"`
}

// ActionConfig holds player action magnitudes.
type ActionConfig struct {
	WaterAmount           float64 `yaml:"water_amount"`
	WaterSplash           float64 `yaml:"water_splash"` // Fraction of WaterAmount to each orthogonal neighbor
	TillCompaction        float64 `yaml:"till_compaction"`
	ConditionerPHStep     float64 `yaml:"conditioner_ph_step"`
	ConditionerCompaction float64 `yaml:"conditioner_compaction"`
}

// TelemetryConfig holds stats collection and output.
type TelemetryConfig struct {
	WindowTicks        int    `yaml:"window_ticks"`
	OutputDir          string `yaml:"output_dir"`
	DBPath             string `yaml:"db_path"`
	HallOfFameSize     int    `yaml:"hall_of_fame_size"`    // Best harvests kept per species
	BookmarkHistory    int    `yaml:"bookmark_history"`     // Windows of rolling history for bookmarks
	SnapshotOnBookmark bool   `yaml:"snapshot_on_bookmark"` // Save a JSON garden snapshot per bookmark
}

// AutopilotConfig holds the scripted gardener used by headless runs.
type AutopilotConfig struct {
	Rotation       []string `yaml:"rotation"`        // Species planted in turn
	IrrigationStep int      `yaml:"irrigation_step"` // Place an irrigation every N cells (0 = none)
	WaterBelow     float64  `yaml:"water_below"`     // Water cells drier than this
	RefillBelow    float64  `yaml:"refill_below"`    // Refill irrigation below this level
	ActEvery       int      `yaml:"act_every"`       // Ticks between gardener passes
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SpeciesIndex   map[string]int // name -> index into Species
	StructureIndex map[string]int // name -> index into Structures
	AmendmentIndex map[string]int // name -> index into Amendments
	ClimateIndex   map[string]int // name -> index into Climates
	MinutesPerTick float64        // Simulated minutes for one headless tick at speed 1
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy suitable for independent modification.
func (c *Config) Clone() *Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(fmt.Sprintf("config: marshal for clone: %v", err))
	}
	out := &Config{}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("config: unmarshal for clone: %v", err))
	}
	if err := out.computeDerived(); err != nil {
		panic(fmt.Sprintf("config: clone invalid: %v", err))
	}
	return out
}

// Recompute refreshes derived values after fields were edited in code.
func (c *Config) Recompute() error {
	return c.computeDerived()
}

// computeDerived calculates values derived from loaded config and validates references.
func (c *Config) computeDerived() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if len(c.Plant.StageThresholds) != 3 {
		return fmt.Errorf("plant.stage_thresholds needs 3 entries, got %d", len(c.Plant.StageThresholds))
	}
	if len(c.Plant.StageGrowthMults) != 4 {
		return fmt.Errorf("plant.stage_growth_mults needs 4 entries, got %d", len(c.Plant.StageGrowthMults))
	}
	if c.Time.DayLengthSeconds <= 0 {
		return fmt.Errorf("time.day_length_seconds must be positive")
	}
	c.Derived.MinutesPerTick = c.Time.TickSeconds * 1440 / c.Time.DayLengthSeconds

	c.Derived.SpeciesIndex = make(map[string]int, len(c.Species))
	for i := range c.Species {
		sp := &c.Species[i]
		if _, dup := c.Derived.SpeciesIndex[sp.Name]; dup {
			return fmt.Errorf("duplicate species %q", sp.Name)
		}
		set, err := traits.Parse(sp.Traits)
		if err != nil {
			return fmt.Errorf("species %q: %w", sp.Name, err)
		}
		sp.TraitSet = set
		idx, ok := StageIndex(sp.HarvestStage)
		if !ok {
			return fmt.Errorf("species %q: unknown harvest stage %q", sp.Name, sp.HarvestStage)
		}
		sp.HarvestStageIdx = idx
		if sp.MaturityDays <= 0 {
			return fmt.Errorf("species %q: maturity_days must be positive", sp.Name)
		}
		c.Derived.SpeciesIndex[sp.Name] = i
	}

	c.Derived.StructureIndex = make(map[string]int, len(c.Structures))
	for i, st := range c.Structures {
		switch st.Kind {
		case "irrigation", "trellis", "net":
		default:
			return fmt.Errorf("structure %q: unknown kind %q", st.Name, st.Kind)
		}
		c.Derived.StructureIndex[st.Name] = i
	}

	c.Derived.AmendmentIndex = make(map[string]int, len(c.Amendments))
	for i, am := range c.Amendments {
		c.Derived.AmendmentIndex[am.Name] = i
	}

	c.Derived.ClimateIndex = make(map[string]int, len(c.Weather.Climates))
	for i, cl := range c.Weather.Climates {
		if cl.TempMin > cl.TempMax {
			return fmt.Errorf("climate %q: temp_min > temp_max", cl.Name)
		}
		c.Derived.ClimateIndex[cl.Name] = i
	}
	if _, ok := c.Derived.ClimateIndex[c.Weather.Climate]; !ok {
		return fmt.Errorf("unknown active climate %q", c.Weather.Climate)
	}

	idx, ok := StageIndex(c.Pollinator.MinStage)
	if !ok {
		return fmt.Errorf("pollinator: unknown min stage %q", c.Pollinator.MinStage)
	}
	c.Pollinator.MinStageIdx = idx

	for _, name := range c.Autopilot.Rotation {
		if _, ok := c.Derived.SpeciesIndex[name]; !ok {
			return fmt.Errorf("autopilot: unknown species %q", name)
		}
	}
	return nil
}

// stageNames maps growth stage names to their ordinal.
var stageNames = map[string]int{
	"seedling":   0,
	"vegetative": 1,
	"flowering":  2,
	"fruiting":   3,
	"senescent":  4,
}

// StageIndex returns the ordinal of a growth stage name.
func StageIndex(name string) (int, bool) {
	idx, ok := stageNames[name]
	return idx, ok
}

// SpeciesByName returns the species entry for name.
func (c *Config) SpeciesByName(name string) (*SpeciesConfig, bool) {
	i, ok := c.Derived.SpeciesIndex[name]
	if !ok {
		return nil, false
	}
	return &c.Species[i], true
}

// StructureByName returns the structure entry for name.
func (c *Config) StructureByName(name string) (*StructureConfig, bool) {
	i, ok := c.Derived.StructureIndex[name]
	if !ok {
		return nil, false
	}
	return &c.Structures[i], true
}

// AmendmentByName returns the amendment entry for name.
func (c *Config) AmendmentByName(name string) (*AmendmentConfig, bool) {
	i, ok := c.Derived.AmendmentIndex[name]
	if !ok {
		return nil, false
	}
	return &c.Amendments[i], true
}

// ActiveClimate returns the selected climate.
func (c *Config) ActiveClimate() *ClimateConfig {
	return &c.Weather.Climates[c.Derived.ClimateIndex[c.Weather.Climate]]
}

// YAML returns the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
