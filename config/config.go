// Package config provides configuration loading and access for the physiology engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine tuning parameters.
type Config struct {
	Resources   ResourcesConfig   `yaml:"resources"`
	Starvation  StarvationConfig  `yaml:"starvation"`
	Skin        SkinConfig        `yaml:"skin"`
	Skeletal    SkeletalConfig    `yaml:"skeletal"`
	Circulatory CirculatoryConfig `yaml:"circulatory"`
	Respiratory RespiratoryConfig `yaml:"respiratory"`
	Muscular    MuscularConfig    `yaml:"muscular"`
	Immune      ImmuneConfig      `yaml:"immune"`
	Nervous     NervousConfig     `yaml:"nervous"`
	Metabolic   MetabolicConfig   `yaml:"metabolic"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ResourcesConfig holds the starting contents of the shared resource pool.
type ResourcesConfig struct {
	Oxygen  float64 `yaml:"oxygen"`
	Glucose float64 `yaml:"glucose"`
	Water   float64 `yaml:"water"`
	Blood   float64 `yaml:"blood"`
	Calcium float64 `yaml:"calcium"`
	Energy  float64 `yaml:"energy"`
}

// StarvationConfig holds the tier thresholds shared by all systems.
// A system's effective threshold is BaseThreshold times its own scale.
type StarvationConfig struct {
	BaseThreshold float64 `yaml:"base_threshold"` // per-tick unmet need that counts as mild
	MildRegen     float64 `yaml:"mild_regen"`     // regen multiplier while mildly starving
	MediumRegen   float64 `yaml:"medium_regen"`   // regen multiplier while medium starving
	SevereDecay   float64 `yaml:"severe_decay"`   // health lost per tick while severely starving
}

// SkinConfig holds integumentary parameters.
type SkinConfig struct {
	MaxIntegrity    float64 `yaml:"max_integrity"`
	RegenRate       float64 `yaml:"regen_rate"`
	BandageRegen    float64 `yaml:"bandage_regen"`     // regen multiplier while bandaged
	BurnDegree2     float64 `yaml:"burn_degree_2"`     // intensity at which a burn is second degree
	BurnDegree3     float64 `yaml:"burn_degree_3"`     // intensity at which a burn is third degree
	BurnRegenFactor float64 `yaml:"burn_regen_factor"` // regen multiplier per burn degree
	WoundThreshold  float64 `yaml:"wound_threshold"`   // integrity fraction below which a wound is open
	WoundInfection  float64 `yaml:"wound_infection"`   // severity of infection seeded by an open wound
	WoundBleedRate  float64 `yaml:"wound_bleed_rate"`  // bleed rate opened by an unbandaged wound
	InfectionCap    float64 `yaml:"infection_cap"`     // stop seeding once local infection reaches this
}

// SkeletalConfig holds bone parameters.
type SkeletalConfig struct {
	MaxHealth       float64 `yaml:"max_health"`
	RegenRate       float64 `yaml:"regen_rate"`
	SetBoneRegen    float64 `yaml:"set_bone_regen"`   // reduced regen after a fracture is set
	CalciumNeed     float64 `yaml:"calcium_need"`     // calcium consumed per node per tick
	MarrowBlood     float64 `yaml:"marrow_blood"`     // blood produced per marrow-bearing node per tick
	FracturePain    float64 `yaml:"fracture_pain"`    // pain emitted when a bone breaks
	StarvationScale float64 `yaml:"starvation_scale"` // multiplier on starvation.base_threshold
}

// CirculatoryConfig holds blood vessel parameters.
type CirculatoryConfig struct {
	MaxHealth      float64 `yaml:"max_health"`
	RegenRate      float64 `yaml:"regen_rate"`
	BleedThreshold float64 `yaml:"bleed_threshold"` // damage at which a vessel starts bleeding
	BleedFactor    float64 `yaml:"bleed_factor"`    // bleed rate gained per point of damage
	MajorMultiple  float64 `yaml:"major_multiple"`  // bleed factor multiplier for major vessels
	BleedCap       float64 `yaml:"bleed_cap"`       // max blood lost per node per tick
	BaseFlow       float64 `yaml:"base_flow"`       // flow emitted by the heart per tick
	FlowFalloff    float64 `yaml:"flow_falloff"`    // flow attenuation per hop from the heart
	IschemiaFlow   float64 `yaml:"ischemia_flow"`   // flow below which a part is ischemic
	OxygenNeed     float64 `yaml:"oxygen_need"`     // oxygen consumed per node per tick
}

// RespiratoryConfig holds airway and lung parameters.
type RespiratoryConfig struct {
	MaxHealth      float64 `yaml:"max_health"`
	RegenRate      float64 `yaml:"regen_rate"`
	BlockThreshold float64 `yaml:"block_threshold"` // airway damage at which it blocks entirely
	LungCapacity   float64 `yaml:"lung_capacity"`
	DamageFactor   float64 `yaml:"damage_factor"`  // lung capacity lost per point of chest damage
	HealFactor     float64 `yaml:"heal_factor"`    // lung capacity restored per point of healing
	OxygenPerAir   float64 `yaml:"oxygen_per_air"` // oxygen deposited per unit of airflow exchanged
	CO2PerAir      float64 `yaml:"co2_per_air"`    // CO2 cleared per unit of airflow exchanged
}

// MuscularConfig holds muscle parameters.
type MuscularConfig struct {
	MaxHealth       float64 `yaml:"max_health"`
	MaxStamina      float64 `yaml:"max_stamina"`
	RegenRate       float64 `yaml:"regen_rate"`
	StaminaRegen    float64 `yaml:"stamina_regen"`
	RepairRegen     float64 `yaml:"repair_regen"`     // reduced regen after a tear is repaired
	TearThreshold   float64 `yaml:"tear_threshold"`   // single-hit damage that tears a muscle
	ExertStamina    float64 `yaml:"exert_stamina"`    // stamina drained per unit of exertion intensity
	GlucoseNeed     float64 `yaml:"glucose_need"`     // glucose consumed per node per tick
	TiredFraction   float64 `yaml:"tired_fraction"`   // stamina fraction below which a muscle is Tired
	StarvationScale float64 `yaml:"starvation_scale"` // multiplier on starvation.base_threshold
}

// ImmuneConfig holds infection, toxin and inflammation parameters.
type ImmuneConfig struct {
	MaxHealth        float64 `yaml:"max_health"`        // local tissue condition eaten by inflammation
	RegenRate        float64 `yaml:"regen_rate"`
	FightRate        float64 `yaml:"fight_rate"`        // infection/toxin reduced per node per tick
	InflameThreshold float64 `yaml:"inflame_threshold"` // combined level at which a node inflames
	InflameDamage    float64 `yaml:"inflame_damage"`    // host damage per point of inflammation per tick
	InfectionSpread  float64 `yaml:"infection_spread"`  // infection level at which it spreads to neighbours
	ToxinSpread      float64 `yaml:"toxin_spread"`      // toxin level at which it spreads to neighbours
	SpreadFraction   float64 `yaml:"spread_fraction"`   // fraction of the level seeded into each neighbour
	GlucoseNeed      float64 `yaml:"glucose_need"`      // glucose consumed while fighting
	StarvationScale  float64 `yaml:"starvation_scale"`  // multiplier on starvation.base_threshold
}

// NervousConfig holds nerve parameters.
type NervousConfig struct {
	MaxHealth       float64 `yaml:"max_health"`
	MaxSignal       float64 `yaml:"max_signal"`
	RegenRate       float64 `yaml:"regen_rate"`
	RepairRegen     float64 `yaml:"repair_regen"`     // reduced regen after a severed nerve is repaired
	SeverThreshold  float64 `yaml:"sever_threshold"`  // single-hit damage that can sever a nerve
	SeverHealthMax  float64 `yaml:"sever_health_max"` // nerve must also be at or below this health
	PainFalloff     float64 `yaml:"pain_falloff"`     // pain attenuation per hop toward the brain
	PainDecay       float64 `yaml:"pain_decay"`       // pain fading per node per tick
	ShockFalloff    float64 `yaml:"shock_falloff"`    // shock attenuation per hop from the brain
	ManaProduction  float64 `yaml:"mana_production"`  // energy produced per intact nerve per tick
	GlucoseNeed     float64 `yaml:"glucose_need"`     // glucose consumed per node per tick
	StarvationScale float64 `yaml:"starvation_scale"` // multiplier on starvation.base_threshold
}

// MetabolicConfig holds temperature and fatigue parameters.
type MetabolicConfig struct {
	BaseTemperature float64 `yaml:"base_temperature"`
	MaxTemperature  float64 `yaml:"max_temperature"`
	InflameHeat     float64 `yaml:"inflame_heat"`     // temperature gained per point of inflammation
	CoolRate        float64 `yaml:"cool_rate"`        // temperature drift back toward base per tick
	MaxFatigue      float64 `yaml:"max_fatigue"`
	FatigueRecovery float64 `yaml:"fatigue_recovery"` // fatigue recovered per tick at full metabolic rate
	GlucoseBurn     float64 `yaml:"glucose_burn"`     // glucose converted to energy per node per tick
	EnergyYield     float64 `yaml:"energy_yield"`     // energy produced per unit of glucose burned
	WaterNeed       float64 `yaml:"water_need"`       // water consumed per node per tick
	IschemiaFactor  float64 `yaml:"ischemia_factor"`  // metabolic rate multiplier in ischemic parts
}

// TelemetryConfig holds output settings.
type TelemetryConfig struct {
	Interval    int    `yaml:"interval"`     // ticks between CSV rows (0 = every tick)
	SnapshotDir string `yaml:"snapshot_dir"` // where final snapshots land ("" = disabled)
}

// DerivedConfig holds values computed after loading.
type DerivedConfig struct {
	// Effective starvation thresholds per consumer system.
	SkeletalStarve float64
	MuscularStarve float64
	ImmuneStarve   float64
	NervousStarve  float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Starvation.BaseThreshold <= 0 {
		return fmt.Errorf("config: starvation.base_threshold must be positive")
	}
	if c.Circulatory.FlowFalloff < 0 || c.Circulatory.FlowFalloff >= 1 {
		return fmt.Errorf("config: circulatory.flow_falloff must be in [0,1)")
	}
	if c.Nervous.PainFalloff < 0 || c.Nervous.PainFalloff >= 1 {
		return fmt.Errorf("config: nervous.pain_falloff must be in [0,1)")
	}
	if c.Nervous.ShockFalloff < 0 || c.Nervous.ShockFalloff >= 1 {
		return fmt.Errorf("config: nervous.shock_falloff must be in [0,1)")
	}
	if c.Skin.BurnDegree3 < c.Skin.BurnDegree2 {
		return fmt.Errorf("config: skin.burn_degree_3 must be >= skin.burn_degree_2")
	}
	if c.Respiratory.LungCapacity <= 0 {
		return fmt.Errorf("config: respiratory.lung_capacity must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	base := c.Starvation.BaseThreshold
	c.Derived.SkeletalStarve = base * c.Skeletal.StarvationScale
	c.Derived.MuscularStarve = base * c.Muscular.StarvationScale
	c.Derived.ImmuneStarve = base * c.Immune.StarvationScale
	c.Derived.NervousStarve = base * c.Nervous.StarvationScale
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
