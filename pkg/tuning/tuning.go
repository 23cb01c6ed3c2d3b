package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the simulation constants. Times are seconds, distances are map units
// in the normalized 0-100 plane.
type Tuning struct {
	StartX    float64 `yaml:"start_x"`
	StartY    float64 `yaml:"start_y"`
	BaseSpeed float64 `yaml:"base_speed"`

	MaxStep       float64 `yaml:"max_step"`
	ArriveEpsilon float64 `yaml:"arrive_epsilon"`

	CollectPause     float64 `yaml:"collect_pause"`
	ConversePauseMin float64 `yaml:"converse_pause_min"`
	SecondsPerLine   float64 `yaml:"seconds_per_line"`
	NPCHoldExtra     float64 `yaml:"npc_hold_extra"`

	LogLimit    int     `yaml:"log_limit"`
	PathLimit   int     `yaml:"path_limit"`
	PathMinStep float64 `yaml:"path_min_step"`

	Targeting Targeting `yaml:"targeting"`
	Scene     Scene     `yaml:"scene"`
	Markers   Markers   `yaml:"markers"`
	Mood      Mood      `yaml:"mood"`
	Wander    Wander    `yaml:"wander"`
	Camera    Camera    `yaml:"camera"`
}

type Targeting struct {
	NPCBaseChance float64 `yaml:"npc_base_chance"`
	NPCBiasCap    float64 `yaml:"npc_bias_cap"`
	NPCChanceCap  float64 `yaml:"npc_chance_cap"`
}

type Scene struct {
	RollChance        float64 `yaml:"roll_chance"`
	InitialCooldown   float64 `yaml:"initial_cooldown"`
	MinDuration       float64 `yaml:"min_duration"`
	MinCooldown       float64 `yaml:"min_cooldown"`
	ClearCooldown     float64 `yaml:"clear_cooldown"`
	MinShelter        float64 `yaml:"min_shelter"`
	MinDisrupt        float64 `yaml:"min_disrupt"`
	PauseJitter       float64 `yaml:"pause_jitter"`
	DormancyShare     float64 `yaml:"dormancy_share"`
	DormancyMinBase   float64 `yaml:"dormancy_min_base"`
	DormancyScaleLow  float64 `yaml:"dormancy_scale_low"`
	DormancyScaleSpan float64 `yaml:"dormancy_scale_span"`
}

// Markers shapes the transient map markers scenes leave behind.
type Markers struct {
	Jitter          float64 `yaml:"jitter"`
	WiltJitter      float64 `yaml:"wilt_jitter"`
	RegrowthJitter  float64 `yaml:"regrowth_jitter"`
	RegrowthTTL     float64 `yaml:"regrowth_ttl"`
	RegrowthTTLSpan float64 `yaml:"regrowth_ttl_span"`
	DefaultTTL      float64 `yaml:"default_ttl"`
	MinScaledTTL    float64 `yaml:"min_scaled_ttl"`
	TTLScale        float64 `yaml:"ttl_scale"`
	MinTTL          float64 `yaml:"min_ttl"`
	Bound           float64 `yaml:"bound"`
}

type Mood struct {
	Min          float64 `yaml:"min"`
	Max          float64 `yaml:"max"`
	TagLine      float64 `yaml:"tag_line"`
	IdleLine     float64 `yaml:"idle_line"`
	MinLine      float64 `yaml:"min_line"`
	IdleStartMin float64 `yaml:"idle_start_min"`
	IdleStartMax float64 `yaml:"idle_start_max"`
	IdleTagMin   float64 `yaml:"idle_tag_min"`
	IdleTagMax   float64 `yaml:"idle_tag_max"`
	IdleNextMin  float64 `yaml:"idle_next_min"`
	IdleNextMax  float64 `yaml:"idle_next_max"`
}

type Wander struct {
	Enabled   bool    `yaml:"enabled"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	MinSpeed  float64 `yaml:"min_speed"`
	MaxSpeed  float64 `yaml:"max_speed"`
	Arrive    float64 `yaml:"arrive"`
	PauseMin  float64 `yaml:"pause_min"`
	PauseMax  float64 `yaml:"pause_max"`
	Bound     float64 `yaml:"bound"`
}

type Camera struct {
	Lerp float64 `yaml:"lerp"`
	Snap float64 `yaml:"snap"`
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		StartX:           50,
		StartY:           50,
		BaseSpeed:        1.6,
		MaxStep:          0.25,
		ArriveEpsilon:    0.4,
		CollectPause:     3.4,
		ConversePauseMin: 3.4,
		SecondsPerLine:   1.7,
		NPCHoldExtra:     1.5,
		LogLimit:         10,
		PathLimit:        240,
		PathMinStep:      0.4,
		Targeting: Targeting{
			NPCBaseChance: 0.22,
			NPCBiasCap:    0.6,
			NPCChanceCap:  0.85,
		},
		Scene: Scene{
			RollChance:        0.0035,
			InitialCooldown:   14,
			MinDuration:       4,
			MinCooldown:       24,
			ClearCooldown:     18,
			MinShelter:        4,
			MinDisrupt:        2.5,
			PauseJitter:       1.5,
			DormancyShare:     0.12,
			DormancyMinBase:   12,
			DormancyScaleLow:  0.6,
			DormancyScaleSpan: 0.7,
		},
		Markers: Markers{
			Jitter:          7,
			WiltJitter:      2,
			RegrowthJitter:  4,
			RegrowthTTL:     16,
			RegrowthTTLSpan: 6,
			DefaultTTL:      18,
			MinScaledTTL:    6,
			TTLScale:        0.6,
			MinTTL:          1,
			Bound:           4,
		},
		Mood: Mood{
			Min:          -5,
			Max:          5,
			TagLine:      6.5,
			IdleLine:     5.5,
			MinLine:      2.5,
			IdleStartMin: 10,
			IdleStartMax: 16,
			IdleTagMin:   12,
			IdleTagMax:   20,
			IdleNextMin:  18,
			IdleNextMax:  28,
		},
		Wander: Wander{
			Enabled:   true,
			MinRadius: 3,
			MaxRadius: 16,
			MinSpeed:  0.2,
			MaxSpeed:  1,
			Arrive:    0.12,
			PauseMin:  2.8,
			PauseMax:  7,
			Bound:     3,
		},
		Camera: Camera{
			Lerp: 0.22,
			Snap: 0.1,
		},
	}
}

// Load reads a YAML tuning file. Keys missing from the file keep their defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects values that would stall or break the simulation.
func (t Tuning) Validate() error {
	switch {
	case t.BaseSpeed <= 0:
		return fmt.Errorf("base_speed must be positive, got %v", t.BaseSpeed)
	case t.MaxStep <= 0:
		return fmt.Errorf("max_step must be positive, got %v", t.MaxStep)
	case t.LogLimit <= 0:
		return fmt.Errorf("log_limit must be positive, got %d", t.LogLimit)
	case t.PathLimit <= 0:
		return fmt.Errorf("path_limit must be positive, got %d", t.PathLimit)
	case t.Mood.Min > t.Mood.Max:
		return fmt.Errorf("mood.min (%v) exceeds mood.max (%v)", t.Mood.Min, t.Mood.Max)
	case t.Scene.RollChance < 0 || t.Scene.RollChance > 1:
		return fmt.Errorf("scene.roll_chance must be within [0,1], got %v", t.Scene.RollChance)
	}
	return nil
}
