package catalog

// SceneType is the family a scene template belongs to.
type SceneType string

const (
	ScenePhenomenon SceneType = "phenomenon"
	SceneWeather    SceneType = "weather"
	SceneEncounter  SceneType = "encounter"
	SceneBloom      SceneType = "bloom"
)

// RedirectType is the kind of target a scene forces on the next pick.
type RedirectType string

const (
	RedirectNPC   RedirectType = "npc"
	RedirectEntry RedirectType = "entry"
)

// SceneTemplate describes a transient world-wide event.
type SceneTemplate struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary,omitempty"`
	Status          string    `json:"status,omitempty"`   // short descriptor for status lines
	LogNote         string    `json:"log_note,omitempty"` // appended to the log entry
	Type            SceneType `json:"type"`
	Duration        float64   `json:"duration"`
	Cooldown        float64   `json:"cooldown"`
	SpeedMultiplier float64   `json:"speed_multiplier,omitempty"` // 0 means unchanged
	NPCBias         float64   `json:"npc_bias,omitempty"`
	MoodTag         string    `json:"mood_tag,omitempty"`

	Glyph       []string  `json:"glyph,omitempty"`
	MapDuration float64   `json:"map_duration,omitempty"`
	MapLabel    string    `json:"map_label,omitempty"`
	MapLocation *Location `json:"map_location,omitempty"`

	// weather
	RequiresShelter bool    `json:"requires_shelter,omitempty"`
	ShelterDuration float64 `json:"shelter_duration,omitempty"`

	// encounter
	RedirectType     RedirectType `json:"redirect_type,omitempty"`
	RedirectCategory string       `json:"redirect_category,omitempty"`
	RedirectRegion   string       `json:"redirect_region,omitempty"`
	DisruptDuration  float64      `json:"disrupt_duration,omitempty"`

	// bloom
	BloomDormancyCount    int     `json:"bloom_dormancy_count,omitempty"`
	BloomDormancyDuration float64 `json:"bloom_dormancy_duration,omitempty"`
}

// Descriptor is the short text shown while the scene is active.
func (s *SceneTemplate) Descriptor() string {
	if s.Status != "" {
		return s.Status
	}
	return s.Summary
}

// Multiplier returns the speed multiplier, treating an unset value as 1.
func (s *SceneTemplate) Multiplier() float64 {
	if s.SpeedMultiplier <= 0 {
		return 1
	}
	return s.SpeedMultiplier
}
