// Package catalog holds the read-only world data the surveyor explores: collectible
// entries, NPCs with gated dialogue, map zones, scene-event templates and mood effects.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Location is a point in the normalized 0-100 map plane.
type Location struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Region string  `json:"region,omitempty"`
}

// Variant is display-only flavor attached to an entry.
type Variant struct {
	Rarity    string `json:"rarity,omitempty"`
	Condition string `json:"condition,omitempty"`
	Mutation  string `json:"mutation,omitempty"`
	Quirk     string `json:"quirk,omitempty"`
}

// Details returns the non-empty rarity and condition parts, in that order.
func (v *Variant) Details() []string {
	if v == nil {
		return nil
	}
	var parts []string
	if v.Rarity != "" {
		parts = append(parts, v.Rarity)
	}
	if v.Condition != "" {
		parts = append(parts, v.Condition)
	}
	return parts
}

// Entry is a collectible point of interest.
type Entry struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Summary  string    `json:"summary,omitempty"`
	Location *Location `json:"location,omitempty"` // nil entries never appear on the map
	Variant  *Variant  `json:"variant,omitempty"`
	MoodTag  string    `json:"mood_tag,omitempty"`
}

// IsPlant reports whether the entry is eligible for bloom dormancy.
func (e *Entry) IsPlant() bool {
	return strings.EqualFold(e.Category, CategoryPlant)
}

const CategoryPlant = "plant"

// Dialogue is one NPC exchange, available once every required entry is collected.
type Dialogue struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Requires []string `json:"requires,omitempty"` // entry IDs
	Fallback bool     `json:"fallback,omitempty"` // always-available default line
	Lines    []string `json:"lines"`
	MoodTag  string   `json:"mood_tag,omitempty"`
}

// NPC is a character anchored near a home point on the map.
type NPC struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Location     *Location  `json:"location,omitempty"` // initial position, also the wander home
	WanderRadius float64    `json:"wander_radius,omitempty"`
	WanderSpeed  float64    `json:"wander_speed,omitempty"`
	Dialogues    []Dialogue `json:"dialogues,omitempty"`
}

// Zone is a named rectangular map region centred on (X, Y).
type Zone struct {
	Name     string   `json:"name"`
	Subtitle string   `json:"subtitle,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height,omitempty"` // defaults to Width
	Regions  []string `json:"regions,omitempty"`
}

// MoodEffect is what a mood tag does to the surveyor.
type MoodEffect struct {
	Delta    float64  `json:"delta"`
	Tone     string   `json:"tone"`
	Messages []string `json:"messages"`
}

// Catalog is the full immutable world description.
type Catalog struct {
	Entries          []Entry               `json:"entries"`
	NPCs             []NPC                 `json:"npcs"`
	Zones            []Zone                `json:"zones,omitempty"`
	SceneEvents      []SceneTemplate       `json:"scene_events,omitempty"`
	MoodEffects      map[string]MoodEffect `json:"mood_effects,omitempty"`
	TonePrompts      map[string][]string   `json:"tone_prompts,omitempty"`
	EntryMoodTags    map[string]string     `json:"entry_mood_tags,omitempty"`    // entry ID → mood tag
	DialogueMoodTags map[string]string     `json:"dialogue_mood_tags,omitempty"` // "npc:dialogue" → mood tag

	entryIndex map[string]int
	npcIndex   map[string]int
}

// Load reads and indexes a catalog JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog JSON. Unknown display fields are ignored.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	c.Index()
	return &c, nil
}

// Index (re)builds lookup tables. Call it after constructing a Catalog by hand.
func (c *Catalog) Index() {
	c.entryIndex = make(map[string]int, len(c.Entries))
	for i := range c.Entries {
		if _, dup := c.entryIndex[c.Entries[i].ID]; !dup {
			c.entryIndex[c.Entries[i].ID] = i
		}
	}
	c.npcIndex = make(map[string]int, len(c.NPCs))
	for i := range c.NPCs {
		if _, dup := c.npcIndex[c.NPCs[i].ID]; !dup {
			c.npcIndex[c.NPCs[i].ID] = i
		}
	}
}

// Entry looks up an entry by ID.
func (c *Catalog) Entry(id string) (*Entry, bool) {
	if c.entryIndex == nil {
		c.Index()
	}
	i, ok := c.entryIndex[id]
	if !ok {
		return nil, false
	}
	return &c.Entries[i], true
}

// NPC looks up an NPC by ID.
func (c *Catalog) NPC(id string) (*NPC, bool) {
	if c.npcIndex == nil {
		c.Index()
	}
	i, ok := c.npcIndex[id]
	if !ok {
		return nil, false
	}
	return &c.NPCs[i], true
}

// LocatedEntries returns pointers to every entry that has a map location.
func (c *Catalog) LocatedEntries() []*Entry {
	out := make([]*Entry, 0, len(c.Entries))
	for i := range c.Entries {
		if c.Entries[i].Location != nil {
			out = append(out, &c.Entries[i])
		}
	}
	return out
}

// LocatedNPCs returns pointers to every NPC that has a map location.
func (c *Catalog) LocatedNPCs() []*NPC {
	out := make([]*NPC, 0, len(c.NPCs))
	for i := range c.NPCs {
		if c.NPCs[i].Location != nil {
			out = append(out, &c.NPCs[i])
		}
	}
	return out
}

// EntryMoodTag resolves the mood tag for an entry: its own field first, then the table.
func (c *Catalog) EntryMoodTag(e *Entry) string {
	if e == nil {
		return ""
	}
	if e.MoodTag != "" {
		return e.MoodTag
	}
	return c.EntryMoodTags[e.ID]
}

// Scene looks up a scene template by ID.
func (c *Catalog) Scene(id string) (*SceneTemplate, bool) {
	for i := range c.SceneEvents {
		if c.SceneEvents[i].ID == id {
			return &c.SceneEvents[i], true
		}
	}
	return nil, false
}
