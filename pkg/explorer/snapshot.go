package explorer

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// SceneView is the active scene as presented to sinks.
type SceneView struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	Descriptor string  `json:"descriptor"`
	Remaining  float64 `json:"remaining"`
	NPCBias    float64 `json:"npc_bias"`
	Speed      float64 `json:"speed_multiplier"`
}

// NPCView is an NPC's live position.
type NPCView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	NewDialogue bool    `json:"new_dialogue"`
}

// Snapshot is a read-only copy of everything a presentation sink renders.
type Snapshot struct {
	SessionID      uuid.UUID  `json:"session_id"`
	TakenAt        time.Time  `json:"taken_at"`
	Elapsed        float64    `json:"elapsed"`
	X              float64    `json:"x"`
	Y              float64    `json:"y"`
	Phase          PhaseKind  `json:"phase"`
	TargetKind     TargetKind `json:"target_kind,omitempty"`
	TargetID       string     `json:"target_id,omitempty"`
	PauseRemaining float64    `json:"pause_remaining"`
	Status         string     `json:"status"`
	Speed          float64    `json:"speed"`
	TotalCollected int        `json:"total_collected"`
	UniqueFound    int        `json:"unique_found"`
	Zone           string     `json:"zone,omitempty"`
	Mood           float64    `json:"mood"`
	Tone           string     `json:"tone"`
	MoodLine       *MoodLine  `json:"mood_line,omitempty"`
	Scene          *SceneView `json:"scene,omitempty"`
	SceneCooldown  float64    `json:"scene_cooldown"`
	Dormant        []string   `json:"dormant,omitempty"`
	Log            []LogEntry `json:"log"`
	Path           []Point    `json:"path"`
	Markers        []Marker   `json:"markers,omitempty"`
	NPCs           []NPCView  `json:"npcs,omitempty"`
	Telemetry      Telemetry  `json:"telemetry"`
}

// Snapshot copies st for presentation. The result shares nothing mutable with st.
func (e *Engine) Snapshot(st *State) Snapshot {
	snap := Snapshot{
		SessionID:      st.ID,
		TakenAt:        time.Now(),
		Elapsed:        st.Elapsed,
		X:              st.X,
		Y:              st.Y,
		Phase:          st.PhaseKind(),
		PauseRemaining: st.PauseRemaining(),
		Status:         e.Status(st),
		Speed:          st.Speed,
		TotalCollected: st.TotalCollected,
		UniqueFound:    len(st.Collected),
		Zone:           st.Zone,
		Mood:           st.Mood.Value,
		Tone:           st.Mood.Tone,
		SceneCooldown:  st.SceneCooldown,
		Dormant:        st.DormantIDs(),
		Log:            cloneLog(st.Log),
		Path:           append([]Point(nil), st.Path...),
		Markers:        cloneMarkers(st.Markers),
		Telemetry:      e.Telemetry(st),
	}
	if t := st.Target(); t != nil {
		snap.TargetKind = t.Kind
		snap.TargetID = t.ID()
	}
	if d := st.Mood.Display; d != nil {
		line := *d
		snap.MoodLine = &line
	}
	if sc := st.Scene; sc != nil {
		snap.Scene = &SceneView{
			ID:         sc.Template.ID,
			Title:      sc.Template.Title,
			Type:       string(sc.Template.Type),
			Descriptor: sc.Template.Descriptor(),
			Remaining:  sc.Remaining,
			NPCBias:    sc.Influence.NPCBias,
			Speed:      sc.Influence.SpeedMultiplier,
		}
	}
	for _, n := range st.NPCs {
		snap.NPCs = append(snap.NPCs, NPCView{
			ID:          n.NPC.ID,
			Name:        n.NPC.Name,
			X:           n.X,
			Y:           n.Y,
			NewDialogue: HasNewDialogue(n.NPC, st),
		})
	}
	return snap
}

func cloneLog(entries []LogEntry) []LogEntry {
	out := make([]LogEntry, len(entries))
	for i, e := range entries {
		e.Lines = slices.Clone(e.Lines)
		if e.Variant != nil {
			v := *e.Variant
			e.Variant = &v
		}
		out[i] = e
	}
	return out
}

func cloneMarkers(markers []Marker) []Marker {
	if len(markers) == 0 {
		return nil
	}
	out := make([]Marker, len(markers))
	for i, m := range markers {
		m.Glyph = slices.Clone(m.Glyph)
		out[i] = m
	}
	return out
}
