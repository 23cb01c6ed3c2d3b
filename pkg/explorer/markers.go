package explorer

import (
	"fmt"
	"math"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
)

// MarkerType classifies a transient map marker.
type MarkerType string

const (
	MarkerScene MarkerType = "scene"
	MarkerWilt  MarkerType = "bloom-wilt"
	MarkerBloom MarkerType = "bloom"
)

var (
	wiltGlyph     = []string{`\|//`, ` xx `, `//|\`}
	regrowthGlyph = []string{` .^. `, `< * >`, `  |  `}
	defaultGlyph  = []string{"[]"}
)

// Marker is a short-lived glyph on the map left by a scene, a wilting bed or a regrowth.
type Marker struct {
	ID        string     `json:"id"`
	SourceID  string     `json:"source_id"`
	Type      MarkerType `json:"type"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary,omitempty"`
	Label     string     `json:"label,omitempty"`
	Caption   string     `json:"caption,omitempty"`
	Glyph     []string   `json:"glyph"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	TTL       float64    `json:"ttl"`
	Remaining float64    `json:"remaining"`
}

type markerSpec struct {
	SourceID string
	Type     MarkerType
	Title    string
	Summary  string
	Label    string
	Caption  string
	Glyph    []string
	Anchor   *catalog.Location // nil anchors on the surveyor
	Jitter   float64
	TTL      float64
}

func (e *Engine) spawnSceneMarker(st *State, tpl *catalog.SceneTemplate) {
	m := e.tuning.Markers
	ttl := m.DefaultTTL
	switch {
	case tpl.MapDuration > 0:
		ttl = tpl.MapDuration
	case tpl.Duration > 0:
		ttl = math.Max(m.MinScaledTTL, tpl.Duration*m.TTLScale)
	}
	label := tpl.MapLabel
	if label == "" {
		label = tpl.Title
	}
	e.spawnMarker(st, markerSpec{
		SourceID: tpl.ID,
		Type:     MarkerScene,
		Title:    tpl.Title,
		Summary:  tpl.Summary,
		Label:    label,
		Glyph:    tpl.Glyph,
		Anchor:   tpl.MapLocation,
		Jitter:   m.Jitter,
		TTL:      ttl,
	})
}

// spawnMarker scatters a marker around its anchor and keeps it inside the map margin.
func (e *Engine) spawnMarker(st *State, spec markerSpec) *Marker {
	m := e.tuning.Markers
	ox, oy := st.X, st.Y
	if spec.Anchor != nil {
		ox, oy = spec.Anchor.X, spec.Anchor.Y
	}
	if r := math.Max(0, spec.Jitter); r > 0 {
		angle := e.rng.Float64() * 2 * math.Pi
		dist := e.rng.Float64() * r
		ox += math.Cos(angle) * dist
		oy += math.Sin(angle) * dist
	}
	glyph := spec.Glyph
	if len(glyph) == 0 {
		glyph = defaultGlyph
	}
	st.markerSeq++
	marker := Marker{
		ID:        fmt.Sprintf("%s:%d", spec.SourceID, st.markerSeq),
		SourceID:  spec.SourceID,
		Type:      spec.Type,
		Title:     spec.Title,
		Summary:   spec.Summary,
		Label:     spec.Label,
		Caption:   spec.Caption,
		Glyph:     glyph,
		X:         clamp(ox, m.Bound, 100-m.Bound),
		Y:         clamp(oy, m.Bound, 100-m.Bound),
		TTL:       math.Max(m.MinTTL, spec.TTL),
	}
	marker.Remaining = marker.TTL
	st.Markers = append(st.Markers, marker)
	return &st.Markers[len(st.Markers)-1]
}

func (e *Engine) updateMarkers(st *State, dt float64) {
	live := st.Markers[:0]
	for _, m := range st.Markers {
		m.Remaining = math.Max(0, m.Remaining-dt)
		if m.Remaining > 0 {
			live = append(live, m)
		}
	}
	st.Markers = live
}
