package explorer

import (
	"fmt"
	"math"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
)

const defaultDormancyBase = 24

// startDormancy hides a random subset of plant entries. Each gets its own timer scaled
// around the scene's dormancy duration.
func (e *Engine) startDormancy(st *State, tpl *catalog.SceneTemplate) {
	t := e.tuning.Scene
	var plants, available []*catalog.Entry
	for _, entry := range e.catalog.LocatedEntries() {
		if !entry.IsPlant() {
			continue
		}
		plants = append(plants, entry)
		if !st.IsDormant(entry.ID) {
			available = append(available, entry)
		}
	}
	if len(available) == 0 {
		return
	}

	count := tpl.BloomDormancyCount
	if count <= 0 {
		count = int(math.Round(float64(len(available)) * t.DormancyShare))
	}
	count = max(1, min(len(available), count))

	base := tpl.BloomDormancyDuration
	if base <= 0 {
		d := tpl.Duration
		if d <= 0 {
			d = defaultDormancyBase
		}
		base = math.Max(t.DormancyMinBase, d*0.8)
	}

	for _, entry := range rng.PickMany(e.rng, available, count) {
		d := base * (t.DormancyScaleLow + e.rng.Float64()*t.DormancyScaleSpan)
		st.Dormant[entry.ID] = &Dormancy{Entry: entry, Remaining: d, Duration: d, SceneID: tpl.ID}
		st.notify(Notice{Kind: NoticeDormant, Subject: entry.ID, Title: entry.Title})
		e.spawnMarker(st, markerSpec{
			SourceID: fmt.Sprintf("%s-wilt-%s", tpl.ID, entry.ID),
			Title:    entry.Title + " Dormancy",
			Summary:  entry.Title + " withdraws beneath the soil.",
			Type:     MarkerWilt,
			Glyph:    wiltGlyph,
			Label:    entry.Title + " dormant cluster",
			Caption:  "Dormant",
			Anchor:   entry.Location,
			Jitter:   e.tuning.Markers.WiltJitter,
			TTL:      d,
		})
		if tgt := st.Target(); tgt != nil && tgt.Kind == TargetEntry && tgt.Entry.ID == entry.ID {
			e.setPhase(st, &Idle{})
		}
	}
	e.logger.Debug("Bloom dormancy started",
		"session_id", st.ID.String(),
		"scene_id", tpl.ID,
		"dormant", len(st.Dormant),
		"plants", len(plants))
}

// updateDormancy counts down each dormant entry and regrows the ones that reach zero,
// in id order.
func (e *Engine) updateDormancy(st *State, dt float64) {
	if len(st.Dormant) == 0 {
		return
	}
	for _, id := range st.DormantIDs() {
		d := st.Dormant[id]
		d.Remaining = math.Max(0, d.Remaining-dt)
		if d.Remaining > 0 {
			continue
		}
		delete(st.Dormant, id)
		e.regrow(st, d)
	}
}

func (e *Engine) regrow(st *State, d *Dormancy) {
	title := d.Entry.Title + " Regrowth"
	e.spawnMarker(st, markerSpec{
		SourceID: "regrowth-" + d.Entry.ID,
		Title:    title,
		Summary:  "Fresh shoots spark a new cluster nearby.",
		Type:     MarkerBloom,
		Glyph:    regrowthGlyph,
		Label:    d.Entry.Title + " regrowth cluster",
		Caption:  "Regrowth",
		Anchor:   d.Entry.Location,
		Jitter:   e.tuning.Markers.RegrowthJitter,
		TTL:      e.tuning.Markers.RegrowthTTL + e.rng.Float64()*e.tuning.Markers.RegrowthTTLSpan,
	})
	st.pushLog(LogEntry{
		Kind:    LogScene,
		ID:      "scene:regrowth:" + d.Entry.ID,
		Title:   title,
		Summary: "Dormant beds awaken and cluster anew.",
		Note:    "Bloom cycle renewed",
	})
	st.notify(Notice{Kind: NoticeRegrowth, Subject: d.Entry.ID, Title: title})
}
