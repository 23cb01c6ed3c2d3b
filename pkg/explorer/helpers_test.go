package explorer

import (
	"testing"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
	"github.com/jwebster45206/atlas-engine/pkg/tuning"
)

// quietTuning disables NPC drift and random scene rolls so tests control every event.
func quietTuning() tuning.Tuning {
	t := tuning.Default()
	t.Wander.Enabled = false
	t.Scene.RollChance = 0
	return t
}

func newTestEngine(t *testing.T, cat *catalog.Catalog, opts ...Option) *Engine {
	t.Helper()
	cat.Index()
	base := []Option{WithRNG(rng.NewSeeded(42)), WithTuning(quietTuning())}
	return NewEngine(cat, append(base, opts...)...)
}

func loc(x, y float64, region string) *catalog.Location {
	return &catalog.Location{X: x, Y: y, Region: region}
}

func plantBeds(n int) []catalog.Entry {
	out := make([]catalog.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, catalog.Entry{
			ID:       "bed-" + string(rune('a'+i)),
			Title:    "Bed " + string(rune('A'+i)),
			Category: catalog.CategoryPlant,
			Location: loc(10+float64(i)*15, 20, "Verdant Reach"),
		})
	}
	return out
}

// travelTo puts st on the road to target without going through the picker.
func travelTo(st *State, target Target) {
	st.phase = &Travel{Target: target}
}

func worldCatalog() *catalog.Catalog {
	entries := plantBeds(5)
	entries = append(entries,
		catalog.Entry{ID: "tide-glass", Title: "Tide Glass", Category: "Curio", Location: loc(70, 60, "Dawnmire")},
		catalog.Entry{ID: "lost-camera", Title: "Lost Camera", Category: "Curio", Location: loc(35, 75, "Sporeborn Hollows")},
		catalog.Entry{ID: "wanderers-ember", Title: "Wanderer's Ember", Category: "Relic", Location: loc(85, 30, "Ember Steppe"), MoodTag: "wonder"},
		catalog.Entry{ID: "unplaced-scroll", Title: "Unplaced Scroll", Category: "Lore"},
	)
	return &catalog.Catalog{
		Entries: entries,
		NPCs: []catalog.NPC{
			{
				ID: "jansa", Name: "Jansa", Location: loc(60, 40, "Ember Steppe"),
				Dialogues: []catalog.Dialogue{
					{ID: "greeting", Title: "Warm Greeting", Fallback: true, Lines: []string{"Jansa nods."}},
					{ID: "ember", Title: "The Ember", Requires: []string{"wanderers-ember"}, Lines: []string{"She cups the ember.", "It steadies."}},
				},
			},
			{
				ID: "mossback", Name: "Mossback", Location: loc(30, 70, "Sporeborn Hollows"),
				Dialogues: []catalog.Dialogue{
					{ID: "hello", Title: "Hello", Fallback: true, Lines: []string{"Mossback waves."}},
					{ID: "camera", Title: "The Camera", Requires: []string{"lost-camera"}, Lines: []string{"They clutch the camera."}},
					{ID: "pair", Title: "Glass and Lens", Requires: []string{"lost-camera", "tide-glass"}, Lines: []string{"Two finds, one story."}},
				},
			},
		},
		Zones: []catalog.Zone{
			{Name: "Ember Steppe", X: 75, Y: 35, Width: 40},
			{Name: "Sporeborn Hollows", X: 30, Y: 70, Width: 40},
		},
		SceneEvents: []catalog.SceneTemplate{
			{ID: "squall", Title: "Squall", Type: catalog.SceneWeather, Duration: 12, Cooldown: 30, SpeedMultiplier: 0.6, NPCBias: 0.5, RequiresShelter: true, ShelterDuration: 5},
			{ID: "ambush", Title: "Bandit Scouts", Type: catalog.SceneEncounter, Duration: 8, Cooldown: 30, DisruptDuration: 3, RedirectType: catalog.RedirectEntry, RedirectCategory: "Curio"},
			{ID: "bloom", Title: "Spore Bloom", Type: catalog.SceneBloom, Duration: 20, Cooldown: 30, BloomDormancyCount: 2, BloomDormancyDuration: 10, MoodTag: "wonder"},
			{ID: "aurora", Title: "Aurora", Type: catalog.ScenePhenomenon, Duration: 15, Cooldown: 30, SpeedMultiplier: 1.2},
		},
		MoodEffects: map[string]catalog.MoodEffect{
			"wonder": {Delta: 2, Tone: "awed", Messages: []string{"{source} glitters over {zone}."}},
			"dread":  {Delta: -3, Tone: "uneasy", Messages: []string{"Something about {source} feels wrong."}},
		},
		TonePrompts: map[string][]string{
			"steady": {"The road through {zone} hums along."},
			"awed":   {"Everything in {zone} seems to shimmer."},
		},
	}
}
