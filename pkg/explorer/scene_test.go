package explorer

import (
	"strings"
	"testing"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerScene_WeatherShelter(t *testing.T) {
	cat := worldCatalog()
	eng := newTestEngine(t, cat)
	st := eng.NewState()
	eng.Step(st, 0.1)
	require.Equal(t, PhaseTravel, st.PhaseKind())

	squall, _ := cat.Scene("squall")
	require.True(t, eng.TriggerScene(st, squall))

	assert.Equal(t, PhaseIdle, st.PhaseKind())
	assert.Nil(t, st.Target())
	require.NotNil(t, st.PendingRedirect)
	assert.Equal(t, catalog.RedirectNPC, st.PendingRedirect.Type)
	assert.Equal(t, "shelter", st.PendingRedirect.Reason)
	assert.GreaterOrEqual(t, st.PauseRemaining(), 5.0)
	assert.Less(t, st.PauseRemaining(), 6.5)

	assert.InDelta(t, 1.6*0.6, st.Speed, 1e-9)
	assert.Equal(t, 12.0, st.Scene.Remaining)
	assert.Equal(t, 30.0, st.SceneCooldown)
	assert.Equal(t, 0.5, st.Scene.Influence.NPCBias)
	require.NotEmpty(t, st.Log)
	assert.Equal(t, LogScene, st.Log[0].Kind)
	require.Len(t, st.Markers, 1)
	assert.Equal(t, "squall", st.Markers[0].SourceID)
	assert.True(t, strings.HasPrefix(eng.Status(st), "Sheltering from the weather ("), eng.Status(st))
}

func TestTriggerScene_Exclusive(t *testing.T) {
	cat := worldCatalog()
	eng := newTestEngine(t, cat)
	st := eng.NewState()

	aurora, _ := cat.Scene("aurora")
	squall, _ := cat.Scene("squall")
	require.True(t, eng.TriggerScene(st, aurora))
	assert.False(t, eng.TriggerScene(st, squall))
	assert.Equal(t, "aurora", st.Scene.Template.ID)
	assert.Nil(t, st.PendingRedirect)
}

func TestScene_ClearsAndFloorsCooldown(t *testing.T) {
	cat := worldCatalog()
	eng := newTestEngine(t, cat)
	st := eng.NewState()

	aurora, _ := cat.Scene("aurora")
	require.True(t, eng.TriggerScene(st, aurora))
	assert.InDelta(t, 1.6*1.2, st.Speed, 1e-9)

	for i := 0; i < 60; i++ {
		eng.Step(st, 0.25)
	}
	assert.Nil(t, st.Scene)
	assert.Equal(t, 1.6, st.Speed)
	// the cooldown does not tick while the scene runs
	assert.Equal(t, 30.0, st.SceneCooldown)
	assert.Equal(t, "aurora", st.lastSceneID)
}

func TestScene_MinimumTimers(t *testing.T) {
	cat := &catalog.Catalog{SceneEvents: []catalog.SceneTemplate{
		{ID: "blink", Title: "Blink", Type: catalog.ScenePhenomenon, Duration: 1, Cooldown: 2},
	}}
	eng := newTestEngine(t, cat)
	st := eng.NewState()
	require.True(t, eng.TriggerScene(st, &cat.SceneEvents[0]))
	assert.Equal(t, 4.0, st.Scene.Remaining)
	assert.Equal(t, 24.0, st.SceneCooldown)
}

func TestNextSceneTemplate_AvoidsRepeat(t *testing.T) {
	cat := worldCatalog()
	cat.SceneEvents = cat.SceneEvents[2:] // bloom, aurora
	eng := newTestEngine(t, cat)
	st := eng.NewState()
	st.lastSceneID = "aurora"
	for i := 0; i < 20; i++ {
		assert.Equal(t, "bloom", eng.nextSceneTemplate(st).ID)
	}

	single := &catalog.Catalog{SceneEvents: cat.SceneEvents[1:]}
	eng = newTestEngine(t, single)
	st = eng.NewState()
	st.lastSceneID = "aurora"
	assert.Equal(t, "aurora", eng.nextSceneTemplate(st).ID)
}

func TestScene_RandomRollRespectsCooldown(t *testing.T) {
	tun := quietTuning()
	tun.Scene.RollChance = 1
	cat := worldCatalog()
	eng := newTestEngine(t, cat, WithTuning(tun))
	st := eng.NewState()

	// 14s initial cooldown: 56 steps drain it, the next one rolls
	for i := 0; i < 56; i++ {
		eng.Step(st, 0.25)
		require.Nil(t, st.Scene, "step %d", i)
	}
	eng.Step(st, 0.25)
	assert.NotNil(t, st.Scene)
}

func TestTriggerScene_EncounterRedirect(t *testing.T) {
	cat := worldCatalog()
	eng := newTestEngine(t, cat)
	st := eng.NewState()

	ambush, _ := cat.Scene("ambush")
	require.True(t, eng.TriggerScene(st, ambush))
	assert.Equal(t, PhaseIdle, st.PhaseKind())
	assert.GreaterOrEqual(t, st.PauseRemaining(), 3.0)
	require.NotNil(t, st.PendingRedirect)
	assert.Equal(t, catalog.RedirectEntry, st.PendingRedirect.Type)
	assert.Equal(t, "Curio", st.PendingRedirect.Category)

	target := eng.PickTarget(st)
	require.NotNil(t, target)
	assert.Nil(t, st.PendingRedirect)
	assert.Equal(t, TargetEntry, target.Kind)
	assert.Equal(t, "Curio", target.Entry.Category)
	assert.Equal(t, PhaseTravel, st.PhaseKind())
}

func TestTriggerScene_BloomDormancy(t *testing.T) {
	cat := &catalog.Catalog{
		Entries: plantBeds(5),
		SceneEvents: []catalog.SceneTemplate{
			{ID: "bloom", Title: "Spore Bloom", Type: catalog.SceneBloom, Duration: 10, BloomDormancyCount: 2, BloomDormancyDuration: 10},
		},
	}
	eng := newTestEngine(t, cat)
	st := eng.NewState()
	require.True(t, eng.TriggerScene(st, &cat.SceneEvents[0]))

	require.Len(t, st.Dormant, 2)
	ids := st.DormantIDs()
	assert.NotEqual(t, ids[0], ids[1])
	longest := 0.0
	for _, id := range ids {
		d := st.Dormant[id]
		assert.Positive(t, d.Remaining)
		assert.GreaterOrEqual(t, d.Remaining, 6.0)
		assert.Less(t, d.Remaining, 13.0)
		assert.Equal(t, "bloom", d.SceneID)
		longest = max(longest, d.Remaining)
	}
	st.DrainNotices()

	regrowth := map[string]int{}
	for elapsed := 0.0; elapsed < longest+1; elapsed += 0.25 {
		eng.Step(st, 0.25)
		for _, n := range st.DrainNotices() {
			if n.Kind == NoticeRegrowth {
				regrowth[n.Subject]++
			}
		}
	}
	assert.Empty(t, st.Dormant)
	assert.Equal(t, map[string]int{ids[0]: 1, ids[1]: 1}, regrowth)
}

func TestBloomDormancy_DefaultShareAndTarget(t *testing.T) {
	cat := &catalog.Catalog{
		Entries: plantBeds(5),
		SceneEvents: []catalog.SceneTemplate{
			{ID: "all", Title: "Great Wilt", Type: catalog.SceneBloom, Duration: 30, BloomDormancyCount: 9},
			{ID: "share", Title: "Light Wilt", Type: catalog.SceneBloom, Duration: 30},
		},
	}
	eng := newTestEngine(t, cat)

	st := eng.NewState()
	entry, _ := cat.Entry("bed-c")
	travelTo(st, EntryTarget(entry))
	require.True(t, eng.TriggerScene(st, &cat.SceneEvents[0]))
	assert.Len(t, st.Dormant, 5, "count clamps to the pool")
	assert.Equal(t, PhaseIdle, st.PhaseKind(), "a dormant target is abandoned")
	assert.Nil(t, eng.PickTarget(st), "dormant entries are not targets")

	st = eng.NewState()
	require.True(t, eng.TriggerScene(st, &cat.SceneEvents[1]))
	// 12% of five rounds to one, and never less than one
	assert.Len(t, st.Dormant, 1)
	for _, d := range st.Dormant {
		// max(12, 0.8*30) scaled by [0.6, 1.3)
		assert.GreaterOrEqual(t, d.Duration, 24*0.6)
		assert.Less(t, d.Duration, 24*1.3)
	}
}

func TestPickTarget_RedirectConsumed(t *testing.T) {
	cat := worldCatalog()
	eng := newTestEngine(t, cat)

	tests := []struct {
		name     string
		redirect Redirect
		wantKind TargetKind
		wantID   string
	}{
		{name: "npc by region", redirect: Redirect{Type: catalog.RedirectNPC, Region: "Sporeborn Hollows"}, wantKind: TargetNPC, wantID: "mossback"},
		{name: "entry by category and region", redirect: Redirect{Type: catalog.RedirectEntry, Category: "Curio", Region: "Dawnmire"}, wantKind: TargetEntry, wantID: "tide-glass"},
		{name: "entry by region only", redirect: Redirect{Type: catalog.RedirectEntry, Region: "Ember Steppe"}, wantKind: TargetEntry, wantID: "wanderers-ember"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := eng.NewState()
			r := tt.redirect
			st.PendingRedirect = &r
			got := eng.PickTarget(st)
			require.NotNil(t, got)
			assert.Nil(t, st.PendingRedirect)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantID, got.ID())
		})
	}

	empty := newTestEngine(t, &catalog.Catalog{})
	st := empty.NewState()
	st.PendingRedirect = &Redirect{Type: catalog.RedirectEntry, Category: "nothing"}
	assert.Nil(t, empty.PickTarget(st))
	assert.Nil(t, st.PendingRedirect)
	assert.Equal(t, PhaseIdle, st.PhaseKind())
}

func TestPickTarget_NewLoreWins(t *testing.T) {
	cat := worldCatalog()
	eng := newTestEngine(t, cat)
	st := eng.NewState()
	remember(st, "lost-camera")

	for i := 0; i < 10; i++ {
		got := eng.PickTarget(st)
		require.NotNil(t, got)
		assert.Equal(t, TargetNPC, got.Kind)
		assert.Equal(t, "mossback", got.ID())
	}
}

func TestPickTarget_FallsBackToFullPool(t *testing.T) {
	cat := &catalog.Catalog{Entries: []catalog.Entry{
		{ID: "only", Title: "Only", Location: loc(10, 10, "")},
	}}
	eng := newTestEngine(t, cat)
	st := eng.NewState()
	st.Collected["only"] = true

	got := eng.PickTarget(st)
	require.NotNil(t, got)
	assert.Equal(t, "only", got.ID())
}

func TestNPCChance(t *testing.T) {
	cat := worldCatalog()
	eng := newTestEngine(t, cat)
	st := eng.NewState()
	assert.InDelta(t, 0.22, eng.npcChance(st), 1e-9)

	st.Scene = &ActiveScene{Template: &cat.SceneEvents[0], Influence: Influence{NPCBias: 0.9}}
	assert.InDelta(t, 0.82, eng.npcChance(st), 1e-9)

	tun := quietTuning()
	tun.Targeting.NPCBaseChance = 0.5
	eng = newTestEngine(t, cat, WithTuning(tun))
	assert.InDelta(t, 0.85, eng.npcChance(st), 1e-9)
}
