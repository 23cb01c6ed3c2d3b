package explorer

import (
	"fmt"
	"math"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
)

const (
	defaultSceneDuration = 24
	defaultSceneCooldown = 48
	defaultShelter       = 5.5
	defaultDisrupt       = 3.5
)

// updateScene counts down the active scene or, once the cooldown has run out, rolls
// for a new one. Only one scene is ever active.
func (e *Engine) updateScene(st *State, dt float64) {
	if sc := st.Scene; sc != nil {
		sc.Remaining = math.Max(0, sc.Remaining-dt)
		if sc.Remaining == 0 {
			e.ClearScene(st)
		}
		return
	}
	if st.SceneCooldown > 0 {
		st.SceneCooldown = math.Max(0, st.SceneCooldown-dt)
		return
	}
	if len(e.catalog.SceneEvents) == 0 {
		return
	}
	if e.rng.Float64() < e.tuning.Scene.RollChance {
		e.TriggerScene(st, e.nextSceneTemplate(st))
	}
}

// nextSceneTemplate picks uniformly among the templates, skipping the one that cleared
// last when there is an alternative.
func (e *Engine) nextSceneTemplate(st *State) *catalog.SceneTemplate {
	var pool []*catalog.SceneTemplate
	for i := range e.catalog.SceneEvents {
		if tpl := &e.catalog.SceneEvents[i]; tpl.ID != st.lastSceneID {
			pool = append(pool, tpl)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, &e.catalog.SceneEvents[0])
	}
	tpl, _ := rng.Pick(e.rng, pool)
	return tpl
}

// TriggerScene starts tpl immediately and applies its side effects. It is a no-op while
// another scene is active.
func (e *Engine) TriggerScene(st *State, tpl *catalog.SceneTemplate) bool {
	if tpl == nil || st.Scene != nil {
		return false
	}
	t := e.tuning.Scene
	duration := tpl.Duration
	if duration <= 0 {
		duration = defaultSceneDuration
	}
	cooldown := tpl.Cooldown
	if cooldown <= 0 {
		cooldown = defaultSceneCooldown
	}

	st.Scene = &ActiveScene{
		Template:  tpl,
		Remaining: math.Max(t.MinDuration, duration),
		Influence: Influence{
			NPCBias:         math.Max(0, tpl.NPCBias),
			SpeedMultiplier: tpl.Multiplier(),
		},
	}
	st.SceneCooldown = math.Max(t.MinCooldown, cooldown)
	st.Speed = st.BaseSpeed * tpl.Multiplier()

	e.spawnSceneMarker(st, tpl)
	e.applySceneEffects(st, tpl)

	st.pushLog(LogEntry{
		Kind:    LogScene,
		ID:      fmt.Sprintf("scene:%s:%.2f", tpl.ID, st.Elapsed),
		Title:   tpl.Title,
		Summary: tpl.Summary,
		Note:    tpl.LogNote,
	})
	st.notify(Notice{Kind: NoticeSceneStarted, Subject: tpl.ID, Title: tpl.Title, Text: tpl.Descriptor()})

	if tpl.MoodTag != "" {
		zone := ""
		if z := e.catalog.ZoneAt(st.X, st.Y); z != nil {
			zone = z.Name
		}
		e.applyMoodTag(st, tpl.MoodTag, MoodContext{Source: tpl.Title, Kind: "event", Zone: zone})
	}

	e.logger.Info("Scene event started",
		"session_id", st.ID.String(),
		"scene_id", tpl.ID,
		"type", string(tpl.Type),
		"duration", st.Scene.Remaining)
	return true
}

// ClearScene ends the active scene, restores the base speed and floors the cooldown.
func (e *Engine) ClearScene(st *State) {
	sc := st.Scene
	if sc == nil {
		return
	}
	st.Scene = nil
	st.lastSceneID = sc.Template.ID
	st.Speed = st.BaseSpeed
	st.SceneCooldown = math.Max(st.SceneCooldown, e.tuning.Scene.ClearCooldown)
	st.notify(Notice{Kind: NoticeSceneCleared, Subject: sc.Template.ID, Title: sc.Template.Title})
	e.logger.Info("Scene event cleared",
		"session_id", st.ID.String(),
		"scene_id", sc.Template.ID,
		"cooldown", st.SceneCooldown)
}

func (e *Engine) applySceneEffects(st *State, tpl *catalog.SceneTemplate) {
	t := e.tuning.Scene
	switch {
	case tpl.Type == catalog.SceneWeather && tpl.RequiresShelter:
		shelter := tpl.ShelterDuration
		if shelter <= 0 {
			shelter = defaultShelter
		}
		redirect := tpl.RedirectType
		if redirect == "" {
			redirect = catalog.RedirectNPC
		}
		e.forcePause(st, math.Max(shelter, t.MinShelter)+e.rng.Float64()*t.PauseJitter, "shelter")
		st.PendingRedirect = &Redirect{Type: redirect, Reason: "shelter"}

	case tpl.Type == catalog.SceneEncounter:
		disrupt := tpl.DisruptDuration
		if disrupt <= 0 {
			disrupt = defaultDisrupt
		}
		e.forcePause(st, math.Max(disrupt, t.MinDisrupt)+e.rng.Float64()*t.PauseJitter, "encounter")
		if tpl.RedirectType != "" {
			st.PendingRedirect = &Redirect{
				Type:     tpl.RedirectType,
				Category: tpl.RedirectCategory,
				Region:   tpl.RedirectRegion,
				Reason:   "encounter",
			}
		}

	case tpl.Type == catalog.SceneBloom:
		e.startDormancy(st, tpl)
	}
}

// forcePause drops whatever the surveyor was doing and holds it idle for at least d
// seconds, keeping any longer pause already running.
func (e *Engine) forcePause(st *State, d float64, reason string) {
	d = math.Max(st.PauseRemaining(), d)
	e.setPhase(st, &Idle{Pause: newPause(d), Reason: reason})
}
