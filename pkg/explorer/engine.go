// Package explorer simulates the surveyor: an autonomous agent that wanders the atlas,
// collects entries, converses with NPCs and reacts to scene events.
//
// An Engine holds the read-only inputs (catalog, tuning, random source) and advances
// any number of independent States one frame at a time with Step.
package explorer

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
	"github.com/jwebster45206/atlas-engine/pkg/tuning"
)

// Engine advances surveyor States against a catalog.
type Engine struct {
	catalog *catalog.Catalog
	tuning  tuning.Tuning
	rng     rng.Source
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRNG sets the random source. The default draws from the runtime generator.
func WithRNG(src rng.Source) Option {
	return func(e *Engine) { e.rng = src }
}

// WithTuning replaces the default tuning.
func WithTuning(t tuning.Tuning) Option {
	return func(e *Engine) { e.tuning = t }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine builds an engine. A nil catalog behaves like an empty one.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	e := &Engine{
		catalog: cat,
		tuning:  tuning.Default(),
		rng:     rng.Default(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Tuning returns the engine's tuning.
func (e *Engine) Tuning() tuning.Tuning { return e.tuning }

// NewState creates a fresh surveyor at the start point, idle.
func (e *Engine) NewState() *State {
	t := e.tuning
	st := &State{
		ID:             uuid.New(),
		X:              t.StartX,
		Y:              t.StartY,
		BaseSpeed:      t.BaseSpeed,
		Speed:          t.BaseSpeed,
		phase:          &Idle{},
		Collected:      make(map[string]bool),
		RouteCollected: make(map[string]bool),
		DialogueSeen:   make(map[string]bool),
		Dormant:        make(map[string]*Dormancy),
		SceneCooldown:  t.Scene.InitialCooldown,
		logLimit:       t.LogLimit,
		pathLimit:      t.PathLimit,
		pathStep:       t.PathMinStep,
	}
	st.Mood = newMood(e.rng, t.Mood)
	st.NPCs = e.newNPCStates()
	st.recordPosition(true)
	if z := e.catalog.ZoneAt(st.X, st.Y); z != nil {
		st.Zone = z.Name
	}
	e.logger.Debug("Surveyor state created",
		"session_id", st.ID.String(),
		"entries", len(e.catalog.Entries),
		"npcs", len(st.NPCs),
		"scene_templates", len(e.catalog.SceneEvents))
	return st
}

// Step advances st by dt seconds. dt is clamped to [0, MaxStep] so a stalled host does
// not teleport the surveyor.
func (e *Engine) Step(st *State, dt float64) {
	if math.IsNaN(dt) || dt < 0 {
		dt = 0
	}
	if dt > e.tuning.MaxStep {
		dt = e.tuning.MaxStep
	}
	st.Elapsed += dt

	e.updateWandering(st, dt)
	e.updateMarkers(st, dt)
	e.updateDormancy(st, dt)
	e.updateMood(st, dt)
	e.updateScene(st, dt)
	e.advancePhase(st, dt)

	st.recordPosition(false)
	e.updateZone(st)
}

func (e *Engine) setPhase(st *State, next Phase) bool {
	from, to := st.phase.Kind(), next.Kind()
	if !CanTransition(from, to) {
		e.logger.Warn("Rejected phase transition",
			"session_id", st.ID.String(),
			"from", string(from),
			"to", string(to))
		return false
	}
	st.phase = next
	return true
}

func (e *Engine) advancePhase(st *State, dt float64) {
	if p := pauseOf(st.phase); p != nil {
		if p.Remaining > 0 {
			p.Remaining = math.Max(0, p.Remaining-dt)
			if p.Remaining == 0 {
				e.finishPause(st)
			}
			return
		}
		if st.phase.Kind() != PhaseIdle {
			e.finishPause(st)
			return
		}
	}

	if st.phase.Kind() == PhaseIdle {
		e.PickTarget(st)
	}
	if _, ok := st.phase.(*Travel); ok {
		e.travel(st, dt)
	}
}

// finishPause returns to idle and immediately chooses the next waypoint.
func (e *Engine) finishPause(st *State) {
	e.setPhase(st, &Idle{})
	e.PickTarget(st)
}

func (e *Engine) destination(st *State, t Target) (Point, bool) {
	switch t.Kind {
	case TargetEntry:
		if t.Entry == nil || t.Entry.Location == nil {
			return Point{}, false
		}
		return Point{X: t.Entry.Location.X, Y: t.Entry.Location.Y}, true
	case TargetNPC:
		if t.NPC == nil {
			return Point{}, false
		}
		if ns := st.NPCState(t.NPC.ID); ns != nil {
			return Point{X: ns.X, Y: ns.Y}, true
		}
		if t.NPC.Location != nil {
			return Point{X: t.NPC.Location.X, Y: t.NPC.Location.Y}, true
		}
	}
	return Point{}, false
}

func (e *Engine) travel(st *State, dt float64) {
	tr := st.phase.(*Travel)
	dest, ok := e.destination(st, tr.Target)
	if !ok {
		e.setPhase(st, &Idle{})
		return
	}
	dx, dy := dest.X-st.X, dest.Y-st.Y
	dist := math.Hypot(dx, dy)
	if dist < e.tuning.ArriveEpsilon {
		st.X, st.Y = dest.X, dest.Y
		switch tr.Target.Kind {
		case TargetEntry:
			e.collect(st, tr.Target.Entry)
		case TargetNPC:
			e.converse(st, tr.Target.NPC)
		}
		return
	}
	move := st.Speed * dt
	if move >= dist {
		st.X, st.Y = dest.X, dest.Y
		return
	}
	st.X += dx / dist * move
	st.Y += dy / dist * move
}

func (e *Engine) collect(st *State, entry *catalog.Entry) {
	st.recordPosition(false)
	isNew := !st.Collected[entry.ID]
	st.Collected[entry.ID] = true
	st.RouteCollected[entry.ID] = true
	st.RouteSequence = append(st.RouteSequence, entry.ID)
	st.LastCollectedID = entry.ID
	st.TotalCollected++

	if !e.setPhase(st, &Collecting{Entry: entry, Pause: newPause(e.tuning.CollectPause)}) {
		return
	}
	st.pushLog(LogEntry{
		Kind:    LogCollection,
		ID:      entry.ID,
		Title:   entry.Title,
		Summary: entry.Summary,
		Variant: entry.Variant,
	})
	st.notify(Notice{Kind: NoticeCollected, Subject: entry.ID, Title: entry.Title, IsNew: isNew})

	if tag := e.catalog.EntryMoodTag(entry); tag != "" {
		zone := ""
		if entry.Location != nil {
			zone = entry.Location.Region
			if zone == "" {
				if z := e.catalog.ZoneAt(entry.Location.X, entry.Location.Y); z != nil {
					zone = z.Name
				}
			}
		}
		e.applyMoodTag(st, tag, MoodContext{Source: entry.Title, Kind: "discovery", Zone: zone})
	}
}

func (e *Engine) converse(st *State, npc *catalog.NPC) {
	st.recordPosition(false)
	choice := SelectDialogue(npc, st, false)

	conv := &Conversing{NPC: npc}
	if choice != nil {
		conv.Dialogue = choice.Dialogue
		conv.Key = choice.Key
		conv.Title = choice.Dialogue.Title
		conv.IsNew = choice.IsNew
		conv.Lines = append([]string(nil), choice.Dialogue.Lines...)
	}
	if len(conv.Lines) == 0 {
		conv.Lines = []string{fmt.Sprintf("%s shares a quiet exchange.", npc.Name)}
	}
	duration := math.Max(e.tuning.ConversePauseMin, float64(len(conv.Lines))*e.tuning.SecondsPerLine)
	conv.Pause = newPause(duration)
	if !e.setPhase(st, conv) {
		return
	}

	logID := conv.Key
	if logID == "" {
		logID = fmt.Sprintf("npc:%s:%.2f", npc.ID, st.Elapsed)
	}
	st.pushLog(LogEntry{
		Kind:          LogDialogue,
		ID:            logID,
		Title:         npc.Name,
		DialogueTitle: conv.Title,
		Lines:         conv.Lines,
		IsNew:         conv.IsNew,
	})
	st.notify(Notice{Kind: NoticeDialogue, Subject: npc.ID, Title: npc.Name, Text: conv.Title, IsNew: conv.IsNew})

	st.clearRoute()
	if ns := st.NPCState(npc.ID); ns != nil {
		ns.hold(duration + e.tuning.NPCHoldExtra)
	}

	if tag := e.dialogueMoodTag(npc, choice); tag != "" {
		source := npc.Name
		if conv.Title != "" {
			source = conv.Title
		}
		zone := ""
		if npc.Location != nil {
			zone = npc.Location.Region
		}
		e.applyMoodTag(st, tag, MoodContext{Source: source, Kind: "dialogue", NPC: npc.Name, Zone: zone})
	}
}

// dialogueMoodTag resolves a conversation's mood tag: the dialogue's own, then the
// catalog table by key, then the first requirement that carries an entry tag.
func (e *Engine) dialogueMoodTag(npc *catalog.NPC, choice *DialogueChoice) string {
	if choice == nil {
		return ""
	}
	if choice.Dialogue.MoodTag != "" {
		return choice.Dialogue.MoodTag
	}
	if tag := e.catalog.DialogueMoodTags[choice.Key]; tag != "" {
		return tag
	}
	for _, req := range choice.Dialogue.Requires {
		if entry, ok := e.catalog.Entry(req); ok {
			if tag := e.catalog.EntryMoodTag(entry); tag != "" {
				return tag
			}
		}
	}
	return ""
}

func (e *Engine) updateZone(st *State) {
	z := e.catalog.ZoneAt(st.X, st.Y)
	name := ""
	if z != nil {
		name = z.Name
	}
	if name == st.Zone {
		return
	}
	st.Zone = name
	if z != nil {
		st.notify(Notice{Kind: NoticeZone, Subject: z.Name, Title: z.Name, Text: z.Subtitle})
	}
}
