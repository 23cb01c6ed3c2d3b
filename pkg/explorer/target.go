package explorer

import (
	"math"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
)

// PickTarget chooses the surveyor's next destination and starts travelling toward it.
// A pending redirect is consumed first whether or not it yields a target. With nothing
// to visit the surveyor stays idle and PickTarget returns nil.
func (e *Engine) PickTarget(st *State) *Target {
	npcs := e.catalog.LocatedNPCs()
	entries := e.entryPool(st)

	if r := st.PendingRedirect; r != nil {
		st.PendingRedirect = nil
		if t, ok := e.redirectTarget(r, npcs, entries); ok {
			return e.startTravel(st, t)
		}
		e.logger.Debug("Redirect produced no target",
			"session_id", st.ID.String(),
			"type", string(r.Type),
			"reason", r.Reason)
	}

	var withNew []*catalog.NPC
	for _, n := range npcs {
		if HasNewDialogue(n, st) {
			withNew = append(withNew, n)
		}
	}
	if n, ok := rng.Pick(e.rng, withNew); ok {
		return e.startTravel(st, NPCTarget(n))
	}

	if len(entries) > 0 {
		if len(npcs) > 0 && e.rng.Float64() < e.npcChance(st) {
			n, _ := rng.Pick(e.rng, npcs)
			return e.startTravel(st, NPCTarget(n))
		}
		entry, _ := rng.Pick(e.rng, entries)
		return e.startTravel(st, EntryTarget(entry))
	}
	if n, ok := rng.Pick(e.rng, npcs); ok {
		return e.startTravel(st, NPCTarget(n))
	}

	if st.phase.Kind() != PhaseIdle {
		e.setPhase(st, &Idle{})
	}
	return nil
}

// entryPool returns the located, non-dormant entries not yet collected, or all of them
// once everything has been collected.
func (e *Engine) entryPool(st *State) []*catalog.Entry {
	var all, fresh []*catalog.Entry
	for _, entry := range e.catalog.LocatedEntries() {
		if st.IsDormant(entry.ID) {
			continue
		}
		all = append(all, entry)
		if !st.Collected[entry.ID] {
			fresh = append(fresh, entry)
		}
	}
	if len(fresh) > 0 {
		return fresh
	}
	return all
}

func (e *Engine) npcChance(st *State) float64 {
	t := e.tuning.Targeting
	bias := 0.0
	if st.Scene != nil {
		bias = math.Max(0, st.Scene.Influence.NPCBias)
	}
	return math.Min(t.NPCChanceCap, t.NPCBaseChance+math.Min(t.NPCBiasCap, bias))
}

// redirectTarget narrows the pool by the redirect's constraints. A constraint that
// would empty the pool is ignored.
func (e *Engine) redirectTarget(r *Redirect, npcs []*catalog.NPC, entries []*catalog.Entry) (Target, bool) {
	switch r.Type {
	case catalog.RedirectNPC:
		pool := narrow(npcs, r.Region != "", func(n *catalog.NPC) bool { return n.Location.Region == r.Region })
		if n, ok := rng.Pick(e.rng, pool); ok {
			return NPCTarget(n), true
		}
	case catalog.RedirectEntry:
		pool := narrow(entries, r.Category != "", func(en *catalog.Entry) bool { return en.Category == r.Category })
		pool = narrow(pool, r.Region != "", func(en *catalog.Entry) bool { return en.Location.Region == r.Region })
		if en, ok := rng.Pick(e.rng, pool); ok {
			return EntryTarget(en), true
		}
	}
	return Target{}, false
}

func narrow[T any](pool []T, active bool, keep func(T) bool) []T {
	if !active {
		return pool
	}
	var out []T
	for _, v := range pool {
		if keep(v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return pool
	}
	return out
}

func (e *Engine) startTravel(st *State, t Target) *Target {
	if st.phase.Kind() != PhaseIdle {
		e.setPhase(st, &Idle{})
	}
	tr := &Travel{Target: t}
	if !e.setPhase(st, tr) {
		return nil
	}
	e.logger.Debug("Surveyor target chosen",
		"session_id", st.ID.String(),
		"kind", string(t.Kind),
		"target_id", t.ID())
	return &tr.Target
}
