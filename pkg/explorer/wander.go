package explorer

import (
	"math"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
)

// NPCState is an NPC's live position. NPCs drift around their home point while nobody
// is talking to them.
type NPCState struct {
	NPC    *catalog.NPC
	X, Y   float64
	Home   Point
	Dest   *Point // current wander destination
	Pause  float64
	Speed  float64
	Radius float64
}

func (e *Engine) newNPCStates() []*NPCState {
	var out []*NPCState
	for _, npc := range e.catalog.LocatedNPCs() {
		ns := &NPCState{
			NPC:    npc,
			X:      npc.Location.X,
			Y:      npc.Location.Y,
			Home:   Point{X: npc.Location.X, Y: npc.Location.Y},
			Pause:  e.rng.Float64() * 5,
			Speed:  npc.WanderSpeed,
			Radius: npc.WanderRadius,
		}
		if ns.Speed <= 0 {
			ns.Speed = rng.Between(e.rng, 0.35, 0.75)
		}
		if ns.Radius <= 0 {
			ns.Radius = rng.Between(e.rng, 6, 12)
		}
		ns.Dest = &Point{X: ns.X, Y: ns.Y}
		out = append(out, ns)
	}
	return out
}

// hold pins the NPC where it stands for at least d seconds.
func (n *NPCState) hold(d float64) {
	n.Pause = math.Max(n.Pause, d)
	n.Dest = &Point{X: n.X, Y: n.Y}
}

func (e *Engine) wanderDestination(n *NPCState) *Point {
	w := e.tuning.Wander
	radius := clamp(n.Radius, w.MinRadius, w.MaxRadius)
	angle := e.rng.Float64() * 2 * math.Pi
	dist := (0.35 + e.rng.Float64()*0.65) * radius
	lo, hi := w.Bound+1, 100-w.Bound-1
	return &Point{
		X: clamp(n.Home.X+math.Cos(angle)*dist, lo, hi),
		Y: clamp(n.Home.Y+math.Sin(angle)*dist, lo, hi),
	}
}

func (e *Engine) updateWandering(st *State, dt float64) {
	w := e.tuning.Wander
	if !w.Enabled {
		return
	}
	for _, n := range st.NPCs {
		if n.Dest == nil {
			n.Dest = e.wanderDestination(n)
		}
		if n.Pause > 0 {
			n.Pause = math.Max(0, n.Pause-dt)
			continue
		}
		dx, dy := n.Dest.X-n.X, n.Dest.Y-n.Y
		dist := math.Hypot(dx, dy)
		if dist < w.Arrive {
			n.Pause = rng.Between(e.rng, w.PauseMin, w.PauseMax)
			n.Dest = e.wanderDestination(n)
			continue
		}
		step := math.Min(dist, clamp(n.Speed, w.MinSpeed, w.MaxSpeed)*dt)
		if step <= 0 {
			continue
		}
		n.X = clamp(n.X+dx/dist*step, w.Bound, 100-w.Bound)
		n.Y = clamp(n.Y+dy/dist*step, w.Bound, 100-w.Bound)
	}
}
