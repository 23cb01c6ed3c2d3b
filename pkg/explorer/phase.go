package explorer

import "github.com/jwebster45206/atlas-engine/pkg/catalog"

// PhaseKind names a phase of the surveyor's state machine.
type PhaseKind string

const (
	PhaseIdle       PhaseKind = "idle"
	PhaseTravel     PhaseKind = "travel"
	PhaseCollecting PhaseKind = "collecting"
	PhaseConversing PhaseKind = "conversing"
)

// transitions lists the phases reachable from each phase. Idle may re-enter itself when
// a scene forces a pause while the surveyor is already idle.
var transitions = map[PhaseKind][]PhaseKind{
	PhaseIdle:       {PhaseIdle, PhaseTravel},
	PhaseTravel:     {PhaseIdle, PhaseCollecting, PhaseConversing},
	PhaseCollecting: {PhaseIdle},
	PhaseConversing: {PhaseIdle},
}

// CanTransition reports whether the state machine allows from → to.
func CanTransition(from, to PhaseKind) bool {
	for _, k := range transitions[from] {
		if k == to {
			return true
		}
	}
	return false
}

// Phase is the surveyor's current activity together with the data only that activity
// carries. Implementations are *Idle, *Travel, *Collecting and *Conversing.
type Phase interface {
	Kind() PhaseKind
	isPhase()
}

// Pause is a countdown that holds the surveyor in place.
type Pause struct {
	Remaining float64 `json:"remaining"`
	Duration  float64 `json:"duration"`
}

func newPause(d float64) Pause {
	if d < 0 {
		d = 0
	}
	return Pause{Remaining: d, Duration: d}
}

// Idle waits for a target. A non-zero pause (shelter, disruption) delays the next pick.
type Idle struct {
	Pause  Pause
	Reason string
}

// Travel moves toward Target.
type Travel struct {
	Target Target
}

// Collecting catalogues Entry for the length of Pause.
type Collecting struct {
	Entry *catalog.Entry
	Pause Pause
}

// Conversing holds the surveyor beside NPC while the dialogue plays.
type Conversing struct {
	NPC      *catalog.NPC
	Dialogue *catalog.Dialogue // nil when the NPC had nothing unlocked
	Key      string
	Title    string
	Lines    []string
	IsNew    bool
	Pause    Pause
}

func (*Idle) Kind() PhaseKind       { return PhaseIdle }
func (*Travel) Kind() PhaseKind     { return PhaseTravel }
func (*Collecting) Kind() PhaseKind { return PhaseCollecting }
func (*Conversing) Kind() PhaseKind { return PhaseConversing }

func (*Idle) isPhase()       {}
func (*Travel) isPhase()     {}
func (*Collecting) isPhase() {}
func (*Conversing) isPhase() {}

// pauseOf returns the pause carried by a phase, if any.
func pauseOf(p Phase) *Pause {
	switch ph := p.(type) {
	case *Idle:
		return &ph.Pause
	case *Collecting:
		return &ph.Pause
	case *Conversing:
		return &ph.Pause
	}
	return nil
}

// TargetKind discriminates Target.
type TargetKind string

const (
	TargetEntry TargetKind = "entry"
	TargetNPC   TargetKind = "npc"
)

// Target is the surveyor's destination: exactly one of Entry or NPC is set, matching Kind.
type Target struct {
	Kind  TargetKind
	Entry *catalog.Entry
	NPC   *catalog.NPC
}

// EntryTarget builds a Target for an entry.
func EntryTarget(e *catalog.Entry) Target {
	return Target{Kind: TargetEntry, Entry: e}
}

// NPCTarget builds a Target for an NPC.
func NPCTarget(n *catalog.NPC) Target {
	return Target{Kind: TargetNPC, NPC: n}
}

// ID returns the entry or NPC id.
func (t Target) ID() string {
	switch t.Kind {
	case TargetEntry:
		return t.Entry.ID
	case TargetNPC:
		return t.NPC.ID
	}
	return ""
}
