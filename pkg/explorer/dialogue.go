package explorer

import (
	"slices"
	"sort"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
)

// DialogueChoice is the dialogue SelectDialogue settled on.
type DialogueChoice struct {
	Dialogue *catalog.Dialogue
	Key      string // "npc:dialogue", the unit tracked in State.DialogueSeen
	IsNew    bool   // unseen and not a fallback
}

// DialogueKey returns the composite key under which a dialogue is marked seen.
func DialogueKey(npc *catalog.NPC, d *catalog.Dialogue) string {
	return npc.ID + ":" + d.ID
}

// Unlocked reports whether every entry d requires has been collected.
func Unlocked(d *catalog.Dialogue, collected map[string]bool) bool {
	for _, id := range d.Requires {
		if !collected[id] {
			return false
		}
	}
	return true
}

type scoredDialogue struct {
	dialogue *catalog.Dialogue
	key      string
	order    int
	seen     bool
	fallback bool

	matchesLast   bool
	routeMatches  int
	recentIndex   int // collection steps since the newest matching requirement; -1 if none
	requiresCount int
}

func (s scoredDialogue) relevant() bool {
	return s.matchesLast || s.routeMatches > 0
}

// better orders candidates: last-collected match, route matches, recency, specificity,
// non-fallback, unseen, then declaration order.
func (s scoredDialogue) better(o scoredDialogue) bool {
	if s.matchesLast != o.matchesLast {
		return s.matchesLast
	}
	if s.routeMatches != o.routeMatches {
		return s.routeMatches > o.routeMatches
	}
	if sr, or := recency(s.recentIndex), recency(o.recentIndex); sr != or {
		return sr < or
	}
	if s.requiresCount != o.requiresCount {
		return s.requiresCount > o.requiresCount
	}
	if s.fallback != o.fallback {
		return !s.fallback
	}
	if s.seen != o.seen {
		return !s.seen
	}
	return s.order < o.order
}

func recency(i int) int {
	if i < 0 {
		return int(^uint(0) >> 1)
	}
	return i
}

func scoreDialogues(npc *catalog.NPC, st *State) []scoredDialogue {
	var out []scoredDialogue
	for i := range npc.Dialogues {
		d := &npc.Dialogues[i]
		if !Unlocked(d, st.Collected) {
			continue
		}
		s := scoredDialogue{
			dialogue:      d,
			key:           DialogueKey(npc, d),
			order:         i,
			fallback:      d.Fallback,
			recentIndex:   -1,
			requiresCount: len(d.Requires),
		}
		s.seen = st.DialogueSeen[s.key]
		last := st.LastCollectedID
		s.matchesLast = last != "" && st.RouteCollected[last] && slices.Contains(d.Requires, last)
		for _, id := range d.Requires {
			if st.RouteCollected[id] {
				s.routeMatches++
			}
		}
		for j := len(st.RouteSequence) - 1; j >= 0; j-- {
			if slices.Contains(d.Requires, st.RouteSequence[j]) {
				s.recentIndex = len(st.RouteSequence) - 1 - j
				break
			}
		}
		out = append(out, s)
	}
	return out
}

func bestOf(candidates []scoredDialogue, keep func(scoredDialogue) bool) (scoredDialogue, bool) {
	var pool []scoredDialogue
	for _, c := range candidates {
		if keep(c) {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return scoredDialogue{}, false
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].better(pool[j]) })
	return pool[0], true
}

// SelectDialogue picks what npc says next given what the surveyor has collected and
// heard. It returns nil when nothing is unlocked. Unless preview is set, the choice is
// marked seen.
//
// Policy, first match wins: unseen and route-relevant; unseen non-fallback; any
// route-relevant; the NPC's fallback; the best-ranked of the rest.
func SelectDialogue(npc *catalog.NPC, st *State, preview bool) *DialogueChoice {
	if npc == nil || st == nil {
		return nil
	}
	scored := scoreDialogues(npc, st)
	if len(scored) == 0 {
		return nil
	}

	policies := []func(scoredDialogue) bool{
		func(s scoredDialogue) bool { return !s.seen && s.relevant() },
		func(s scoredDialogue) bool { return !s.seen && !s.fallback },
		scoredDialogue.relevant,
		func(s scoredDialogue) bool { return s.fallback },
		func(scoredDialogue) bool { return true },
	}
	var choice scoredDialogue
	for _, keep := range policies {
		if c, ok := bestOf(scored, keep); ok {
			choice = c
			break
		}
	}

	if !preview {
		st.DialogueSeen[choice.key] = true
	}
	return &DialogueChoice{
		Dialogue: choice.dialogue,
		Key:      choice.key,
		IsNew:    !choice.seen && !choice.fallback,
	}
}

// HasNewDialogue reports whether npc would currently surface unseen, non-fallback lore.
func HasNewDialogue(npc *catalog.NPC, st *State) bool {
	c := SelectDialogue(npc, st, true)
	return c != nil && c.IsNew
}
