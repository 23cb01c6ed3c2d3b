package explorer

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/atlas-engine/pkg/catalog"
)

// Point is a position in the normalized map plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Redirect is a one-shot override for the next target pick, left behind by a scene.
type Redirect struct {
	Type     catalog.RedirectType `json:"type"`
	Category string               `json:"category,omitempty"`
	Region   string               `json:"region,omitempty"`
	Reason   string               `json:"reason,omitempty"` // "shelter", "encounter"
}

// Influence is what an active scene exerts on targeting and pace.
type Influence struct {
	NPCBias         float64 `json:"npc_bias"`
	SpeedMultiplier float64 `json:"speed_multiplier"`
}

// ActiveScene is a live scene event.
type ActiveScene struct {
	Template  *catalog.SceneTemplate
	Remaining float64
	Influence Influence
}

// Dormancy is an entry temporarily hidden from the map by a bloom scene.
type Dormancy struct {
	Entry     *catalog.Entry
	Remaining float64
	Duration  float64
	SceneID   string
}

// State is the surveyor's mutable aggregate. Only Engine mutates it.
type State struct {
	ID uuid.UUID

	X, Y      float64
	BaseSpeed float64
	Speed     float64

	phase Phase

	Collected       map[string]bool // every entry ever visited; never shrinks
	RouteCollected  map[string]bool // visited since the last conversation
	RouteSequence   []string
	LastCollectedID string
	DialogueSeen    map[string]bool // "npc:dialogue" keys; never shrinks
	TotalCollected  int             // visits, not unique entries

	Scene           *ActiveScene
	SceneCooldown   float64
	lastSceneID     string
	PendingRedirect *Redirect

	Mood    Mood
	Log     []LogEntry // most recent first
	Path    []Point
	Dormant map[string]*Dormancy
	Markers []Marker
	NPCs    []*NPCState

	Zone    string
	Elapsed float64

	notices   []Notice
	markerSeq int
	logLimit  int
	pathLimit int
	pathStep  float64
}

// Phase returns the current phase.
func (s *State) Phase() Phase { return s.phase }

// PhaseKind returns the kind of the current phase.
func (s *State) PhaseKind() PhaseKind { return s.phase.Kind() }

// Target returns the destination while travelling, nil otherwise.
func (s *State) Target() *Target {
	if t, ok := s.phase.(*Travel); ok {
		return &t.Target
	}
	return nil
}

// PauseRemaining returns the seconds left on the current phase's pause.
func (s *State) PauseRemaining() float64 {
	if p := pauseOf(s.phase); p != nil {
		return p.Remaining
	}
	return 0
}

// IsDormant reports whether an entry is currently hidden by bloom dormancy.
func (s *State) IsDormant(id string) bool {
	_, ok := s.Dormant[id]
	return ok
}

// DormantIDs returns the hidden entry ids in sorted order.
func (s *State) DormantIDs() []string {
	ids := make([]string, 0, len(s.Dormant))
	for id := range s.Dormant {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NPCState looks up the runtime state of an NPC.
func (s *State) NPCState(id string) *NPCState {
	for _, n := range s.NPCs {
		if n.NPC.ID == id {
			return n
		}
	}
	return nil
}

// DrainNotices returns and clears the notices emitted since the last drain.
func (s *State) DrainNotices() []Notice {
	out := s.notices
	s.notices = nil
	return out
}

func (s *State) notify(n Notice) {
	n.Elapsed = s.Elapsed
	s.notices = append(s.notices, n)
}

func (s *State) pushLog(e LogEntry) {
	e.Elapsed = s.Elapsed
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	s.Log = append([]LogEntry{e}, s.Log...)
	if len(s.Log) > s.logLimit {
		s.Log = s.Log[:s.logLimit]
	}
}

// recordPosition appends the current position to the trail when it moved far enough,
// otherwise it slides the last point along.
func (s *State) recordPosition(force bool) {
	p := Point{X: s.X, Y: s.Y}
	if n := len(s.Path); n > 0 && !force {
		last := s.Path[n-1]
		if math.Hypot(s.X-last.X, s.Y-last.Y) < s.pathStep {
			s.Path[n-1] = p
			return
		}
	}
	s.Path = append(s.Path, p)
	if len(s.Path) > s.pathLimit {
		s.Path = s.Path[len(s.Path)-s.pathLimit:]
	}
}

func (s *State) clearRoute() {
	clear(s.RouteCollected)
	s.RouteSequence = s.RouteSequence[:0]
}
