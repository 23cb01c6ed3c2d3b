package explorer

import (
	"math"
	"strings"

	"github.com/jwebster45206/atlas-engine/pkg/rng"
	"github.com/jwebster45206/atlas-engine/pkg/tuning"
)

// DefaultTone is the tone of a surveyor no tag has touched yet.
const DefaultTone = "steady"

// Emphasis colours a mood line in the presentation.
type Emphasis string

const (
	EmphasisPositive Emphasis = "positive"
	EmphasisNegative Emphasis = "negative"
	EmphasisNeutral  Emphasis = "neutral"
)

// MoodLine is a narrative line waiting for, or holding, the mood display.
type MoodLine struct {
	Text      string   `json:"text"`
	Tone      string   `json:"tone"`
	Emphasis  Emphasis `json:"emphasis"`
	Duration  float64  `json:"duration"`
	Remaining float64  `json:"remaining"`
}

// MoodContext fills the placeholders of a mood line template.
type MoodContext struct {
	Source string // entry or dialogue title
	Zone   string
	NPC    string
	Kind   string // "discovery", "dialogue"
}

// Mood is the surveyor's emotional state: a bounded scalar plus a FIFO of lines.
type Mood struct {
	Value       float64
	Tone        string
	Queue       []MoodLine
	Display     *MoodLine
	IdleTimer   float64
	LastTag     string
	LastContext MoodContext
}

func newMood(src rng.Source, t tuning.Mood) Mood {
	return Mood{
		Tone:      DefaultTone,
		IdleTimer: rng.Between(src, t.IdleStartMin, t.IdleStartMax),
	}
}

// FormatMoodLine substitutes {source}, {zone}, {npc} and {tone} in a template.
func FormatMoodLine(template string, ctx MoodContext, tone string) string {
	if template == "" {
		return ""
	}
	source := ctx.Source
	if source == "" {
		source = "the route"
	}
	zone := ctx.Zone
	if zone == "" {
		zone = "the kingdom"
	}
	npc := ctx.NPC
	if npc == "" {
		npc = "a local"
	}
	r := strings.NewReplacer("{source}", source, "{zone}", zone, "{npc}", npc, "{tone}", tone)
	return r.Replace(template)
}

func (e *Engine) queueMoodLine(st *State, line MoodLine) {
	if line.Text == "" {
		return
	}
	st.Mood.Queue = append(st.Mood.Queue, line)
	if st.Mood.Display == nil {
		e.promoteMoodLine(st)
	}
}

func (e *Engine) promoteMoodLine(st *State) {
	m := &st.Mood
	if m.Display != nil || len(m.Queue) == 0 {
		return
	}
	next := m.Queue[0]
	m.Queue = m.Queue[1:]
	if next.Tone == "" {
		next.Tone = m.Tone
	}
	next.Remaining = math.Max(e.tuning.Mood.MinLine, next.Duration)
	m.Display = &next
	st.notify(Notice{Kind: NoticeMood, Title: next.Tone, Text: next.Text})
}

// applyMoodTag nudges the mood by the tag's delta and queues one of its lines.
// Unknown tags are ignored.
func (e *Engine) applyMoodTag(st *State, tag string, ctx MoodContext) {
	effect, ok := e.catalog.MoodEffects[tag]
	if !ok {
		return
	}
	t := e.tuning.Mood
	m := &st.Mood
	m.Value = clamp(m.Value+effect.Delta, t.Min, t.Max)
	if effect.Tone != "" {
		m.Tone = effect.Tone
	}
	m.LastTag = tag
	m.LastContext = ctx

	if template, ok := rng.Pick(e.rng, effect.Messages); ok {
		emphasis := EmphasisNeutral
		switch {
		case effect.Delta > 0:
			emphasis = EmphasisPositive
		case effect.Delta < 0:
			emphasis = EmphasisNegative
		}
		e.queueMoodLine(st, MoodLine{
			Text:     FormatMoodLine(template, ctx, m.Tone),
			Tone:     m.Tone,
			Emphasis: emphasis,
			Duration: t.TagLine,
		})
	}
	m.IdleTimer = rng.Between(e.rng, t.IdleTagMin, t.IdleTagMax)
}

func (e *Engine) updateMood(st *State, dt float64) {
	t := e.tuning.Mood
	m := &st.Mood
	if m.Display != nil {
		m.Display.Remaining -= dt
		if m.Display.Remaining <= 0 {
			m.Display = nil
		}
	}
	if m.Display == nil {
		e.promoteMoodLine(st)
	}

	m.IdleTimer = math.Max(0, m.IdleTimer-dt)
	if m.IdleTimer > 0 {
		return
	}
	prompts := e.catalog.TonePrompts[m.Tone]
	if len(prompts) == 0 {
		prompts = e.catalog.TonePrompts[DefaultTone]
	}
	if template, ok := rng.Pick(e.rng, prompts); ok {
		e.queueMoodLine(st, MoodLine{
			Text:     FormatMoodLine(template, MoodContext{Zone: m.LastContext.Zone}, m.Tone),
			Tone:     m.Tone,
			Emphasis: EmphasisNeutral,
			Duration: t.IdleLine,
		})
	}
	m.IdleTimer = rng.Between(e.rng, t.IdleNextMin, t.IdleNextMax)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
