package explorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const unknownRegion = "Unknown region"

// Status renders a one-line description of what the surveyor is doing.
func (e *Engine) Status(st *State) string {
	text := "Surveyor calibrating instruments..."
	switch ph := st.phase.(type) {
	case *Travel:
		switch ph.Target.Kind {
		case TargetNPC:
			npc := ph.Target.NPC
			detail := ""
			if HasNewDialogue(npc, st) {
				detail = " - new exchange"
			}
			text = fmt.Sprintf("Visiting %s%s (%s)", npc.Name, detail, regionOf(npc.Location))
		case TargetEntry:
			entry := ph.Target.Entry
			text = fmt.Sprintf("En route to %s%s (%s)",
				entry.Title, variantDetail(entry.Variant.Details()), regionOf(entry.Location))
		}
	case *Collecting:
		text = fmt.Sprintf("Cataloguing %s%s%s",
			ph.Entry.Title, variantDetail(ph.Entry.Variant.Details()), secondsSuffix(ph.Pause.Remaining))
	case *Conversing:
		title := ""
		if ph.Title != "" {
			title = " - " + ph.Title
		}
		text = fmt.Sprintf("Trading notes with %s%s%s", ph.NPC.Name, title, secondsSuffix(ph.Pause.Remaining))
	case *Idle:
		switch {
		case ph.Pause.Remaining > 0 && ph.Reason == "shelter":
			text = "Sheltering from the weather" + secondsSuffix(ph.Pause.Remaining)
		case ph.Pause.Remaining > 0 && ph.Reason == "encounter":
			text = "Held up on the road" + secondsSuffix(ph.Pause.Remaining)
		default:
			text = "Surveyor selecting the next waypoint..."
		}
	}
	if sc := st.Scene; sc != nil {
		if d := sc.Template.Descriptor(); d != "" {
			text += " • " + d + secondsSuffix(sc.Remaining)
		}
	}
	return text
}

// SceneLine describes the active scene, or reports calm conditions.
func SceneLine(st *State) string {
	sc := st.Scene
	if sc == nil {
		return "No anomalies detected."
	}
	d := sc.Template.Descriptor()
	if d == "" {
		d = "Field conditions shifting"
	}
	return d + secondsSuffix(sc.Remaining)
}

// ToneLabel turns a tone tag like "quiet_awe" into "Quiet Awe".
func ToneLabel(tone string) string {
	if tone == "" {
		tone = DefaultTone
	}
	parts := strings.FieldsFunc(tone, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(parts, " "))
}

func regionOf(loc *catalog.Location) string {
	if loc == nil || loc.Region == "" {
		return unknownRegion
	}
	return loc.Region
}

func variantDetail(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return " - " + strings.Join(parts, " • ")
}

func secondsSuffix(remaining float64) string {
	s := math.Ceil(math.Max(0, remaining))
	if s <= 0 {
		return ""
	}
	return fmt.Sprintf(" (%ds)", int(s))
}
