package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaSource string

// Severity grades a validation problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is one finding from Validate.
type Problem struct {
	Severity Severity
	Path     string
	Message  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s", p.Severity, p.Path, p.Message)
}

// CompileSchema compiles the embedded catalog JSON schema.
func CompileSchema() (*jsonschema.Schema, error) {
	s, err := jsonschema.CompileString("catalog.schema.json", schemaSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return s, nil
}

// ValidateSchema checks raw catalog JSON against the embedded schema.
func ValidateSchema(data []byte) error {
	s, err := CompileSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Validate checks cross references. Errors break simulation semantics; warnings are
// degenerate data the simulation tolerates.
func (c *Catalog) Validate() []Problem {
	v := &validator{c: c}
	v.checkEntries()
	v.checkNPCs()
	v.checkScenes()
	v.checkMoodTables()
	return v.problems
}

type validator struct {
	c        *Catalog
	problems []Problem
}

func (v *validator) add(sev Severity, path, format string, args ...any) {
	v.problems = append(v.problems, Problem{Severity: sev, Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) entryIDs() []string {
	ids := make([]string, 0, len(v.c.Entries))
	for _, e := range v.c.Entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func (v *validator) moodTags() []string {
	tags := make([]string, 0, len(v.c.MoodEffects))
	for tag := range v.c.MoodEffects {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (v *validator) checkMoodTag(path, tag string) {
	if tag == "" {
		return
	}
	if _, ok := v.c.MoodEffects[tag]; !ok {
		v.add(SeverityError, path, "unknown mood tag %q%s", tag, didYouMean(tag, v.moodTags()))
	}
}

func (v *validator) checkEntries() {
	seen := make(map[string]bool, len(v.c.Entries))
	for i, e := range v.c.Entries {
		path := fmt.Sprintf("entries[%d]", i)
		if e.ID == "" {
			v.add(SeverityError, path, "missing id")
			continue
		}
		if seen[e.ID] {
			v.add(SeverityError, path, "duplicate entry id %q", e.ID)
		}
		seen[e.ID] = true
		if e.Location == nil {
			v.add(SeverityWarning, path, "entry %q has no location and will never be visited", e.ID)
		} else if !inPlane(e.Location) {
			v.add(SeverityError, path, "entry %q location (%.1f, %.1f) outside 0-100", e.ID, e.Location.X, e.Location.Y)
		}
		v.checkMoodTag(path+".mood_tag", e.MoodTag)
	}
}

func (v *validator) checkNPCs() {
	ids := v.entryIDs()
	seen := make(map[string]bool, len(v.c.NPCs))
	for i, n := range v.c.NPCs {
		path := fmt.Sprintf("npcs[%d]", i)
		if n.ID == "" {
			v.add(SeverityError, path, "missing id")
			continue
		}
		if seen[n.ID] {
			v.add(SeverityError, path, "duplicate npc id %q", n.ID)
		}
		seen[n.ID] = true
		if n.Location == nil {
			v.add(SeverityWarning, path, "npc %q has no location and will never be visited", n.ID)
		} else if !inPlane(n.Location) {
			v.add(SeverityError, path, "npc %q location (%.1f, %.1f) outside 0-100", n.ID, n.Location.X, n.Location.Y)
		}

		hasFallback := false
		dialogueIDs := make(map[string]bool, len(n.Dialogues))
		for j, d := range n.Dialogues {
			dpath := fmt.Sprintf("%s.dialogues[%d]", path, j)
			if dialogueIDs[d.ID] {
				v.add(SeverityError, dpath, "duplicate dialogue id %q", d.ID)
			}
			dialogueIDs[d.ID] = true
			if d.Fallback {
				hasFallback = true
			}
			if len(d.Lines) == 0 {
				v.add(SeverityWarning, dpath, "dialogue %q has no lines", d.ID)
			}
			for _, req := range d.Requires {
				if _, ok := v.c.Entry(req); !ok {
					v.add(SeverityError, dpath, "requires unknown entry %q%s", req, didYouMean(req, ids))
				}
			}
			v.checkMoodTag(dpath+".mood_tag", d.MoodTag)
		}
		if len(n.Dialogues) > 0 && !hasFallback {
			v.add(SeverityWarning, path, "npc %q has no fallback dialogue", n.ID)
		}
	}
}

func (v *validator) checkScenes() {
	var categories, regions []string
	seenCat, seenRegion := map[string]bool{}, map[string]bool{}
	for _, e := range v.c.Entries {
		if e.Category != "" && !seenCat[e.Category] {
			seenCat[e.Category] = true
			categories = append(categories, e.Category)
		}
		if e.Location != nil && e.Location.Region != "" && !seenRegion[e.Location.Region] {
			seenRegion[e.Location.Region] = true
			regions = append(regions, e.Location.Region)
		}
	}
	for _, n := range v.c.NPCs {
		if n.Location != nil && n.Location.Region != "" && !seenRegion[n.Location.Region] {
			seenRegion[n.Location.Region] = true
			regions = append(regions, n.Location.Region)
		}
	}

	seen := make(map[string]bool, len(v.c.SceneEvents))
	for i, s := range v.c.SceneEvents {
		path := fmt.Sprintf("scene_events[%d]", i)
		if seen[s.ID] {
			v.add(SeverityError, path, "duplicate scene id %q", s.ID)
		}
		seen[s.ID] = true
		switch s.Type {
		case ScenePhenomenon, SceneWeather, SceneEncounter, SceneBloom:
		default:
			v.add(SeverityError, path, "unknown scene type %q", s.Type)
		}
		if s.RedirectCategory != "" && !seenCat[s.RedirectCategory] {
			v.add(SeverityWarning, path, "redirect category %q matches no entry%s", s.RedirectCategory, didYouMean(s.RedirectCategory, categories))
		}
		if s.RedirectRegion != "" && !seenRegion[s.RedirectRegion] {
			v.add(SeverityWarning, path, "redirect region %q matches nothing%s", s.RedirectRegion, didYouMean(s.RedirectRegion, regions))
		}
		if s.Type == SceneBloom && !hasPlant(v.c) {
			v.add(SeverityWarning, path, "bloom scene %q has no plant entries to affect", s.ID)
		}
		v.checkMoodTag(path+".mood_tag", s.MoodTag)
	}
}

func (v *validator) checkMoodTables() {
	ids := v.entryIDs()
	for _, id := range sortedKeys(v.c.EntryMoodTags) {
		path := "entry_mood_tags." + id
		if _, ok := v.c.Entry(id); !ok {
			v.add(SeverityWarning, path, "unknown entry %q%s", id, didYouMean(id, ids))
		}
		v.checkMoodTag(path, v.c.EntryMoodTags[id])
	}
	for _, key := range sortedKeys(v.c.DialogueMoodTags) {
		path := "dialogue_mood_tags." + key
		npcID, _, ok := strings.Cut(key, ":")
		if !ok {
			v.add(SeverityError, path, "key %q must be npc:dialogue", key)
		} else if _, found := v.c.NPC(npcID); !found {
			v.add(SeverityWarning, path, "unknown npc %q", npcID)
		}
		v.checkMoodTag(path, v.c.DialogueMoodTags[key])
	}
	for tag, effect := range v.c.MoodEffects {
		if effect.Tone == "" {
			v.add(SeverityWarning, "mood_effects."+tag, "no tone set")
		}
	}
}

func hasPlant(c *Catalog) bool {
	for i := range c.Entries {
		if c.Entries[i].IsPlant() {
			return true
		}
	}
	return false
}

func inPlane(l *Location) bool {
	return l.X >= 0 && l.X <= 100 && l.Y >= 0 && l.Y <= 100
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// didYouMean suggests the closest candidate within an edit-distance budget scaled to
// the candidate's length.
func didYouMean(token string, candidates []string) string {
	best, bestDist := "", -1
	for _, cand := range candidates {
		dist := editDistance(strings.ToLower(token), strings.ToLower(cand))
		if dist > suggestionLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

// editDistance is the Levenshtein distance, except that a single swap of adjacent
// letters counts as one edit.
func editDistance(a, b string) int {
	if isAdjacentSwap(a, b) {
		return 1
	}
	return levenshtein.ComputeDistance(a, b)
}

func isAdjacentSwap(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}
	i := 0
	for i < len(ra) && ra[i] == rb[i] {
		i++
	}
	if i+1 >= len(ra) || ra[i] != rb[i+1] || ra[i+1] != rb[i] {
		return false
	}
	return string(ra[i+2:]) == string(rb[i+2:])
}

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 10:
		return 2
	default:
		return 3
	}
}
