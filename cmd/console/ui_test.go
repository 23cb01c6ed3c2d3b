package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/explorer"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
	"github.com/jwebster45206/atlas-engine/pkg/tuning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUI(t *testing.T) AtlasUI {
	t.Helper()
	cat := &catalog.Catalog{
		Entries: []catalog.Entry{
			{ID: "tide-glass", Title: "Tide Glass", Category: "Curio", Location: &catalog.Location{X: 55, Y: 50}},
		},
		NPCs: []catalog.NPC{
			{ID: "jansa", Name: "Jansa", Location: &catalog.Location{X: 45, Y: 50}},
		},
	}
	cat.Index()
	tune := tuning.Default()
	tune.Wander.Enabled = false
	tune.Scene.RollChance = 0
	engine := explorer.NewEngine(cat, explorer.WithRNG(rng.NewSeeded(7)), explorer.WithTuning(tune))

	m := NewAtlasUI(engine, 50*time.Millisecond)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(AtlasUI)
}

func press(t *testing.T, m AtlasUI, msg tea.KeyMsg) AtlasUI {
	t.Helper()
	model, _ := m.Update(msg)
	return model.(AtlasUI)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAtlasUI_PauseStopsTheClock(t *testing.T) {
	m := testUI(t)

	model, cmd := m.Update(frameMsg(time.Now()))
	m = model.(AtlasUI)
	assert.NotNil(t, cmd, "frames keep ticking")
	assert.InDelta(t, 0.05, m.state.Elapsed, 1e-9)

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.paused)

	model, _ = m.Update(frameMsg(time.Now()))
	m = model.(AtlasUI)
	assert.InDelta(t, 0.05, m.state.Elapsed, 1e-9)
}

func TestAtlasUI_TimeScale(t *testing.T) {
	m := testUI(t)
	m = press(t, m, runes("+"))
	m = press(t, m, runes("+"))
	assert.Equal(t, 4.0, timeScales[m.scaleIdx])

	model, _ := m.Update(frameMsg(time.Now()))
	m = model.(AtlasUI)
	assert.InDelta(t, 0.2, m.state.Elapsed, 1e-9)

	for i := 0; i < 10; i++ {
		m = press(t, m, runes("-"))
	}
	assert.Equal(t, 0, m.scaleIdx, "scale clamps at the slowest setting")
}

func TestAtlasUI_ResetStartsFreshExpedition(t *testing.T) {
	m := testUI(t)
	for i := 0; i < 20; i++ {
		model, _ := m.Update(frameMsg(time.Now()))
		m = model.(AtlasUI)
	}
	before := m.state.ID

	m = press(t, m, runes("r"))
	assert.NotEqual(t, before, m.state.ID)
	assert.Zero(t, m.state.Elapsed)
	assert.False(t, m.camera.Manual)
}

func TestAtlasUI_PanAndFollow(t *testing.T) {
	m := testUI(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, m.camera.Manual)

	m = press(t, m, runes("f"))
	assert.False(t, m.camera.Manual)
}

func TestAtlasUI_QuitNeedsConfirmation(t *testing.T) {
	m := testUI(t)
	m = press(t, m, runes("q"))
	require.True(t, m.showQuitModal)
	assert.Contains(t, m.View(), "End Expedition?")

	m = press(t, m, runes("n"))
	assert.False(t, m.showQuitModal)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, m.showQuitModal)
	_, cmd := m.Update(runes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderMap(t *testing.T) {
	m := testUI(t)
	out := renderMap(m.engine, m.state, m.camera, 60, 20)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 20)
	assert.Contains(t, out, "◆")
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "o")
}

func TestPlainLog_OldestFirst(t *testing.T) {
	entries := []explorer.LogEntry{
		{Kind: explorer.LogDialogue, Title: "Jansa", DialogueTitle: "Warm Greeting", Lines: []string{"Jansa nods."}, IsNew: true, Elapsed: 30},
		{Kind: explorer.LogCollection, Title: "Tide Glass", Summary: "Cold to the touch.", Variant: &catalog.Variant{Rarity: "rare"}, Elapsed: 12},
	}

	out := plainLog(entries)

	assert.Equal(t,
		"[12s] Tide Glass [rare]\n  Cold to the touch.\n[30s] Jansa: Warm Greeting (new)\n  Jansa nods.\n",
		out)
}

func TestMoodBar(t *testing.T) {
	assert.Equal(t, 11, len([]rune(stripped(moodBar(0, 11)))))
	assert.True(t, strings.HasPrefix(stripped(moodBar(-1, 11)), "◆"))
	assert.True(t, strings.HasSuffix(stripped(moodBar(1, 11)), "◆"))
}

// stripped drops ANSI escapes lipgloss may add when a colour profile is detected.
func stripped(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && r == 'm':
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
