package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/atlas-engine/pkg/explorer"
	"github.com/jwebster45206/atlas-engine/pkg/tuning"
	"github.com/muesli/reflow/wordwrap"
)

const (
	// World size in terminal cells. The map plane is 0-100 on both axes; cells are
	// roughly twice as tall as they are wide, so the world is wider than it is tall.
	worldCols = 220
	worldRows = 90

	logHeight = 9
	panStep   = 6.0
)

var timeScales = []float64{0.5, 1, 2, 4, 8}

// AtlasUI is the BubbleTea model that runs the living atlas.
// https://github.com/charmbracelet/bubbletea
type AtlasUI struct {
	engine *explorer.Engine
	state  *explorer.State
	camera *explorer.Camera
	frame  time.Duration

	logViewport  viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int

	paused    bool
	scaleIdx  int
	flash     string // one-line feedback under the map
	lastLogID string

	// Quit confirmation state
	showQuitModal bool
}

type frameMsg time.Time

var (
	mapPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	surveyorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	trailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("136")) // dim gold

	entryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	collectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	npcNewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")). // bright yellow
			Bold(true)

	markerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	zoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	negativeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

// NewAtlasUI builds the model around a fresh surveyor.
func NewAtlasUI(engine *explorer.Engine, frame time.Duration) AtlasUI {
	logVp := viewport.New(60, logHeight)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(30, 20)

	st := engine.NewState()
	cam := explorer.NewCamera(engine.Tuning().Camera, worldCols, worldRows, 60, 20)
	cam.Follow(st.X, st.Y, true)

	return AtlasUI{
		engine:       engine,
		state:        st,
		camera:       cam,
		frame:        frame,
		logViewport:  logVp,
		metaViewport: metaVp,
		scaleIdx:     1,
	}
}

func (m AtlasUI) Init() tea.Cmd {
	return m.tick()
}

func (m AtlasUI) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m AtlasUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refresh()

	case frameMsg:
		if !m.paused {
			m.advance(m.frame.Seconds() * timeScales[m.scaleIdx])
		}
		m.camera.Follow(m.state.X, m.state.Y, false)
		m.refresh()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	m.logViewport, vpCmd = m.logViewport.Update(msg)
	return m, vpCmd
}

// advance steps the engine by dt, in frame-sized slices so time scaling never exceeds
// the engine's own step clamp.
func (m *AtlasUI) advance(dt float64) {
	step := m.frame.Seconds()
	for dt > 1e-9 {
		d := math.Min(step, dt)
		m.engine.Step(m.state, d)
		dt -= d
	}
	for _, n := range m.state.DrainNotices() {
		if n.Kind == explorer.NoticeZone {
			m.flash = "Entering " + n.Title
		}
	}
}

func (m AtlasUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.showQuitModal = true
		return m, nil
	case tea.KeyUp:
		m.camera.Pan(0, -panStep)
	case tea.KeyDown:
		m.camera.Pan(0, panStep)
	case tea.KeyLeft:
		m.camera.Pan(-panStep*2, 0)
	case tea.KeyRight:
		m.camera.Pan(panStep*2, 0)
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
	case tea.KeySpace:
		m.paused = !m.paused
		if m.paused {
			m.flash = "Paused"
		} else {
			m.flash = "Resumed"
		}
	default:
		switch msg.String() {
		case "q", "Q":
			m.showQuitModal = true
			return m, nil
		case "+", "=":
			if m.scaleIdx < len(timeScales)-1 {
				m.scaleIdx++
			}
			m.flash = fmt.Sprintf("Time x%g", timeScales[m.scaleIdx])
		case "-", "_":
			if m.scaleIdx > 0 {
				m.scaleIdx--
			}
			m.flash = fmt.Sprintf("Time x%g", timeScales[m.scaleIdx])
		case "f", "F":
			m.camera.Recenter(m.state.X, m.state.Y)
			m.flash = "Following surveyor"
		case "r", "R":
			m.state = m.engine.NewState()
			m.camera.Recenter(m.state.X, m.state.Y)
			m.lastLogID = ""
			m.flash = "New expedition " + m.state.ID.String()[:8]
		case "c", "C":
			if err := clipboard.WriteAll(plainLog(m.state.Log)); err != nil {
				m.flash = "Copy failed: " + err.Error()
			} else {
				m.flash = fmt.Sprintf("Copied %d log entries", len(m.state.Log))
			}
		}
	}
	m.refresh()
	return m, nil
}

func (m AtlasUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case frameMsg:
		// The world keeps turning behind the modal.
		if !m.paused {
			m.advance(m.frame.Seconds() * timeScales[m.scaleIdx])
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = false
			return m, nil
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m AtlasUI) mapSize() (int, int) {
	mapWidth := int(float64(m.width)*0.7) - 3
	mapHeight := m.height - logHeight - 5
	return max(mapWidth, 10), max(mapHeight, 5)
}

func (m *AtlasUI) layout() {
	mapWidth, mapHeight := m.mapSize()
	metaWidth := m.width - mapWidth - 6
	m.camera.Resize(float64(mapWidth), float64(mapHeight))
	m.camera.Follow(m.state.X, m.state.Y, true)
	m.logViewport.Width = mapWidth
	m.logViewport.Height = logHeight
	m.metaViewport.Width = max(metaWidth, 10)
	m.metaViewport.Height = max(m.height-2, 5)
}

// refresh rebuilds the side panel and, when a new entry arrived, the log.
func (m *AtlasUI) refresh() {
	m.metaViewport.SetContent(writeMetadata(m.engine, m.state, m.metaViewport.Width, m.paused, timeScales[m.scaleIdx]))

	id := ""
	if len(m.state.Log) > 0 {
		id = m.state.Log[0].ID
	}
	if id != m.lastLogID || id == "" {
		m.lastLogID = id
		m.logViewport.SetContent(writeLog(m.state.Log, m.logViewport.Width))
		m.logViewport.GotoTop()
	}
}

func writeMetadata(e *explorer.Engine, st *explorer.State, width int, paused bool, scale float64) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("SURVEYOR") + "\n\n")
	b.WriteString(wordwrap.String(e.Status(st), width) + "\n\n")

	zone := st.Zone
	if zone == "" {
		zone = "Open country"
	}
	b.WriteString("Zone:\n" + zone + "\n\n")
	b.WriteString(fmt.Sprintf("Finds:\n%d visits, %d unique\n\n", st.TotalCollected, len(st.Collected)))

	b.WriteString("Mood: " + explorer.ToneLabel(st.Mood.Tone) + "\n")
	b.WriteString(moodBar(normalizeMood(st.Mood.Value, e.Tuning().Mood), max(width-2, 6)) + "\n")
	if d := st.Mood.Display; d != nil {
		b.WriteString(emphasisStyle(d.Emphasis).Render(wordwrap.String(d.Text, width)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Conditions:\n" + wordwrap.String(explorer.SceneLine(st), width) + "\n\n")

	tel := e.Telemetry(st)
	b.WriteString(titleStyle.Render("TELEMETRY") + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", tel.Clock, tel.Locale))
	if tel.Note != "" {
		b.WriteString(promptStyle.Render(wordwrap.String(tel.Note, width)) + "\n")
	}
	b.WriteString(fmt.Sprintf("Wind %.1f kn  Hum %.0f%%\n", tel.Wind, tel.Humidity))
	b.WriteString(fmt.Sprintf("Temp %.1f°C  Aurora %.0f%%\n\n", tel.Temperature, tel.Aurora))

	clock := fmt.Sprintf("Time x%g", scale)
	if paused {
		clock += " (paused)"
	}
	b.WriteString(promptStyle.Render(clock) + "\n\n")
	b.WriteString("Commands:\n")
	b.WriteString("• Space: Pause\n")
	b.WriteString("• +/-: Time scale\n")
	b.WriteString("• Arrows: Pan, F: Follow\n")
	b.WriteString("• R: New expedition\n")
	b.WriteString("• C: Copy log\n")
	b.WriteString("• Q: Quit\n")
	return b.String()
}

func emphasisStyle(e explorer.Emphasis) lipgloss.Style {
	switch e {
	case explorer.EmphasisPositive:
		return positiveStyle
	case explorer.EmphasisNegative:
		return negativeStyle
	default:
		return promptStyle
	}
}

// normalizeMood maps the mood scalar onto [-1, 1] around zero.
func normalizeMood(v float64, t tuning.Mood) float64 {
	switch {
	case v > 0 && t.Max > 0:
		return math.Min(v/t.Max, 1)
	case v < 0 && t.Min < 0:
		return -math.Min(v/t.Min, 1)
	}
	return 0
}

// moodBar draws value in [-1, 1] as a bar with a centre tick.
func moodBar(value float64, width int) string {
	mid := width / 2
	pos := mid + int(math.Round(value*float64(mid)))
	var bar strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == pos:
			bar.WriteString("◆")
		case i == mid:
			bar.WriteString("│")
		default:
			bar.WriteString("─")
		}
	}
	return separatorStyle.Render(bar.String())
}

func writeLog(entries []explorer.LogEntry, width int) string {
	if len(entries) == 0 {
		return promptStyle.Render("The field journal is empty.")
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(titleStyle.Render(logHeadline(e)) + "\n")
		for _, line := range logBody(e) {
			b.WriteString(wordwrap.String(line, max(width-2, 10)) + "\n")
		}
	}
	return b.String()
}

func plainLog(entries []explorer.LogEntry) string {
	var b strings.Builder
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		b.WriteString(fmt.Sprintf("[%s] %s\n", formatElapsed(e.Elapsed), logHeadline(e)))
		for _, line := range logBody(e) {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func logHeadline(e explorer.LogEntry) string {
	switch e.Kind {
	case explorer.LogDialogue:
		h := e.Title
		if e.DialogueTitle != "" {
			h += ": " + e.DialogueTitle
		}
		if e.IsNew {
			h += " (new)"
		}
		return h
	case explorer.LogScene:
		return "~ " + e.Title
	default:
		h := e.Title
		if parts := e.Variant.Details(); len(parts) > 0 {
			h += " [" + strings.Join(parts, ", ") + "]"
		}
		return h
	}
}

func logBody(e explorer.LogEntry) []string {
	var out []string
	if e.Summary != "" {
		out = append(out, e.Summary)
	}
	out = append(out, e.Lines...)
	if e.Note != "" {
		out = append(out, e.Note)
	}
	return out
}

func formatElapsed(s float64) string {
	d := time.Duration(s * float64(time.Second)).Round(time.Second)
	return d.String()
}

type cell struct {
	r     rune
	style *lipgloss.Style
}

// renderMap draws the visible part of the world into a cols x rows grid.
func renderMap(e *explorer.Engine, st *explorer.State, cam *explorer.Camera, cols, rows int) string {
	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}
	ox, oy := cam.Origin()
	toCell := func(px, py float64) (int, int) {
		return int(math.Round(px/100*cam.WorldW - ox)), int(math.Round(py/100*cam.WorldH - oy))
	}
	put := func(x, y int, r rune, style *lipgloss.Style) {
		if y < 0 || y >= rows || x < 0 || x >= cols {
			return
		}
		grid[y][x] = cell{r: r, style: style}
	}
	text := func(x, y int, s string, style *lipgloss.Style) {
		for i, r := range []rune(s) {
			if r != ' ' {
				put(x+i, y, r, style)
			}
		}
	}

	cat := e.Catalog()
	for _, z := range cat.Zones {
		x, y := toCell(z.X, z.Y)
		text(x-len([]rune(z.Name))/2, y, z.Name, &zoneStyle)
	}
	for _, p := range st.Path {
		x, y := toCell(p.X, p.Y)
		put(x, y, '·', &trailStyle)
	}
	for _, entry := range cat.LocatedEntries() {
		if st.IsDormant(entry.ID) {
			continue
		}
		x, y := toCell(entry.Location.X, entry.Location.Y)
		if st.Collected[entry.ID] {
			put(x, y, '•', &collectedStyle)
		} else {
			put(x, y, 'o', &entryStyle)
		}
	}
	for _, mk := range st.Markers {
		x, y := toCell(mk.X, mk.Y)
		top := y - len(mk.Glyph)/2
		for i, line := range mk.Glyph {
			text(x-len([]rune(line))/2, top+i, line, &markerStyle)
		}
	}
	for _, n := range st.NPCs {
		x, y := toCell(n.X, n.Y)
		style := &npcStyle
		if explorer.HasNewDialogue(n.NPC, st) {
			style = &npcNewStyle
		}
		put(x, y, '@', style)
	}
	x, y := toCell(st.X, st.Y)
	put(x, y, '◆', &surveyorStyle)

	var b strings.Builder
	for yi, row := range grid {
		for _, c := range row {
			if c.style == nil {
				b.WriteRune(c.r)
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		if yi < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m AtlasUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("End Expedition?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the atlas?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N or Esc to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m AtlasUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	mapWidth, mapHeight := m.mapSize()
	metaWidth := m.width - mapWidth - 6

	mapPanel := mapPanelStyle.Width(mapWidth + 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			renderMap(m.engine, m.state, m.camera, mapWidth, mapHeight),
			promptStyle.Render(m.flash),
			separatorStyle.Render(strings.Repeat("─", mapWidth)),
			m.logViewport.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 1).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, mapPanel, metaPanel)
}
