package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoodLine(t *testing.T) {
	tests := []struct {
		name     string
		template string
		ctx      MoodContext
		tone     string
		want     string
	}{
		{name: "empty template", template: "", want: ""},
		{name: "defaults", template: "{source} in {zone} feels {tone}", tone: "steady", want: "the route in the kingdom feels steady"},
		{name: "filled", template: "{npc} speaks of {source} near {zone}", ctx: MoodContext{Source: "the Ember", Zone: "Dawnmire", NPC: "Jansa"}, want: "Jansa speaks of the Ember near Dawnmire"},
		{name: "repeated", template: "{zone}, {zone}", ctx: MoodContext{Zone: "Marsh"}, want: "Marsh, Marsh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoodLine(tt.template, tt.ctx, tt.tone))
		})
	}
}

func TestApplyMoodTag(t *testing.T) {
	eng := newTestEngine(t, worldCatalog())
	st := eng.NewState()

	ctx := MoodContext{Source: "Tide Glass", Zone: "Dawnmire"}
	for i := 0; i < 4; i++ {
		eng.applyMoodTag(st, "wonder", ctx)
	}
	assert.Equal(t, 5.0, st.Mood.Value)
	assert.Equal(t, "awed", st.Mood.Tone)
	assert.Equal(t, "wonder", st.Mood.LastTag)
	require.NotNil(t, st.Mood.Display)
	assert.Equal(t, "Tide Glass glitters over Dawnmire.", st.Mood.Display.Text)
	assert.Equal(t, EmphasisPositive, st.Mood.Display.Emphasis)
	assert.Equal(t, 6.5, st.Mood.Display.Remaining)
	assert.Len(t, st.Mood.Queue, 3)
	assert.GreaterOrEqual(t, st.Mood.IdleTimer, 12.0)
	assert.Less(t, st.Mood.IdleTimer, 20.0)

	eng.updateMood(st, 7)
	require.NotNil(t, st.Mood.Display)
	assert.Len(t, st.Mood.Queue, 2)

	for i := 0; i < 5; i++ {
		eng.applyMoodTag(st, "dread", ctx)
	}
	assert.Equal(t, -5.0, st.Mood.Value)
	assert.Equal(t, "uneasy", st.Mood.Tone)

	eng.applyMoodTag(st, "no-such-tag", ctx)
	assert.Equal(t, -5.0, st.Mood.Value)
	assert.Equal(t, "dread", st.Mood.LastTag)

	var lines int
	for _, n := range st.DrainNotices() {
		if n.Kind == NoticeMood {
			lines++
		}
	}
	assert.Equal(t, 2, lines)
}

func TestUpdateMood_IdleLines(t *testing.T) {
	eng := newTestEngine(t, worldCatalog())
	st := eng.NewState()
	assert.GreaterOrEqual(t, st.Mood.IdleTimer, 10.0)
	assert.Less(t, st.Mood.IdleTimer, 16.0)

	st.Mood.IdleTimer = 0.1
	eng.updateMood(st, 0.5)
	require.NotNil(t, st.Mood.Display)
	assert.Equal(t, "The road through the kingdom hums along.", st.Mood.Display.Text)
	assert.Equal(t, EmphasisNeutral, st.Mood.Display.Emphasis)
	assert.Equal(t, 5.5, st.Mood.Display.Remaining)
	assert.GreaterOrEqual(t, st.Mood.IdleTimer, 18.0)
	assert.Less(t, st.Mood.IdleTimer, 28.0)

	// a tone without prompts borrows the steady ones
	st.Mood.Display = nil
	st.Mood.Tone = "uneasy"
	st.Mood.LastContext = MoodContext{Zone: "Ember Steppe"}
	st.Mood.IdleTimer = 0
	eng.updateMood(st, 0.1)
	require.NotNil(t, st.Mood.Display)
	assert.Equal(t, "The road through Ember Steppe hums along.", st.Mood.Display.Text)
	assert.Equal(t, "uneasy", st.Mood.Display.Tone)
}

func TestToneLabel(t *testing.T) {
	tests := map[string]string{
		"":                   "Steady",
		"awed":               "Awed",
		"quiet_awe":          "Quiet Awe",
		"bright-eyed wonder": "Bright Eyed Wonder",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToneLabel(in), in)
	}
}
