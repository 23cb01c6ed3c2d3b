package explorer

import (
	"time"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
)

// LogKind classifies a field-log record.
type LogKind string

const (
	LogCollection LogKind = "collection"
	LogDialogue   LogKind = "dialogue"
	LogScene      LogKind = "scene"
)

// LogEntry is one record in the surveyor's bounded field log.
type LogEntry struct {
	Kind          LogKind          `json:"kind"`
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Summary       string           `json:"summary,omitempty"`
	Note          string           `json:"note,omitempty"`
	DialogueTitle string           `json:"dialogue_title,omitempty"`
	Lines         []string         `json:"lines,omitempty"`
	IsNew         bool             `json:"is_new,omitempty"`
	Variant       *catalog.Variant `json:"variant,omitempty"`
	Elapsed       float64          `json:"elapsed"`
	Time          time.Time        `json:"time"`
}

// NoticeKind classifies a Notice.
type NoticeKind string

const (
	NoticeCollected    NoticeKind = "collected"
	NoticeDialogue     NoticeKind = "dialogue"
	NoticeSceneStarted NoticeKind = "scene.started"
	NoticeSceneCleared NoticeKind = "scene.cleared"
	NoticeDormant      NoticeKind = "bloom.dormant"
	NoticeRegrowth     NoticeKind = "bloom.regrowth"
	NoticeZone         NoticeKind = "zone.arrival"
	NoticeMood         NoticeKind = "mood.line"
)

// Notice is a one-off state change pushed to presentation sinks.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Subject string     `json:"subject,omitempty"` // entry, npc, scene or zone id
	Title   string     `json:"title,omitempty"`
	Text    string     `json:"text,omitempty"`
	IsNew   bool       `json:"is_new,omitempty"`
	Elapsed float64    `json:"elapsed"`
}
