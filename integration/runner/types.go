package runner

import (
	"time"

	"github.com/google/uuid"
)

// Special step values that trigger non-simulation actions
const (
	ResetSessionStep = "RESET_SESSION"
)

// TestSuite defines a complete replay scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name    string     `json:"name"`
	Catalog string     `json:"catalog,omitempty"` // path relative to the integration dir
	Seed    int64      `json:"seed,omitempty"`    // fixed seed for the run
	Steps   []TestStep `json:"steps,omitempty"`   // Used for regular tests
	Cases   []string   `json:"cases,omitempty"`   // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep advances the simulation and checks the outcome.
// Use action: "RESET_SESSION" to start over with a fresh surveyor
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Action       string       `json:"action,omitempty"`
	TriggerScene string       `json:"trigger_scene,omitempty"` // scene template id, fired before advancing
	Advance      float64      `json:"advance,omitempty"`       // simulated seconds
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	PhaseIn           []string `json:"phase_in,omitempty"`
	MinTotalCollected *int     `json:"min_total_collected,omitempty"`
	MaxTotalCollected *int     `json:"max_total_collected,omitempty"`
	MinLogEntries     *int     `json:"min_log_entries,omitempty"`
	Collected         []string `json:"collected,omitempty"`     // entry ids that must be in the collected set
	DialogueSeen      []string `json:"dialogue_seen,omitempty"` // "npc:dialogue" keys
	SceneActive       *string  `json:"scene_active,omitempty"`  // scene id, "" for none
	DormantCount      *int     `json:"dormant_count,omitempty"`
	NoticeKinds       []string `json:"notice_kinds,omitempty"` // emitted during this step
	MoodTone          *string  `json:"mood_tone,omitempty"`
	Zone              *string  `json:"zone,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Elapsed  float64 // simulated seconds at the end of the step
	IsReset  bool    // True if this was a RESET_SESSION step (should not count toward pass/fail metrics)
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Session  uuid.UUID // ID of the last surveyor session used by this suite
}
