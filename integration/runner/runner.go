package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/jwebster45206/atlas-engine/pkg/explorer"
	"github.com/jwebster45206/atlas-engine/pkg/rng"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// DefaultFrame is the simulated step size, matching a 60 fps host.
const DefaultFrame = 1.0 / 60

// Runner replays case files against the engine with a fixed seed, stepping simulated
// time as fast as the CPU allows.
type Runner struct {
	Frame             float64
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	CatalogOverride   string // If set, overrides the catalog for all test cases
	SeedOffset        int64  // added to every suite seed; set by -seed-offset

	catalogs map[string]*catalog.Catalog
}

// NewRunner creates a new test runner
func NewRunner() *Runner {
	return &Runner{
		Frame:             DefaultFrame,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
		catalogs:          make(map[string]*catalog.Catalog),
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

func (r *Runner) loadCatalog(path string) (*catalog.Catalog, error) {
	if r.CatalogOverride != "" {
		path = r.CatalogOverride
	}
	if path == "" {
		return nil, fmt.Errorf("suite names no catalog")
	}
	if c, ok := r.catalogs[path]; ok {
		return c, nil
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	r.catalogs[path] = c
	return c, nil
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	cat, err := r.loadCatalog(suite.Catalog)
	if err != nil {
		result.Error = fmt.Errorf("failed to load catalog: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}

	engine := explorer.NewEngine(cat, explorer.WithRNG(rng.NewSeeded(suite.Seed+r.SeedOffset)))
	st := engine.NewState()
	result.Session = st.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)

		var stepResult TestResult
		if step.Action == ResetSessionStep {
			st = engine.NewState()
			result.Session = st.ID
			stepResult = TestResult{TestName: suite.Name, StepName: step.Name, Success: true, IsReset: true}
		} else {
			stepResult = r.runStep(ctx, engine, st, step)
			stepResult.TestName = suite.Name
		}
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%.1fs simulated, %v)", i+1, len(suite.Steps), step.Name, stepResult.Elapsed, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) runStep(ctx context.Context, engine *explorer.Engine, st *explorer.State, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	var notices []explorer.Notice
	if step.TriggerScene != "" {
		tpl, ok := engine.Catalog().Scene(step.TriggerScene)
		if !ok {
			result.Error = fmt.Errorf("unknown scene template %q", step.TriggerScene)
			return result
		}
		if !engine.TriggerScene(st, tpl) {
			result.Error = fmt.Errorf("scene %q did not start; %v is active", step.TriggerScene, activeSceneID(st))
			return result
		}
	}

	frame := r.Frame
	if frame <= 0 {
		frame = DefaultFrame
	}
	for remaining := step.Advance; remaining > 1e-9; remaining -= frame {
		if err := ctx.Err(); err != nil {
			result.Error = fmt.Errorf("step interrupted: %w", err)
			return result
		}
		engine.Step(st, min(frame, remaining))
		notices = append(notices, st.DrainNotices()...)
	}
	notices = append(notices, st.DrainNotices()...)

	result.Elapsed = st.Elapsed
	result.Duration = time.Since(start)
	if err := checkExpectations(step.Expectations, st, notices); err != nil {
		result.Error = err
		return result
	}
	result.Success = true
	return result
}

func activeSceneID(st *explorer.State) string {
	if st.Scene == nil {
		return ""
	}
	return st.Scene.Template.ID
}

// checkExpectations compares the surveyor against exp and reports the first mismatch.
func checkExpectations(exp Expectations, st *explorer.State, notices []explorer.Notice) error {
	if len(exp.PhaseIn) > 0 && !slices.Contains(exp.PhaseIn, string(st.PhaseKind())) {
		return fmt.Errorf("phase mismatch: expected one of %v, got %q", exp.PhaseIn, st.PhaseKind())
	}

	if exp.MinTotalCollected != nil && st.TotalCollected < *exp.MinTotalCollected {
		return fmt.Errorf("total collected %d below expected minimum %d", st.TotalCollected, *exp.MinTotalCollected)
	}
	if exp.MaxTotalCollected != nil && st.TotalCollected > *exp.MaxTotalCollected {
		return fmt.Errorf("total collected %d above expected maximum %d", st.TotalCollected, *exp.MaxTotalCollected)
	}
	if len(st.Collected) > st.TotalCollected {
		return fmt.Errorf("unique finds %d exceed total visits %d", len(st.Collected), st.TotalCollected)
	}

	if exp.MinLogEntries != nil && len(st.Log) < *exp.MinLogEntries {
		return fmt.Errorf("log has %d entries, expected at least %d", len(st.Log), *exp.MinLogEntries)
	}

	for _, id := range exp.Collected {
		if !st.Collected[id] {
			return fmt.Errorf("entry %q not collected", id)
		}
	}
	for _, key := range exp.DialogueSeen {
		if !st.DialogueSeen[key] {
			return fmt.Errorf("dialogue %q not seen", key)
		}
	}

	if exp.SceneActive != nil && activeSceneID(st) != *exp.SceneActive {
		return fmt.Errorf("active scene mismatch: expected %q, got %q", *exp.SceneActive, activeSceneID(st))
	}

	if exp.DormantCount != nil && len(st.Dormant) != *exp.DormantCount {
		return fmt.Errorf("dormant count mismatch: expected %d, got %d (%v)", *exp.DormantCount, len(st.Dormant), st.DormantIDs())
	}

	if len(exp.NoticeKinds) > 0 {
		seen := make(map[string]bool, len(notices))
		for _, n := range notices {
			seen[string(n.Kind)] = true
		}
		for _, kind := range exp.NoticeKinds {
			if !seen[kind] {
				return fmt.Errorf("expected a %q notice during the step", kind)
			}
		}
	}

	if exp.MoodTone != nil && st.Mood.Tone != *exp.MoodTone {
		return fmt.Errorf("mood tone mismatch: expected %q, got %q", *exp.MoodTone, st.Mood.Tone)
	}
	if exp.Zone != nil && st.Zone != *exp.Zone {
		return fmt.Errorf("zone mismatch: expected %q, got %q", *exp.Zone, st.Zone)
	}

	return nil
}
